package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/ivlev/sig2gif/internal/render"
	"github.com/ivlev/sig2gif/internal/system"
)

// PNG rasterizes the fully drawn signature at scale times the native view
// box size on a transparent background. A non-positive scale uses the
// exporter default. Playback is suspended only for the capture itself.
func (e *Exporter) PNG(ctx context.Context, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = e.opts.Scale
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scene, err := e.capture(1)
	if err != nil {
		return nil, err
	}
	vb, err := e.viewBox(scene)
	if err != nil {
		return nil, err
	}

	img, err := render.Rasterize(render.Scene{ViewBox: vb, Items: scene}, render.RasterOptions{Scale: scale})
	if err != nil {
		return nil, fmt.Errorf("export: png: %w", err)
	}
	defer system.PutFrame(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("export: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// capture suspends the timeline, renders progress p, copies the styles and
// restores playback, all in one step on the timeline goroutine.
func (e *Exporter) capture(p float64) (scene []render.Entry, err error) {
	e.exec.Do(func() {
		if e.tl.Len() == 0 {
			err = ErrNoPaths
			return
		}
		cp := e.tl.Suspend()
		defer e.tl.Restore(cp)
		e.tl.Render(p)
		scene, err = e.tl.Scene()
	})
	return scene, err
}
