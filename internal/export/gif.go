package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ivlev/sig2gif/internal/gifenc"
	"github.com/ivlev/sig2gif/internal/logging"
	"github.com/ivlev/sig2gif/internal/pathdata"
	"github.com/ivlev/sig2gif/internal/render"
	"github.com/ivlev/sig2gif/internal/system"
	"github.com/ivlev/sig2gif/internal/timeline"
)

// GIFOptions overrides the exporter defaults for one GIF. Zero values keep
// the defaults; Duration zero means the timeline duration.
type GIFOptions struct {
	FPS         int
	Quality     int
	Duration    float64 // ms
	MaxWidth    int
	Scale       float64
	Transparent bool
	// Background overrides the exporter background colour.
	Background string
}

// FrameCount returns how many intervals a capture of duration ms at fps
// spans. Frames 0 through FrameCount inclusive are captured.
func FrameCount(duration float64, fps int) int {
	n := int(math.Ceil(duration / 1000 * float64(fps)))
	return max(n, 1)
}

// GIF captures the animation frame by frame and encodes it. Each frame is
// rendered on the timeline goroutine and rasterized on the caller's; the
// timeline stays suspended for the whole capture and is restored on every
// exit path.
func (e *Exporter) GIF(ctx context.Context, opts GIFOptions) ([]byte, error) {
	if opts.FPS <= 0 {
		opts.FPS = e.opts.FPS
	}
	if opts.Quality <= 0 {
		opts.Quality = e.opts.Quality
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = e.opts.MaxWidth
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	opts.Transparent = opts.Transparent || e.opts.Transparent

	var (
		bg  color.Color
		err error
	)
	if opts.Background != "" && !opts.Transparent {
		var c color.NRGBA
		if c, err = render.ParseColor(opts.Background); err != nil {
			return nil, fmt.Errorf("export: background: %w", err)
		}
		bg = c
	} else {
		bg, err = e.background(opts.Transparent, "#ffffff")
	}
	if err != nil {
		return nil, err
	}

	var (
		cp        timeline.Checkpoint
		suspended bool
		vb        pathdata.Rect
		duration  float64
	)
	e.exec.Do(func() {
		if e.tl.Len() == 0 {
			err = ErrNoPaths
			return
		}
		cp = e.tl.Suspend()
		suspended = true
		duration = e.tl.Duration()

		// frame the fully drawn state so later frames fit
		e.tl.Render(1)
		var scene []render.Entry
		if scene, err = e.tl.Scene(); err == nil {
			vb, err = e.viewBox(scene)
		}
	})
	if suspended {
		defer e.exec.Do(func() { e.tl.Restore(cp) })
	}
	if err != nil {
		return nil, err
	}
	if opts.Duration > 0 {
		duration = opts.Duration
	}

	n := FrameCount(duration, opts.FPS)
	frames := make([]*image.NRGBA, 0, n+1)
	defer func() {
		for _, f := range frames {
			system.PutFrame(f)
		}
	}()

	for i := 0; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := e.captureFrame(float64(i)/float64(n), vb, opts, bg)
		if err != nil {
			return nil, fmt.Errorf("export: gif frame %d: %w", i, err)
		}
		frames = append(frames, f)
	}

	gopts := gifenc.Options{
		Delay:       gifenc.DelayForFPS(opts.FPS),
		Quality:     opts.Quality,
		Transparent: opts.Transparent,
		Background:  paletteColor(bg),
	}
	data, err := gifenc.Encode(ctx, frames, gopts)
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("export: gif encoded", "frames", len(frames), "bytes", len(data))
	return data, nil
}

// captureFrame renders progress p on the timeline goroutine, then
// rasterizes the copied styles here.
func (e *Exporter) captureFrame(p float64, vb pathdata.Rect, opts GIFOptions, bg color.Color) (*image.NRGBA, error) {
	var (
		scene []render.Entry
		err   error
	)
	e.exec.Do(func() {
		e.tl.Render(p)
		scene, err = e.tl.Scene()
	})
	if err != nil {
		return nil, err
	}

	img, err := render.Rasterize(render.Scene{ViewBox: vb, Items: scene}, render.RasterOptions{Scale: opts.Scale, Background: bg})
	if err != nil {
		return nil, err
	}
	if opts.MaxWidth > 0 && img.Bounds().Dx() > opts.MaxWidth {
		small := imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
		system.PutFrame(img)
		return small, nil
	}
	return img, nil
}

func paletteColor(c color.Color) gifenc.Color {
	if c == nil {
		return gifenc.Color{}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return gifenc.Color{R: n.R, G: n.G, B: n.B}
}
