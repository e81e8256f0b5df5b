package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"

	"github.com/ivlev/sig2gif/internal/logging"
	"github.com/ivlev/sig2gif/internal/pathdata"
	"github.com/ivlev/sig2gif/internal/system"
)

// MaxSide caps either dimension of an offscreen surface.
const MaxSide = 8192

// ErrSurface is returned when a surface of the requested size cannot be
// acquired.
var ErrSurface = errors.New("render: cannot acquire surface")

// Surface is a scoped offscreen drawing canvas. Release it on every exit
// path; Release is idempotent.
type Surface struct {
	dc *gg.Context
}

// NewSurface acquires a w×h canvas.
func NewSurface(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 || w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrSurface, w, h)
	}
	return &Surface{dc: gg.NewContext(w, h)}, nil
}

// Context exposes the underlying drawing context.
func (s *Surface) Context() *gg.Context { return s.dc }

// Release frees the canvas state.
func (s *Surface) Release() error {
	if s == nil || s.dc == nil {
		return nil
	}
	return s.dc.Close()
}

// Scene is what Rasterize paints: mounted paths in paint order, framed by a
// view box in path coordinates.
type Scene struct {
	ViewBox pathdata.Rect
	Items   []Entry
}

// RasterOptions controls Rasterize.
type RasterOptions struct {
	// Scale maps one view box unit to Scale pixels.
	Scale float64
	// Background fills the canvas first; nil leaves it transparent.
	Background color.Color
}

// Size returns the pixel dimensions Rasterize produces for sc.
func Size(vb pathdata.Rect, scale float64) (w, h int) {
	return int(math.Ceil(vb.Width() * scale)), int(math.Ceil(vb.Height() * scale))
}

// Rasterize paints sc on a fresh surface and returns the pixels as a
// non-premultiplied buffer from the shared frame pool. Hand it back with
// system.PutFrame when done.
func Rasterize(sc Scene, opts RasterOptions) (*image.NRGBA, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	w, h := Size(sc.ViewBox, opts.Scale)
	surf, err := NewSurface(w, h)
	if err != nil {
		return nil, err
	}
	defer surf.Release()

	dc := surf.Context()
	if opts.Background != nil {
		dc.ClearWithColor(gg.FromColor(opts.Background))
	} else {
		dc.Clear()
	}

	dc.Scale(opts.Scale, opts.Scale)
	dc.Translate(-sc.ViewBox.MinX, -sc.ViewBox.MinY)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, it := range sc.Items {
		if err := strokeEntry(dc, it); err != nil {
			return nil, fmt.Errorf("render: stroke %s: %w", it.ID, err)
		}
	}

	dst := system.GetFrame(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return dst, nil
}

func strokeEntry(dc *gg.Context, e Entry) error {
	st := e.Style
	if st.Hidden || st.Width <= 0 {
		return nil
	}
	if st.DashArray > 0 && st.Drawn() <= 0 {
		return nil
	}

	p, err := pathdata.Parse(e.D)
	if err != nil {
		logging.Logger().Debug("render: skipping unparsable path", "path", e.ID, "err", err)
		return nil
	}

	col, err := ParseColor(st.Color)
	if err != nil {
		logging.Logger().Debug("render: falling back to black", "path", e.ID, "err", err)
		col = color.NRGBA{A: 255}
	}

	dc.Push()
	defer dc.Pop()
	if st.Transformed {
		dc.Translate(st.Dx, st.Dy)
	}

	dc.SetColor(col)
	dc.SetLineWidth(st.Width)
	// overshooting easings push the offset outside [0, length]; the raster
	// dash cannot express that, so the visible part is clamped
	offset := math.Max(0, math.Min(st.DashOffset, st.DashArray))
	if st.DashArray > 0 && offset > 0 {
		dc.SetDash(st.DashArray, st.DashArray)
		dc.SetDashOffset(offset)
	} else {
		dc.ClearDash()
	}

	for _, el := range p.Elements() {
		switch v := el.(type) {
		case gg.MoveTo:
			dc.MoveTo(v.Point.X, v.Point.Y)
		case gg.LineTo:
			dc.LineTo(v.Point.X, v.Point.Y)
		case gg.QuadTo:
			dc.QuadraticTo(v.Control.X, v.Control.Y, v.Point.X, v.Point.Y)
		case gg.CubicTo:
			dc.CubicTo(v.Control1.X, v.Control1.Y, v.Control2.X, v.Control2.Y, v.Point.X, v.Point.Y)
		case gg.Close:
			dc.ClosePath()
		}
	}
	return dc.Stroke()
}
