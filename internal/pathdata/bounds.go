package pathdata

import "math"

// Rect is an axis-aligned box in path coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Empty reports whether the box has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Inset grows the box by d on every side (shrinks for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Union returns the smallest box containing both.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Bounds returns the union of the bounding boxes of all parsable paths.
// ok is false when no path contributed.
func Bounds(ds []string) (r Rect, ok bool) {
	for _, d := range ds {
		p, err := Parse(d)
		if err != nil || len(p.Elements()) == 0 {
			continue
		}
		bb := p.BoundingBox()
		pr := Rect{MinX: bb.Min.X, MinY: bb.Min.Y, MaxX: bb.Max.X, MaxY: bb.Max.Y}
		if !ok {
			r, ok = pr, true
			continue
		}
		r = r.Union(pr)
	}
	return r, ok
}

// ViewBox pads tight path bounds by half the widest stroke plus padding and
// snaps the result outward to whole units.
func ViewBox(bounds Rect, maxStrokeWidth, padding float64) Rect {
	r := bounds.Inset(maxStrokeWidth/2 + padding)
	return Rect{
		MinX: math.Floor(r.MinX),
		MinY: math.Floor(r.MinY),
		MaxX: math.Ceil(r.MaxX),
		MaxY: math.Ceil(r.MaxY),
	}
}
