package source

import (
	"math"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/pathdata"
)

// SampleScene returns a synthetic signature: a looping cursive stroke, a
// dot and an underline, sized to width x height.
func SampleScene(width, height float64) *Scene {
	if width <= 0 {
		width = 320
	}
	if height <= 0 {
		height = 120
	}
	cfg := config.Default()

	return &Scene{
		Version: Version,
		Width:   width,
		Height:  height,
		Strokes: []Stroke{
			{Points: cursive(width, height, 96)},
			{Points: dot(width*0.78, height*0.18, height*0.03)},
			{Points: underline(width, height, 24)},
		},
		Animation: &cfg,
	}
}

func cursive(w, h float64, n int) []pathdata.Point {
	pts := make([]pathdata.Point, n)
	left, right := w*0.08, w*0.85
	mid := h * 0.5
	for i := range pts {
		t := float64(i) / float64(n-1)
		loop := 5 * 2 * math.Pi * t
		pts[i] = pathdata.Point{
			X: left + (right-left)*t - math.Sin(loop)*w*0.025,
			Y: mid - math.Cos(loop)*h*0.22*(1-0.4*t),
		}
	}
	return pts
}

func dot(cx, cy, r float64) []pathdata.Point {
	const steps = 8
	pts := make([]pathdata.Point, steps+1)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / steps
		pts[i] = pathdata.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

func underline(w, h float64, n int) []pathdata.Point {
	pts := make([]pathdata.Point, n)
	for i := range pts {
		t := float64(i) / float64(n-1)
		pts[i] = pathdata.Point{
			X: w*0.1 + w*0.8*t,
			Y: h*0.85 - math.Sin(math.Pi*t)*h*0.05,
		}
	}
	return pts
}
