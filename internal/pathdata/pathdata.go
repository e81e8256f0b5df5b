// Package pathdata converts captured strokes into path descriptions and
// measures them.
package pathdata

import (
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/sig2gif/internal/easing"
)

// lengthAccuracy is the curve subdivision tolerance used for measurement.
const lengthAccuracy = 0.01

// Point is a captured stroke sample.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// FromStroke builds a move-to/line-to description from a polyline.
// Strokes without points produce an empty string.
func FromStroke(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, pt := range points {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(formatCoord(pt.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(pt.Y))
	}
	return b.String()
}

// FromStrokes converts every non-empty stroke, preserving order.
func FromStrokes(strokes [][]Point) []string {
	out := make([]string, 0, len(strokes))
	for _, s := range strokes {
		if d := FromStroke(s); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Roughen displaces every sample by up to amount pixels using seeded noise,
// giving machine-smooth input a hand-drawn wobble. The input is not modified.
func Roughen(points []Point, amount float64, seed int64) []Point {
	out := make([]Point, len(points))
	n := easing.Noise(seed)
	for i, pt := range points {
		x := float64(i) * 0.35
		out[i] = Point{
			X: pt.X + n(x)*amount,
			Y: pt.Y + n(x+512.5)*amount,
		}
	}
	return out
}

// Length returns the arc length of a path description.
func Length(d string) (float64, error) {
	p, err := Parse(d)
	if err != nil {
		return 0, err
	}
	return p.Length(lengthAccuracy), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
