package pathdata

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gogpu/gg"
)

// ErrEmptyPath is returned for a path description without commands.
var ErrEmptyPath = errors.New("pathdata: empty path")

// Parse converts an SVG path description into a gg.Path.
// Supported commands: M L H V Q C Z in absolute and relative form.
func Parse(d string) (*gg.Path, error) {
	sc := &scanner{s: d}
	p := gg.NewPath()

	var cmd byte
	var cur, start gg.Point
	first := true

	for {
		sc.skipSep()
		if sc.done() {
			break
		}

		c := sc.s[sc.i]
		switch {
		case isCommand(c):
			cmd = c
			sc.i++
		case cmd == 0:
			return nil, fmt.Errorf("pathdata: expected command at offset %d", sc.i)
		case cmd == 'Z' || cmd == 'z':
			return nil, fmt.Errorf("pathdata: unexpected number after close at offset %d", sc.i)
		}

		if first && cmd != 'M' && cmd != 'm' {
			return nil, fmt.Errorf("pathdata: path must start with a move, got %q", cmd)
		}
		first = false

		rel := cmd >= 'a'
		base := gg.Point{}
		if rel {
			base = cur
		}

		switch cmd {
		case 'M', 'm':
			pt, err := sc.point()
			if err != nil {
				return nil, err
			}
			pt = pt.Add(base)
			p.MoveTo(pt.X, pt.Y)
			cur, start = pt, pt
			// further coordinate pairs are implicit line-tos
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			pt, err := sc.point()
			if err != nil {
				return nil, err
			}
			pt = pt.Add(base)
			p.LineTo(pt.X, pt.Y)
			cur = pt
		case 'H', 'h':
			x, err := sc.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += cur.X
			}
			p.LineTo(x, cur.Y)
			cur.X = x
		case 'V', 'v':
			y, err := sc.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += cur.Y
			}
			p.LineTo(cur.X, y)
			cur.Y = y
		case 'Q', 'q':
			pts, err := sc.points(2)
			if err != nil {
				return nil, err
			}
			c1, end := pts[0].Add(base), pts[1].Add(base)
			p.QuadraticTo(c1.X, c1.Y, end.X, end.Y)
			cur = end
		case 'C', 'c':
			pts, err := sc.points(3)
			if err != nil {
				return nil, err
			}
			c1, c2, end := pts[0].Add(base), pts[1].Add(base), pts[2].Add(base)
			p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
			cur = end
		case 'Z', 'z':
			p.LineTo(start.X, start.Y)
			p.Close()
			cur = start
		default:
			return nil, fmt.Errorf("pathdata: unsupported command %q", cmd)
		}
	}

	if first {
		return nil, ErrEmptyPath
	}
	return p, nil
}

type scanner struct {
	s string
	i int
}

func (sc *scanner) done() bool {
	return sc.i >= len(sc.s)
}

func (sc *scanner) skipSep() {
	for sc.i < len(sc.s) {
		switch sc.s[sc.i] {
		case ' ', '\t', '\n', '\r', ',':
			sc.i++
		default:
			return
		}
	}
}

func (sc *scanner) number() (float64, error) {
	sc.skipSep()
	start := sc.i
	if sc.i < len(sc.s) && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
		sc.i++
	}
	digits := sc.digits()
	if sc.i < len(sc.s) && sc.s[sc.i] == '.' {
		sc.i++
		digits += sc.digits()
	}
	if digits == 0 {
		sc.i = start
		return 0, fmt.Errorf("pathdata: expected number at offset %d", start)
	}
	if sc.i < len(sc.s) && (sc.s[sc.i] == 'e' || sc.s[sc.i] == 'E') {
		sc.i++
		if sc.i < len(sc.s) && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
			sc.i++
		}
		if sc.digits() == 0 {
			return 0, fmt.Errorf("pathdata: malformed exponent at offset %d", start)
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:sc.i], 64)
	if err != nil {
		return 0, fmt.Errorf("pathdata: %w", err)
	}
	return v, nil
}

func (sc *scanner) digits() int {
	n := 0
	for sc.i < len(sc.s) && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '9' {
		sc.i++
		n++
	}
	return n
}

func (sc *scanner) point() (gg.Point, error) {
	x, err := sc.number()
	if err != nil {
		return gg.Point{}, err
	}
	y, err := sc.number()
	if err != nil {
		return gg.Point{}, err
	}
	return gg.Pt(x, y), nil
}

func (sc *scanner) points(n int) ([]gg.Point, error) {
	pts := make([]gg.Point, n)
	for i := range pts {
		pt, err := sc.point()
		if err != nil {
			return nil, err
		}
		pts[i] = pt
	}
	return pts, nil
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'Q', 'q', 'C', 'c', 'Z', 'z':
		return true
	}
	// letters other than exponent markers are unsupported commands
	return (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') && c != 'e' && c != 'E'
}
