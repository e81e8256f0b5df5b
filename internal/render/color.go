package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ParseColor accepts "#rgb", "#rgba", "#rrggbb", "#rrggbbaa", CSS/SVG colour
// keywords, and "none"/"transparent".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch lower {
	case "":
		return color.NRGBA{}, fmt.Errorf("render: empty colour")
	case "none", "transparent":
		return color.NRGBA{}, nil
	}

	if strings.HasPrefix(s, "#") {
		if !isHex(s[1:]) {
			return color.NRGBA{}, fmt.Errorf("render: bad hex colour %q", s)
		}
		return gg.Hex(s).Color().(color.NRGBA), nil
	}

	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("render: unknown colour %q", s)
}

func isHex(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
