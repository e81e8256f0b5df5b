package player

import (
	"strings"

	"github.com/ivlev/sig2gif/internal/export"
	"github.com/ivlev/sig2gif/internal/render"
	"github.com/ivlev/sig2gif/internal/system"
)

const (
	previewPadding = 4
	alphaThreshold = 96
)

// preview rasterizes the scene cols pixels wide and folds every pair of
// pixel rows into one line of half-block characters.
func preview(scene []render.Entry, cols int) ([]string, error) {
	if cols <= 0 {
		return nil, nil
	}
	vb, err := export.ViewBox(scene, previewPadding)
	if err != nil {
		return nil, err
	}
	scale := float64(cols) / vb.Width()
	img, err := render.Rasterize(render.Scene{ViewBox: vb, Items: scene}, render.RasterOptions{Scale: scale})
	if err != nil {
		return nil, err
	}
	defer system.PutFrame(img)

	b := img.Bounds()
	inked := func(x, y int) bool {
		if y >= b.Max.Y {
			return false
		}
		return img.NRGBAAt(x, y).A > alphaThreshold
	}

	lines := make([]string, 0, (b.Dy()+1)/2)
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		sb.Reset()
		for x := b.Min.X; x < b.Max.X; x++ {
			top, bottom := inked(x, y), inked(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		lines = append(lines, sb.String())
	}
	return lines, nil
}
