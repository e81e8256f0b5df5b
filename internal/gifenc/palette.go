package gifenc

import (
	"image"
	"sort"
)

// PaletteSize is the number of global colour table entries.
const PaletteSize = 256

// Color is an opaque palette entry.
type Color struct {
	R, G, B uint8
}

// Palette is a global colour table. Entry 0 is the background, which is
// also the transparent index. Used counts the meaningful entries including
// entry 0; the rest is padding.
type Palette struct {
	Colors [PaletteSize]Color
	Used   int
}

// Stride converts a quality setting to a sampling stride: every Stride-th
// pixel is sampled. Larger is coarser and faster.
func Stride(quality int) int {
	switch {
	case quality < 1:
		return 1
	case quality > 30:
		return 30
	}
	return quality
}

// BuildPalette samples every frame with the quality stride and collects the
// distinct opaque colours in first-seen order. Pixels with alpha at or below
// 128 are ignored. Entry 0 always holds background, so only 255 entries are
// left for frame colours: 256 or more distinct colours are sorted by r+g+b
// and averaged into 255 even buckets, not a median cut.
func BuildPalette(frames []*image.NRGBA, quality int, background Color) Palette {
	stride := Stride(quality)
	seen := make(map[Color]struct{})
	var colors []Color

	for _, f := range frames {
		n := len(f.Pix) / 4
		for i := 0; i < n; i += stride {
			px := f.Pix[i*4 : i*4+4]
			if px[3] <= 128 {
				continue
			}
			c := Color{px[0], px[1], px[2]}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			colors = append(colors, c)
		}
	}

	if len(colors) > PaletteSize-1 {
		colors = quantize(colors, PaletteSize-1)
	}

	var p Palette
	p.Colors[0] = background
	copy(p.Colors[1:], colors)
	p.Used = 1 + len(colors)
	return p
}

// quantize sorts by channel sum and averages n contiguous buckets.
func quantize(colors []Color, n int) []Color {
	sorted := make([]Color, len(colors))
	copy(sorted, colors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sum(sorted[i]) < sum(sorted[j])
	})

	out := make([]Color, 0, n)
	for b := 0; b < n; b++ {
		start := b * len(sorted) / n
		end := (b + 1) * len(sorted) / n
		if end <= start {
			continue
		}
		var r, g, bl int
		for _, c := range sorted[start:end] {
			r += int(c.R)
			g += int(c.G)
			bl += int(c.B)
		}
		k := end - start
		out = append(out, Color{uint8(r / k), uint8(g / k), uint8(bl / k)})
	}
	return out
}

func sum(c Color) int {
	return int(c.R) + int(c.G) + int(c.B)
}

// NearestIndex returns the index of the entry closest to (r, g, b) by
// squared Euclidean distance. Ties go to the lowest index. An empty palette
// yields -1.
func NearestIndex(palette []Color, r, g, b uint8) int {
	best, bestDist := -1, int(^uint(0)>>1)
	for i, c := range palette {
		dr := int(c.R) - int(r)
		dg := int(c.G) - int(g)
		db := int(c.B) - int(b)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}

// IndexFrame maps every pixel to a palette index. Pixels with alpha below
// 128 map to 0; opaque ones to the nearest colour among entries 1..Used-1.
func IndexFrame(f *image.NRGBA, p Palette) []byte {
	w, h := f.Rect.Dx(), f.Rect.Dy()
	out := make([]byte, w*h)
	colors := p.Colors[1:max(p.Used, 1)]
	memo := make(map[Color]byte)

	for y := 0; y < h; y++ {
		row := f.Pix[y*f.Stride : y*f.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			if px[3] < 128 {
				continue
			}
			c := Color{px[0], px[1], px[2]}
			idx, ok := memo[c]
			if !ok {
				if i := NearestIndex(colors, c.R, c.G, c.B); i >= 0 {
					idx = byte(i + 1)
				}
				memo[c] = idx
			}
			out[y*w+x] = idx
		}
	}
	return out
}
