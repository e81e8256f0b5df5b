package gifenc

import (
	"bytes"
	"compress/lzw"
	"context"
	"image"
	"image/color"
	"image/gif"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
)

// blockLayout walks the container and returns the labels of the blocks
// that follow the global colour table, in order.
func blockLayout(t *testing.T, data []byte) []byte {
	t.Helper()
	i := 13 + 3*PaletteSize
	var labels []byte
	skipSubBlocks := func() {
		for data[i] != 0 {
			i += int(data[i]) + 1
		}
		i++
	}
	for i < len(data) {
		switch data[i] {
		case 0x21:
			labels = append(labels, data[i+1])
			i += 2
			skipSubBlocks()
		case 0x2C:
			labels = append(labels, 0x2C)
			i += 10 // descriptor
			i++     // min code size
			skipSubBlocks()
		case 0x3B:
			require.Equal(t, len(data)-1, i, "trailer must be last")
			return append(labels, 0x3B)
		default:
			t.Fatalf("unexpected byte %#x at %d", data[i], i)
		}
	}
	t.Fatal("missing trailer")
	return nil
}

func TestEncodeTwoFrames(t *testing.T) {
	frames := []*image.NRGBA{solid(4, 4, red), solid(4, 4, blue)}
	data, err := Encode(context.Background(), frames, Options{Delay: 4, Quality: 10, Background: Color{255, 255, 255}})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, data[:6])
	assert.Equal(t, byte(0x3B), data[len(data)-1])
	assert.Equal(t, []byte{0xFF, 0xF9, 0x2C, 0xF9, 0x2C, 0x3B}, blockLayout(t, data))

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, g.Image, 2)
	assert.Equal(t, []int{4, 4}, g.Delay)
	assert.Equal(t, 0, g.LoopCount)

	r, gg, b, _ := g.Image[0].At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0, 0}, []uint32{r, gg, b})
	r, gg, b, _ = g.Image[1].At(3, 0).RGBA()
	assert.Equal(t, []uint32{0, 0, 0xFFFF}, []uint32{r, gg, b})
}

func TestEncodeTransparent(t *testing.T) {
	f := solid(3, 3, color.NRGBA{})
	f.SetNRGBA(1, 1, red)
	data, err := Encode(context.Background(), []*image.NRGBA{f}, Options{Transparent: true, Quality: 1})
	require.NoError(t, err)

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	img := g.Image[0]
	assert.Equal(t, uint8(0), img.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(1), img.ColorIndexAt(1, 1))
	_, _, _, a := img.Palette[0].RGBA()
	assert.Zero(t, a)
	assert.Equal(t, byte(gif.DisposalBackground), g.Disposal[0])
}

func TestEncodeDeterministic(t *testing.T) {
	frames := []*image.NRGBA{gradient(40, 30, 0), gradient(40, 30, 7), gradient(40, 30, 13)}
	a, err := Encode(context.Background(), frames, Options{Quality: 3})
	require.NoError(t, err)
	b, err := Encode(context.Background(), frames, Options{Quality: 3})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrNoFrames)

	_, err = Encode(context.Background(), []*image.NRGBA{solid(2, 2, red), solid(3, 2, red)}, Options{})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Encode(ctx, []*image.NRGBA{solid(2, 2, red)}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNearestIndex(t *testing.T) {
	pal := []Color{{255, 0, 0}, {0, 0, 255}}
	assert.Equal(t, 0, NearestIndex(pal, 200, 10, 10))
	assert.Equal(t, 1, NearestIndex(pal, 10, 10, 200))

	tie := []Color{{0, 0, 0}, {20, 0, 0}}
	assert.Equal(t, 0, NearestIndex(tie, 10, 0, 0), "first minimum wins")
	assert.Equal(t, -1, NearestIndex(nil, 1, 2, 3))
}

func TestBuildPalette(t *testing.T) {
	green := color.NRGBA{0, 255, 0, 255}
	f := solid(5, 1, color.NRGBA{})
	f.SetNRGBA(0, 0, blue)
	f.SetNRGBA(1, 0, green)
	f.SetNRGBA(2, 0, red)
	f.SetNRGBA(3, 0, blue)
	f.SetNRGBA(4, 0, color.NRGBA{9, 9, 9, 128})

	p := BuildPalette([]*image.NRGBA{f}, 1, Color{255, 255, 255})
	assert.Equal(t, 4, p.Used, "duplicates and alpha <= 128 are skipped")
	assert.Equal(t, Color{255, 255, 255}, p.Colors[0])
	assert.Equal(t, Color{0, 0, 255}, p.Colors[1])
	assert.Equal(t, Color{0, 255, 0}, p.Colors[2])
	assert.Equal(t, Color{255, 0, 0}, p.Colors[3])
	assert.Equal(t, Color{}, p.Colors[255])

	coarse := BuildPalette([]*image.NRGBA{f}, 2, Color{})
	assert.Equal(t, 3, coarse.Used, "stride 2 samples pixels 0, 2 and 4")
	assert.Equal(t, Color{255, 0, 0}, coarse.Colors[2])
}

func TestBuildPaletteQuantizes(t *testing.T) {
	f := gradient(64, 64, 0)
	p := BuildPalette([]*image.NRGBA{f}, 1, Color{})
	assert.Equal(t, PaletteSize, p.Used)

	idx := IndexFrame(f, p)
	assert.Len(t, idx, 64*64)
	for _, v := range idx {
		require.NotZero(t, v, "opaque pixels never map to the background entry")
	}
}

func TestBuildPaletteReservesBackground(t *testing.T) {
	ramp := func(n int) *image.NRGBA {
		f := image.NewNRGBA(image.Rect(0, 0, n, 1))
		for i := 0; i < n; i++ {
			f.SetNRGBA(i, 0, color.NRGBA{uint8(i), 0, 0, 255})
		}
		return f
	}

	exact := BuildPalette([]*image.NRGBA{ramp(255)}, 1, Color{1, 2, 3})
	assert.Equal(t, PaletteSize, exact.Used)
	assert.Equal(t, Color{1, 2, 3}, exact.Colors[0])
	for i := 0; i < 255; i++ {
		require.Equal(t, Color{uint8(i), 0, 0}, exact.Colors[i+1], "255 colours fit unquantized")
	}

	over := BuildPalette([]*image.NRGBA{ramp(256)}, 1, Color{1, 2, 3})
	assert.Equal(t, PaletteSize, over.Used)
	assert.Equal(t, Color{1, 2, 3}, over.Colors[0])
	assert.NotContains(t, over.Colors[1:], Color{255, 0, 0}, "256 colours are bucketed")
}

func TestStride(t *testing.T) {
	assert.Equal(t, 1, Stride(-5))
	assert.Equal(t, 10, Stride(10))
	assert.Equal(t, 30, Stride(99))
}

func TestDelayForFPS(t *testing.T) {
	assert.Equal(t, 4, DelayForFPS(24))
	assert.Equal(t, 10, DelayForFPS(10))
	assert.Equal(t, 1, DelayForFPS(100))
	assert.Equal(t, 1, DelayForFPS(0))
}

func gradient(w, h, shift int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x*4 + shift), uint8(y * 4), uint8((x + y + shift) * 2), 255})
		}
	}
	return img
}

func TestCompressMatchesStdlib(t *testing.T) {
	inputs := [][]byte{
		{},
		{7},
		bytes.Repeat([]byte{1, 2, 3}, 50),
	}
	noisy := make([]byte, 40000)
	s := uint32(1)
	for i := range noisy {
		s = s*1664525 + 1013904223
		noisy[i] = byte(s >> 24)
	}
	inputs = append(inputs, noisy)

	for _, in := range inputs {
		var want bytes.Buffer
		zw := lzw.NewWriter(&want, lzw.LSB, 8)
		_, err := zw.Write(in)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		got := Compress(in, 8)
		assert.Equal(t, want.Bytes(), got, "len %d", len(in))

		zr := lzw.NewReader(bytes.NewReader(got), lzw.LSB, 8)
		back, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, len(in), len(back))
		assert.True(t, bytes.Equal(in, back))
	}
}

func TestSubBlocks(t *testing.T) {
	assert.Equal(t, []byte{0}, SubBlocks(nil))

	out := SubBlocks(make([]byte, 600))
	assert.Equal(t, byte(255), out[0])
	assert.Equal(t, byte(255), out[256])
	assert.Equal(t, byte(90), out[512])
	assert.Len(t, out, 600+3+1)
	assert.Equal(t, byte(0), out[len(out)-1])
}
