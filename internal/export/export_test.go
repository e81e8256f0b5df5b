package export

import (
	"bytes"
	"context"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/sig2gif/internal/frame"
	"github.com/ivlev/sig2gif/internal/render"
	"github.com/ivlev/sig2gif/internal/timeline"
)

type fixture struct {
	tl    *timeline.Timeline
	clock *frame.Manual
	exp   *Exporter
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := frame.NewManual(0)
	tl := timeline.New(timeline.Options{Scheduler: clock, Target: render.NewSheet()})
	_, err := tl.Register(timeline.PathSpec{ID: "top", D: "M10 10 L90 10", Duration: 1000, Color: "#ff0000", StrokeWidth: 4})
	require.NoError(t, err)
	_, err = tl.Register(timeline.PathSpec{ID: "bottom", D: "M10 30 L90 30", Duration: 1000, Delay: 500, Color: "navy", StrokeWidth: 2})
	require.NoError(t, err)
	exp := New(tl, clock, Options{Padding: 10})
	return fixture{tl: tl, clock: clock, exp: exp}
}

func TestSVGStatic(t *testing.T) {
	f := newFixture(t)
	out := f.exp.SVG(SVGOptions{})
	require.NotEmpty(t, out)

	assert.Contains(t, out, `viewBox="-2 -2 104 44"`)
	assert.Contains(t, out, `<path d="M10 10 L90 10"`)
	assert.Contains(t, out, `stroke="#ff0000"`)
	assert.Contains(t, out, `stroke-width="4"`)
	assert.Contains(t, out, `fill="none"`)
	assert.Contains(t, out, `<title>signature</title>`)
	assert.NotContains(t, out, "<animate")
	assert.NotContains(t, out, "stroke-dashoffset")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestSVGAnimated(t *testing.T) {
	f := newFixture(t)
	out := f.exp.SVG(SVGOptions{Animated: true})

	assert.Equal(t, 2, strings.Count(out, `attributeName="stroke-dashoffset"`))
	assert.Contains(t, out, `xlink:href="#stroke-0"`)
	assert.Contains(t, out, `from="80" to="0" dur="1s" repeatCount="1"`)
	assert.Contains(t, out, `begin="0.5s"`)
	assert.Contains(t, out, `fill="freeze"`)
	assert.Contains(t, out, `stroke-dasharray="80"`)

	scaled := f.exp.SVG(SVGOptions{Animated: true, Duration: 3000})
	assert.Contains(t, scaled, `dur="2s"`)
	assert.Contains(t, scaled, `begin="1s"`)
}

func TestSVGLoop(t *testing.T) {
	f := newFixture(t)
	out := f.exp.SVG(SVGOptions{Animated: true, Loop: true})

	assert.Equal(t, 2, strings.Count(out, `repeatCount="indefinite"`))
	assert.Contains(t, out, `dur="1.5s"`)
	assert.Contains(t, out, `keyTimes="0;0;0.6667;1"`)
	assert.Contains(t, out, `keyTimes="0;0.3333;1;1"`)
	assert.Contains(t, out, `values="80;80;0;0"`)
}

func TestSVGWithoutPathsIsEmpty(t *testing.T) {
	clock := frame.NewManual(0)
	exp := New(timeline.New(timeline.Options{Scheduler: clock}), clock, Options{})
	assert.Equal(t, "", exp.SVG(SVGOptions{Animated: true}))

	_, err := exp.PNG(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNoPaths)
	_, err = exp.GIF(context.Background(), GIFOptions{})
	assert.ErrorIs(t, err, ErrNoPaths)
}

func TestPNG(t *testing.T) {
	f := newFixture(t)
	data, err := f.exp.PNG(context.Background(), 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 208, img.Bounds().Dx())
	assert.Equal(t, 88, img.Bounds().Dy())

	r, g, b, a := img.At(104, 24).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0, 0, 0xFFFF}, []uint32{r, g, b, a})
	_, _, _, a = img.At(1, 1).RGBA()
	assert.Zero(t, a, "png background is transparent")
}

func TestPNGRestoresPlayback(t *testing.T) {
	f := newFixture(t)
	f.tl.Play()
	f.clock.Advance(600)
	require.InDelta(t, 0.4, f.tl.Progress(), 1e-9)

	_, err := f.exp.PNG(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, f.tl.IsPlaying())
	assert.InDelta(t, 0.4, f.tl.Progress(), 1e-9)
	assert.Equal(t, 1, f.clock.Pending())

	_, err = f.exp.PNG(context.Background(), 1000)
	assert.ErrorIs(t, err, render.ErrSurface)
	assert.True(t, f.tl.IsPlaying())
	assert.InDelta(t, 0.4, f.tl.Progress(), 1e-9)

	f.clock.Advance(150)
	assert.InDelta(t, 0.5, f.tl.Progress(), 1e-9, "playback continues from where it was")
}

func TestGIF(t *testing.T) {
	f := newFixture(t)
	f.tl.Seek(0.3)

	data, err := f.exp.GIF(context.Background(), GIFOptions{FPS: 10, Duration: 200})
	require.NoError(t, err)

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, g.Image, 3)
	assert.Equal(t, 104, g.Config.Width)
	assert.Equal(t, 10, g.Delay[0])

	r, gr, b, _ := g.Image[0].At(52, 12).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0xFFFF, 0xFFFF}, []uint32{r, gr, b}, "first frame shows nothing drawn")
	r, gr, b, _ = g.Image[2].At(52, 12).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0, 0}, []uint32{r, gr, b}, "last frame is fully drawn")

	assert.Equal(t, timeline.Paused, f.tl.State())
	assert.InDelta(t, 0.3, f.tl.Progress(), 1e-9)
	assert.False(t, f.tl.Muted())
}

func TestGIFBackgroundOverride(t *testing.T) {
	f := newFixture(t)
	data, err := f.exp.GIF(context.Background(), GIFOptions{FPS: 5, Duration: 200, Background: "black"})
	require.NoError(t, err)

	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	r, gr, b, _ := g.Image[0].At(2, 2).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, gr, b})

	_, err = f.exp.GIF(context.Background(), GIFOptions{Background: "not-a-colour"})
	assert.Error(t, err)
	assert.False(t, f.tl.Muted(), "failed export leaves the timeline untouched")
}

func TestGIFMaxWidth(t *testing.T) {
	f := newFixture(t)
	data, err := f.exp.GIF(context.Background(), GIFOptions{FPS: 5, Duration: 200, MaxWidth: 52})
	require.NoError(t, err)

	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 52, cfg.Width)
	assert.Equal(t, 22, cfg.Height)
}

func TestGIFCancelledRestores(t *testing.T) {
	f := newFixture(t)
	f.tl.Play()
	f.clock.Advance(300)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.exp.GIF(ctx, GIFOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.tl.IsPlaying())
	assert.InDelta(t, 0.2, f.tl.Progress(), 1e-9)
}

func TestFrameCount(t *testing.T) {
	assert.Equal(t, 36, FrameCount(1500, 24))
	assert.Equal(t, 2, FrameCount(200, 10))
	assert.Equal(t, 1, FrameCount(0, 24))
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(t.TempDir(), "out")
	formats, err := ParseFormats("svg, png,gif")
	require.NoError(t, err)

	written, err := f.exp.Download(context.Background(), dir, formats...)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "signature.svg"),
		filepath.Join(dir, "signature.png"),
		filepath.Join(dir, "signature.gif"),
	}, written)

	for _, p := range written {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err = ParseFormats("svg,bmp")
	assert.Error(t, err)
}
