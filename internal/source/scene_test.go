package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/pathdata"
	"github.com/ivlev/sig2gif/internal/timeline"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestReadSceneYAML(t *testing.T) {
	p := writeFile(t, "sig.yaml", `
version: "1"
strokes:
  - d: "M0 0 L100 0"
    color: red
  - points:
      - {x: 0, y: 10}
      - {x: 50, y: 10}
animation:
  duration: 2000
  loop: true
`)
	scene, err := ReadScene(p, config.Default())
	require.NoError(t, err)
	require.Len(t, scene.Strokes, 2)
	assert.Equal(t, "red", scene.Strokes[0].Color)
	assert.Equal(t, []pathdata.Point{{X: 0, Y: 10}, {X: 50, Y: 10}}, scene.Strokes[1].Points)

	cfg := scene.Config(config.Default())
	assert.Equal(t, 2000.0, cfg.Duration)
	assert.True(t, cfg.Loop)
	assert.Equal(t, 1.0, cfg.Speed, "unset fields keep defaults")
	assert.Equal(t, "easeInOutQuad", cfg.Easing)
}

func TestReadSceneJSON(t *testing.T) {
	p := writeFile(t, "sig.json", `{"version":"1","strokes":[{"d":"M0 0 L10 10","width":4}]}`)
	scene, err := ReadScene(p, config.Default())
	require.NoError(t, err)
	require.Len(t, scene.Strokes, 1)
	assert.Equal(t, 4.0, scene.Strokes[0].Width)
	assert.Equal(t, 1500.0, scene.Config(config.Default()).Duration)
}

func TestReadSceneErrors(t *testing.T) {
	_, err := ReadScene(filepath.Join(t.TempDir(), "missing.yaml"), config.Default())
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := writeFile(t, "empty.yaml", "version: \"1\"\nstrokes: []\n")
	_, err = ReadScene(empty, config.Default())
	assert.ErrorIs(t, err, ErrNoStrokes)

	bad := writeFile(t, "bad.yaml", "strokes:\n  - d: \"M0 0 L1 1\"\nanimation:\n  speed: 50\n")
	_, err = ReadScene(bad, config.Default())
	assert.ErrorContains(t, err, "speed")

	garbage := writeFile(t, "garbage.yaml", "strokes: [\n")
	_, err = ReadScene(garbage, config.Default())
	assert.Error(t, err)
}

func TestSpecsSequential(t *testing.T) {
	scene := &Scene{Strokes: []Stroke{
		{D: "M0 0 L100 0"},
		{Points: nil},
		{D: "M0 0 L300 0"},
	}}
	cfg := config.Default()
	cfg.Duration = 2000

	specs, err := scene.Specs(cfg)
	require.NoError(t, err)
	require.Len(t, specs, 2, "empty strokes are skipped")
	assert.InDelta(t, 500, specs[0].Duration, 1e-6)
	assert.InDelta(t, 0, specs[0].Delay, 1e-6)
	assert.InDelta(t, 1500, specs[1].Duration, 1e-6)
	assert.InDelta(t, 500, specs[1].Delay, 1e-6)
}

func TestSpecsKeepExplicitTiming(t *testing.T) {
	scene := &Scene{Strokes: []Stroke{
		{D: "M0 0 L100 0", Duration: 700},
		{D: "M0 0 L300 0", Delay: 200, Easing: "linear"},
	}}
	specs, err := scene.Specs(config.Default())
	require.NoError(t, err)
	assert.Equal(t, 700.0, specs[0].Duration)
	assert.Equal(t, 0.0, specs[1].Duration)
	assert.Equal(t, 200.0, specs[1].Delay)
	assert.NotNil(t, specs[1].Easing)
	assert.Nil(t, specs[0].Easing)
}

func TestSpecsUnknownEasing(t *testing.T) {
	scene := &Scene{Strokes: []Stroke{{D: "M0 0 L1 1", Easing: "bouncy"}}}
	_, err := scene.Specs(config.Default())
	assert.Error(t, err)
}

func TestSpecsRoughen(t *testing.T) {
	pts := []pathdata.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}
	scene := &Scene{Strokes: []Stroke{{Points: pts}}}

	cfg := config.Default()
	plain, err := scene.Specs(cfg)
	require.NoError(t, err)
	assert.Equal(t, pathdata.FromStroke(pts), plain[0].D)

	cfg.Roughen = true
	cfg.RoughenAmount = 2
	a, err := scene.Specs(cfg)
	require.NoError(t, err)
	b, err := scene.Specs(cfg)
	require.NoError(t, err)
	assert.Equal(t, a[0].D, b[0].D)
	assert.Equal(t, pathdata.FromStroke(pathdata.Roughen(pts, 2, 1)), a[0].D)
}

func TestSpecsNoStrokes(t *testing.T) {
	_, err := (&Scene{}).Specs(config.Default())
	assert.ErrorIs(t, err, ErrNoStrokes)
}

func TestWriteSceneRoundTrip(t *testing.T) {
	for _, name := range []string{"sample.yaml", "sample.json"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			orig := SampleScene(0, 0)
			require.NoError(t, WriteScene(orig, p))

			got, err := ReadScene(p, config.Default())
			require.NoError(t, err)
			assert.Equal(t, Version, got.Version)
			assert.Equal(t, 320.0, got.Width)
			require.Len(t, got.Strokes, len(orig.Strokes))
			assert.Len(t, got.Strokes[0].Points, len(orig.Strokes[0].Points))
		})
	}
}

func TestRegister(t *testing.T) {
	scene := SampleScene(300, 100)
	cfg := scene.Config(config.Default())
	tl := timeline.New(timeline.Options{Duration: cfg.Duration})

	ids, err := scene.Register(tl, cfg)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
	assert.Equal(t, 3, tl.Len())
	assert.InDelta(t, cfg.Duration, tl.Duration(), 1e-6)
}
