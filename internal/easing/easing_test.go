package easing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	for _, name := range Names() {
		fn, err := Lookup(name)
		require.NoError(t, err)
		require.NotNil(t, fn, name)

		assert.InDelta(t, 0, fn(0), 1e-9, "%s(0)", name)
		assert.InDelta(t, 1, fn(1), 1e-9, "%s(1)", name)
	}
}

func TestEaseInOutQuadMidpoint(t *testing.T) {
	assert.InDelta(t, 0.5, EaseInOutQuad(0.5), 1e-9)
	assert.InDelta(t, 0.125, EaseInOutQuad(0.25), 1e-9)
	assert.InDelta(t, 0.875, EaseInOutQuad(0.75), 1e-9)
}

func TestEaseInOutCubicSymmetric(t *testing.T) {
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-9)
	assert.InDelta(t, 0.0625, EaseInOutCubic(0.25), 1e-9)
	for i := 0; i <= 10; i++ {
		x := float64(i) / 10
		assert.InDelta(t, 1, EaseInOutCubic(x)+EaseInOutCubic(1-x), 1e-9, "t=%v", x)
	}
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 10.0, Lerp(10, 20, 0))
	assert.Equal(t, 15.0, Lerp(10, 20, 0.5))
	assert.Equal(t, 25.0, Lerp(10, 20, 1.5))
	assert.Equal(t, 1.0, pow(7, 0))
	assert.Equal(t, -8.0, pow(-2, 3))
}

func TestEaseOutElasticOvershoots(t *testing.T) {
	maxV := 0.0
	for i := 0; i <= 100; i++ {
		maxV = math.Max(maxV, EaseOutElastic(float64(i)/100))
	}
	if maxV <= 1 {
		t.Errorf("expected overshoot above 1, max was %f", maxV)
	}
}

func TestLookupInherit(t *testing.T) {
	for _, name := range []string{"", Inherit} {
		fn, err := Lookup(name)
		assert.NoError(t, err)
		assert.Nil(t, fn)
	}

	_, err := Lookup("bounce")
	assert.Error(t, err)
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-3, 0},
		{0, 0},
		{0.4, 0.4},
		{1, 1},
		{7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp01(tt.in), "Clamp01(%v)", tt.in)
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a := Noise(42)
	b := Noise(42)
	c := Noise(7)

	differs := false
	for i := 0; i < 200; i++ {
		x := float64(i) * 0.37
		va, vb := a(x), b(x)
		assert.Equal(t, va, vb, "same seed must give the same value at %f", x)
		assert.GreaterOrEqual(t, va, -1.0)
		assert.LessOrEqual(t, va, 1.0)
		if va != c(x) {
			differs = true
		}
	}
	assert.True(t, differs, "different seeds should produce different sequences")
}

func TestNoiseContinuous(t *testing.T) {
	n := Noise(3)
	for i := 0; i < 1000; i++ {
		x := float64(i) * 0.01
		if d := math.Abs(n(x+0.001) - n(x)); d > 0.01 {
			t.Fatalf("noise jumped by %f at %f", d, x)
		}
	}
	assert.Equal(t, 0.0, n(math.NaN()))
}
