package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/source"
)

func plainConfig(scene *source.Scene, loop bool) config.Config {
	cfg := scene.Config(config.Default())
	cfg.Duration = 100
	cfg.Loop = loop
	cfg.RespectReducedMotion = false
	cfg.Viewport.Enabled = false
	return cfg
}

func TestPlayPlainStopsAtCompletion(t *testing.T) {
	scene := source.SampleScene(200, 80)
	cfg := plainConfig(scene, false)
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	require.NoError(t, playPlain(ctx, scene, cfg, 200))
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.NoError(t, ctx.Err(), "returned on completion, not on the deadline")
}

func TestPlayPlainLoopRunsUntilCancelled(t *testing.T) {
	scene := source.SampleScene(200, 80)
	cfg := plainConfig(scene, true)
	require.NoError(t, cfg.Validate())

	// several 100 ms cycles fit before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	require.NoError(t, playPlain(ctx, scene, cfg, 200))
	assert.GreaterOrEqual(t, time.Since(start), 450*time.Millisecond)
	assert.Error(t, ctx.Err())
}
