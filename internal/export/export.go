// Package export turns the authoritative state of a timeline into files:
// SVG markup, a PNG snapshot and an animated GIF.
//
// Timeline access happens through a frame.Executor so captures run on the
// goroutine that owns the timeline; rasterization and encoding run on the
// caller's goroutine. Any export that suspends playback restores it before
// returning, whether it succeeded or not.
package export

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/frame"
	"github.com/ivlev/sig2gif/internal/pathdata"
	"github.com/ivlev/sig2gif/internal/render"
	"github.com/ivlev/sig2gif/internal/timeline"
)

var (
	ErrNoPaths      = errors.New("export: no drawable paths")
	ErrEmptyViewBox = errors.New("export: empty view box")
)

// Options holds exporter defaults.
type Options struct {
	Padding     float64
	Scale       float64
	FPS         int
	Quality     int
	Background  string
	Transparent bool
	MaxWidth    int
	Title       string
}

// OptionsFromConfig converts the export block of the shared configuration.
func OptionsFromConfig(c config.Export) Options {
	return Options{
		Padding:     c.Padding,
		Scale:       c.Scale,
		FPS:         c.FPS,
		Quality:     c.Quality,
		Background:  c.Background,
		Transparent: c.Transparent,
		MaxWidth:    c.MaxWidth,
	}
}

// Exporter captures one timeline.
type Exporter struct {
	tl   *timeline.Timeline
	exec frame.Executor
	opts Options
}

// New creates an exporter. exec must run functions on the goroutine that
// owns tl.
func New(tl *timeline.Timeline, exec frame.Executor, opts Options) *Exporter {
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	if opts.FPS <= 0 {
		opts.FPS = 24
	}
	if opts.Quality <= 0 {
		opts.Quality = 10
	}
	if opts.Title == "" {
		opts.Title = "signature"
	}
	return &Exporter{tl: tl, exec: exec, opts: opts}
}

func (e *Exporter) viewBox(scene []render.Entry) (pathdata.Rect, error) {
	return ViewBox(scene, e.opts.Padding)
}

// ViewBox frames every path with half the widest stroke plus padding.
func ViewBox(scene []render.Entry, padding float64) (pathdata.Rect, error) {
	ds := make([]string, 0, len(scene))
	maxWidth := 0.0
	for _, it := range scene {
		ds = append(ds, it.D)
		maxWidth = max(maxWidth, it.Style.Width)
	}
	bounds, ok := pathdata.Bounds(ds)
	if !ok {
		return pathdata.Rect{}, ErrNoPaths
	}
	vb := pathdata.ViewBox(bounds, maxWidth, padding)
	if vb.Empty() {
		return pathdata.Rect{}, ErrEmptyViewBox
	}
	return vb, nil
}

// background resolves the fill colour; nil means transparent.
func (e *Exporter) background(transparent bool, fallback string) (color.Color, error) {
	if transparent {
		return nil, nil
	}
	s := e.opts.Background
	if s == "" {
		s = fallback
	}
	if s == "" {
		return nil, nil
	}
	c, err := render.ParseColor(s)
	if err != nil {
		return nil, fmt.Errorf("export: background: %w", err)
	}
	return c, nil
}
