package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/frame"
	"github.com/ivlev/sig2gif/internal/source"
	"github.com/ivlev/sig2gif/internal/system"
	"github.com/ivlev/sig2gif/internal/timeline"
)

// animFlags override the scene's animation block. Only flags set on the
// command line are applied.
type animFlags struct {
	duration float64
	speed    float64
	easing   string
	loop     bool
	pressure bool
	roughen  bool
	color    string
	width    float64
	sceneDir string
}

func (f *animFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.duration, "duration", 0, "Total duration in ms")
	fs.Float64Var(&f.speed, "speed", 1, "Playback speed multiplier (0.1 - 10)")
	fs.StringVar(&f.easing, "easing", "", "Easing: linear, easeInOutQuad, easeInOutCubic, easeOutElastic")
	fs.BoolVar(&f.loop, "loop", false, "Loop playback")
	fs.BoolVar(&f.pressure, "pressure", false, "Simulate pen pressure")
	fs.BoolVar(&f.roughen, "roughen", false, "Add a hand-drawn wobble to point strokes")
	fs.StringVar(&f.color, "color", "", "Default stroke colour")
	fs.Float64Var(&f.width, "stroke-width", 0, "Default stroke width")
	fs.StringVar(&f.sceneDir, "scenes", ".", "Directory searched for the newest scene when none is given")
}

func (f *animFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("duration") {
		cfg.Duration = f.duration
	}
	if fs.Changed("speed") {
		cfg.Speed = f.speed
	}
	if fs.Changed("easing") {
		cfg.Easing = f.easing
	}
	if fs.Changed("loop") {
		cfg.Loop = f.loop
	}
	if fs.Changed("pressure") {
		cfg.Pressure = f.pressure
	}
	if fs.Changed("roughen") {
		cfg.Roughen = f.roughen
	}
	if fs.Changed("color") {
		cfg.StrokeColor = f.color
	}
	if fs.Changed("stroke-width") {
		cfg.StrokeWidth = f.width
	}
}

// loadScene resolves the scene path (argument or newest scene file),
// reads it over the config file and applies flag overrides.
func loadScene(cmd *cobra.Command, args []string, flags *animFlags) (*source.Scene, config.Config, error) {
	defaults := config.Default()
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, defaults, err
		}
		defaults = cfg
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		latest, err := system.FindLatestScene(flags.sceneDir)
		if err != nil {
			return nil, defaults, fmt.Errorf("%w. Create one with: sig2gif scene", err)
		}
		path = latest
		fmt.Printf("[*] Selected scene: %s\n", path)
	}

	scene, err := source.ReadScene(path, defaults)
	if err != nil {
		return nil, defaults, err
	}
	cfg := scene.Config(defaults)
	flags.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return scene, cfg, nil
}

// buildTimeline registers every stroke of scene on a timeline driven by
// sched. hooks may set callbacks before the timeline is created.
func buildTimeline(scene *source.Scene, cfg config.Config, sched frame.Scheduler, hooks ...func(*timeline.Options)) (*timeline.Timeline, error) {
	opts, err := timeline.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Scheduler = sched
	for _, h := range hooks {
		h(&opts)
	}
	tl := timeline.New(opts)
	if _, err := scene.Register(tl, cfg); err != nil {
		return nil, err
	}
	return tl, nil
}
