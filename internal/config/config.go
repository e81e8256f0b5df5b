package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/sig2gif/internal/easing"
)

// Jitter configures noise-driven positional wobble while a stroke draws.
type Jitter struct {
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Seed      int64   `yaml:"seed" json:"seed"`
}

// Viewport configures visibility-triggered playback.
type Viewport struct {
	Enabled   bool    `yaml:"enabled" json:"enabled"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Enter     string  `yaml:"enter" json:"enter"` // play | restart | none
	Leave     string  `yaml:"leave" json:"leave"` // pause | reset | none
	Once      bool    `yaml:"once" json:"once"`
	Delay     float64 `yaml:"delay" json:"delay"` // ms
}

// Export holds defaults for the export pipeline.
type Export struct {
	FPS         int     `yaml:"fps" json:"fps"`
	Quality     int     `yaml:"quality" json:"quality"`
	Scale       float64 `yaml:"scale" json:"scale"`
	Padding     float64 `yaml:"padding" json:"padding"`
	Background  string  `yaml:"background" json:"background"`
	Transparent bool    `yaml:"transparent" json:"transparent"`
	MaxWidth    int     `yaml:"max_width" json:"max_width"`
	OutDir      string  `yaml:"out_dir" json:"out_dir"`
}

// Config is the animation configuration shared by the CLI, the player and
// scene files. Durations are milliseconds.
type Config struct {
	Duration             float64  `yaml:"duration" json:"duration"`
	Speed                float64  `yaml:"speed" json:"speed"`
	Easing               string   `yaml:"easing" json:"easing"`
	Jitter               *Jitter  `yaml:"jitter,omitempty" json:"jitter,omitempty"`
	Pressure             bool     `yaml:"pressure" json:"pressure"`
	Roughen              bool     `yaml:"roughen" json:"roughen"`
	RoughenAmount        float64  `yaml:"roughen_amount" json:"roughen_amount"`
	Sequential           bool     `yaml:"sequential" json:"sequential"`
	Autoplay             bool     `yaml:"autoplay" json:"autoplay"`
	Loop                 bool     `yaml:"loop" json:"loop"`
	RespectReducedMotion bool     `yaml:"respect_reduced_motion" json:"respect_reduced_motion"`
	MinDuration          float64  `yaml:"min_duration" json:"min_duration"`
	StrokeColor          string   `yaml:"stroke_color" json:"stroke_color"`
	StrokeWidth          float64  `yaml:"stroke_width" json:"stroke_width"`
	Viewport             Viewport `yaml:"viewport" json:"viewport"`
	Export               Export   `yaml:"export" json:"export"`
}

// Speed multipliers outside [MinSpeed, MaxSpeed] are clamped by the timeline
// and rejected by Validate.
const (
	MinSpeed float64 = 0.1
	MaxSpeed float64 = 10
)

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Duration:             1500,
		Speed:                1,
		Easing:               "easeInOutQuad",
		RoughenAmount:        0.6,
		Sequential:           true,
		Autoplay:             true,
		RespectReducedMotion: true,
		MinDuration:          100,
		StrokeColor:          "#111111",
		StrokeWidth:          3,
		Viewport: Viewport{
			Threshold: 0.3,
			Enter:     "play",
			Leave:     "none",
		},
		Export: Export{
			FPS:        24,
			Quality:    10,
			Scale:      2,
			Padding:    10,
			Background: "#ffffff",
			OutDir:     ".",
		},
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %v", c.Duration))
	}
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		errs = append(errs, fmt.Errorf("speed must be within [%v, %v], got %v", MinSpeed, MaxSpeed, c.Speed))
	}
	if _, err := easing.Lookup(c.Easing); err != nil {
		errs = append(errs, err)
	}
	if c.MinDuration <= 0 {
		errs = append(errs, fmt.Errorf("min_duration must be positive, got %v", c.MinDuration))
	}
	if c.StrokeWidth <= 0 {
		errs = append(errs, fmt.Errorf("stroke_width must be positive, got %v", c.StrokeWidth))
	}
	if j := c.Jitter; j != nil && (j.Amplitude < 0 || j.Frequency < 0) {
		errs = append(errs, errors.New("jitter amplitude and frequency must not be negative"))
	}
	if t := c.Viewport.Threshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("viewport threshold must be within [0, 1], got %v", t))
	}
	switch c.Viewport.Enter {
	case "", "play", "restart", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown viewport enter action %q", c.Viewport.Enter))
	}
	switch c.Viewport.Leave {
	case "", "pause", "reset", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown viewport leave action %q", c.Viewport.Leave))
	}
	if c.Export.FPS <= 0 || c.Export.FPS > 100 {
		errs = append(errs, fmt.Errorf("export fps must be within [1, 100], got %d", c.Export.FPS))
	}
	if c.Export.Scale <= 0 {
		errs = append(errs, fmt.Errorf("export scale must be positive, got %v", c.Export.Scale))
	}
	if c.Export.MaxWidth < 0 {
		errs = append(errs, fmt.Errorf("export max_width must not be negative, got %d", c.Export.MaxWidth))
	}
	return errors.Join(errs...)
}

// Load reads a YAML (or JSON) file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ReducedMotionEnv names the environment variable that signals a
// reduced-motion preference.
const ReducedMotionEnv = "SIG2GIF_REDUCED_MOTION"

// PrefersReducedMotion probes the environment.
func PrefersReducedMotion() bool {
	switch os.Getenv(ReducedMotionEnv) {
	case "1", "true", "yes", "reduce":
		return true
	}
	return false
}
