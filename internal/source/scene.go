// Package source reads and writes scene files: captured signature strokes
// plus the animation settings they should be played with.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/easing"
	"github.com/ivlev/sig2gif/internal/pathdata"
	"github.com/ivlev/sig2gif/internal/timeline"
)

const Version = "1"

var ErrNoStrokes = errors.New("source: scene has no strokes")

// Scene is a complete signature with its animation settings.
type Scene struct {
	Version   string         `yaml:"version" json:"version"`
	Width     float64        `yaml:"width,omitempty" json:"width,omitempty"`
	Height    float64        `yaml:"height,omitempty" json:"height,omitempty"`
	Strokes   []Stroke       `yaml:"strokes" json:"strokes"`
	Animation *config.Config `yaml:"animation,omitempty" json:"animation,omitempty"`
}

// Stroke is one pen-down to pen-up segment. Either Points or D is set;
// D wins when both are present.
type Stroke struct {
	ID       string           `yaml:"id,omitempty" json:"id,omitempty"`
	Points   []pathdata.Point `yaml:"points,omitempty" json:"points,omitempty"`
	D        string           `yaml:"d,omitempty" json:"d,omitempty"`
	Color    string           `yaml:"color,omitempty" json:"color,omitempty"`
	Width    float64          `yaml:"width,omitempty" json:"width,omitempty"`
	Duration float64          `yaml:"duration,omitempty" json:"duration,omitempty"` // ms
	Delay    float64          `yaml:"delay,omitempty" json:"delay,omitempty"`       // ms
	Easing   string           `yaml:"easing,omitempty" json:"easing,omitempty"`
}

func (s Stroke) timed() bool { return s.Duration > 0 || s.Delay > 0 }

// ReadScene reads a YAML or JSON scene. The animation block is applied over
// defaults and validated.
func ReadScene(path string, defaults config.Config) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaults
	scene := Scene{Animation: &cfg}
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if scene.Animation == nil {
		scene.Animation = &cfg
	}
	if err := scene.Animation.Validate(); err != nil {
		return nil, fmt.Errorf("invalid animation in %s: %w", path, err)
	}
	if len(scene.Strokes) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoStrokes)
	}
	return &scene, nil
}

// WriteScene writes a scene as JSON when path ends in .json and as YAML
// otherwise.
func WriteScene(scene *Scene, path string) error {
	if scene.Version == "" {
		scene.Version = Version
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(scene, "", "  ")
	} else {
		data, err = yaml.Marshal(scene)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Config returns the scene's animation settings, or defaults when the
// scene has none.
func (s *Scene) Config(defaults config.Config) config.Config {
	if s.Animation == nil {
		return defaults
	}
	return *s.Animation
}

// Specs turns the strokes into path specs. With cfg.Roughen every point
// stroke gets a seeded wobble. With cfg.Sequential, and no stroke carrying
// its own timing, cfg.Duration is spread over the strokes by length.
func (s *Scene) Specs(cfg config.Config) ([]timeline.PathSpec, error) {
	specs := make([]timeline.PathSpec, 0, len(s.Strokes))
	timed := false
	for i, st := range s.Strokes {
		d := st.D
		if d == "" {
			pts := st.Points
			if cfg.Roughen && cfg.RoughenAmount > 0 {
				pts = pathdata.Roughen(pts, cfg.RoughenAmount, int64(i+1))
			}
			d = pathdata.FromStroke(pts)
		}
		if d == "" {
			continue
		}

		var ease easing.Func
		if st.Easing != "" {
			f, err := easing.Lookup(st.Easing)
			if err != nil {
				return nil, fmt.Errorf("stroke %d: %w", i, err)
			}
			ease = f
		}

		timed = timed || st.timed()
		specs = append(specs, timeline.PathSpec{
			ID:          st.ID,
			D:           d,
			Duration:    st.Duration,
			Delay:       st.Delay,
			Color:       st.Color,
			StrokeWidth: st.Width,
			Easing:      ease,
		})
	}
	if len(specs) == 0 {
		return nil, ErrNoStrokes
	}

	if cfg.Sequential && !timed {
		specs = timeline.Sequence(specs, cfg.Duration)
	}
	return specs, nil
}

// Register adds every stroke of the scene to tl in order and returns the
// assigned ids.
func (s *Scene) Register(tl *timeline.Timeline, cfg config.Config) ([]string, error) {
	specs, err := s.Specs(cfg)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(specs))
	for _, spec := range specs {
		id, err := tl.Register(spec)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
