// Package config provides editor settings: grid, routing and display
// options, persisted as YAML and optionally hot-reloaded.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"schematic-editor/pkg/geometry"
)

// Settings holds the recognized editor options.
type Settings struct {
	GridSize             int  `yaml:"grid_size" validate:"gte=1"`
	ShowGrid             bool `yaml:"show_grid"`
	GridPointSize        int  `yaml:"grid_point_size" validate:"gte=1"`
	Antialiasing         bool `yaml:"antialiasing"`
	RouteStraightAngles  bool `yaml:"route_straight_angles"`
	Debug                bool `yaml:"debug"`
	HighlightRectPadding int  `yaml:"highlight_rect_padding" validate:"gte=0"`
}

var validate = validator.New()

// DefaultSettings returns the defaults used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		GridSize:             10,
		ShowGrid:             true,
		GridPointSize:        1,
		Antialiasing:         true,
		RouteStraightAngles:  true,
		Debug:                false,
		HighlightRectPadding: 10,
	}
}

// Load reads settings from a YAML file, filling unset fields with defaults.
// A missing file yields the defaults without error.
func Load(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing settings: %w", err)
	}
	if err := validate.Struct(s); err != nil {
		return DefaultSettings(), fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save writes the settings to a YAML file.
func (s Settings) Save(path string) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SnapToGrid rounds p to the nearest multiple of the grid size.
func (s Settings) SnapToGrid(p geometry.Point2D) geometry.Point2D {
	if s.GridSize <= 0 {
		return p
	}
	g := float64(s.GridSize)
	return geometry.Point2D{
		X: math.Round(p.X/g) * g,
		Y: math.Round(p.Y/g) * g,
	}
}
