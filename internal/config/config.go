// Package config loads LocalBoard settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"LocalBoard/internal/style"
)

// Canvas holds the size and background of the desktop board.
type Canvas struct {
	Width      int         `yaml:"width"`
	Height     int         `yaml:"height"`
	Background style.Color `yaml:"background"`
}

// Style holds the initial drawing style.
type Style struct {
	Fill        style.Color `yaml:"fill"`
	Stroke      style.Color `yaml:"stroke"`
	StrokeWidth float64     `yaml:"stroke_width"`
	Dash        []float64   `yaml:"dash,omitempty"`
}

// Select holds select tool settings.
type Select struct {
	DragThreshold float64 `yaml:"drag_threshold"`
	Nudge         float64 `yaml:"nudge"` // arrow key step
}

// Server holds the websocket host settings.
type Server struct {
	Addr      string `yaml:"addr"`
	Advertise bool   `yaml:"advertise"`
	Instance  string `yaml:"instance,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Owner    string `yaml:"owner,omitempty"`
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	SaveDir  string `yaml:"save_dir,omitempty"`
	Canvas   Canvas `yaml:"canvas"`
	Style    Style  `yaml:"style"`
	Select   Select `yaml:"select"`
	Server   Server `yaml:"server"`
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Canvas: Canvas{
			Width:      1024,
			Height:     768,
			Background: style.White,
		},
		Style: Style{
			Fill:        style.Transparent,
			Stroke:      style.Black,
			StrokeWidth: 2,
		},
		Select: Select{DragThreshold: 3, Nudge: 1},
		Server: Server{Addr: ":8080"},
	}
}

// Parse reads YAML from r on top of the defaults. Unknown keys are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("config: canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	case c.Style.StrokeWidth < 0:
		return fmt.Errorf("config: negative stroke width %v", c.Style.StrokeWidth)
	case c.Select.DragThreshold < 0:
		return fmt.Errorf("config: negative drag threshold %v", c.Select.DragThreshold)
	case c.Select.Nudge <= 0:
		return fmt.Errorf("config: nudge %v must be positive", c.Select.Nudge)
	}
	return nil
}

// ShapeStyle returns the configured drawing style.
func (c *Config) ShapeStyle() style.Shape {
	return style.Shape{
		FillColor: c.Style.Fill,
		Stroke: style.Stroke{
			Color:     c.Style.Stroke,
			Width:     c.Style.StrokeWidth,
			DashArray: append([]float64(nil), c.Style.Dash...),
		},
	}
}

// String implements fmt.Stringer and returns the configuration as YAML.
func (c *Config) String() string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Sprintf("# error: %v\n", err)
	}
	_ = enc.Close()
	return buf.String()
}
