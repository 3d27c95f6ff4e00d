// Package config loads the graphview command configuration.
//
// Configuration is read from a YAML file; missing fields keep their
// defaults, and the result is validated before use.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/graphview"
)

// validate is a singleton validator instance.
var validate = validator.New()

// Config is the command configuration.
type Config struct {
	Surface SurfaceConfig `yaml:"surface"`
	Backend string        `yaml:"backend" validate:"required,oneof=raster pipeline"`
	Padding float64       `yaml:"padding" validate:"gte=0"`
	Zoom    ZoomConfig    `yaml:"zoom"`
	Radius  RadiusConfig  `yaml:"radius"`
	Log     LogConfig     `yaml:"log"`
}

// SurfaceConfig is the render surface size in pixels.
type SurfaceConfig struct {
	Width  int `yaml:"width" validate:"min=16,max=16384"`
	Height int `yaml:"height" validate:"min=16,max=16384"`
}

// ZoomConfig controls wheel zooming. Max of zero means unbounded.
type ZoomConfig struct {
	Factor float64 `yaml:"factor" validate:"gt=1"`
	Min    float64 `yaml:"min" validate:"gt=0"`
	Max    float64 `yaml:"max" validate:"gte=0"`
}

// RadiusConfig is the node radius policy in screen pixels.
type RadiusConfig struct {
	Base float64 `yaml:"base" validate:"gt=0"`
	Min  float64 `yaml:"min" validate:"gt=0"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Surface: SurfaceConfig{Width: 800, Height: 600},
		Backend: "raster",
		Padding: graphview.DefaultPadding,
		Zoom: ZoomConfig{
			Factor: graphview.DefaultZoomFactor,
			Min:    graphview.DefaultScaleMin,
		},
		Radius: RadiusConfig{
			Base: graphview.DefaultNodeRadius,
			Min:  graphview.DefaultMinNodeRadius,
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	if c.Zoom.Max != 0 && c.Zoom.Max < c.Zoom.Min {
		return fmt.Errorf("config: zoom.max %v below zoom.min %v", c.Zoom.Max, c.Zoom.Min)
	}
	return nil
}

// ViewerOptions converts the config into viewer options.
func (c *Config) ViewerOptions() []graphview.Option {
	return []graphview.Option{
		graphview.WithPadding(c.Padding),
		graphview.WithZoom(c.Zoom.Factor, c.Zoom.Min, c.Zoom.Max),
		graphview.WithRadius(graphview.RadiusPolicy{Base: c.Radius.Base, Min: c.Radius.Min}),
	}
}

// SlogLevel returns the configured slog level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Handler builds a slog handler writing to w.
func (l LogConfig) Handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
