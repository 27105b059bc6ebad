// Package config loads editor settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"dotmatrix/internal/state"
)

// DefaultPort is where the LAN mirror listens unless configured otherwise.
const DefaultPort = 8888

// MaxDimension bounds width and height read from settings.
const MaxDimension = 256

// Config is the editor's startup configuration.
type Config struct {
	Width        int     `toml:"width"`
	Height       int     `toml:"height"`
	DotSize      float64 `toml:"dot_size"`
	ImageOpacity float64 `toml:"image_opacity"`
	ExportDir    string  `toml:"export_dir"`
	Share        Share   `toml:"share"`
}

// Share controls the read-only LAN mirror.
type Share struct {
	Enabled   bool `toml:"enabled"`
	Port      int  `toml:"port"`
	Advertise bool `toml:"advertise"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:        state.DefaultWidth,
		Height:       state.DefaultHeight,
		DotSize:      state.DefaultDotSize,
		ImageOpacity: state.DefaultImageOpacity,
		ExportDir:    ".",
		Share: Share{
			Port:      DefaultPort,
			Advertise: true,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges the core relies on.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Width > MaxDimension {
		errs = append(errs, fmt.Errorf("width %d out of range 1..%d", c.Width, MaxDimension))
	}
	if c.Height <= 0 || c.Height > MaxDimension {
		errs = append(errs, fmt.Errorf("height %d out of range 1..%d", c.Height, MaxDimension))
	}
	if c.DotSize <= 0 || c.DotSize > 1 {
		errs = append(errs, fmt.Errorf("dot_size %v out of range (0,1]", c.DotSize))
	}
	if c.ImageOpacity < 0 || c.ImageOpacity > 1 {
		errs = append(errs, fmt.Errorf("image_opacity %v out of range [0,1]", c.ImageOpacity))
	}
	if c.Share.Port < 0 || c.Share.Port > 65535 {
		errs = append(errs, fmt.Errorf("share.port %d out of range", c.Share.Port))
	}
	return errors.Join(errs...)
}
