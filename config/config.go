// Package config provides TOML-based configuration for the surface manager's
// tuning knobs and logging, with optional live reload.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full configuration.
type Config struct {
	Log          LogConfig          `toml:"log"`
	Invalidation InvalidationConfig `toml:"invalidation"`
	Diagnostics  DiagnosticsConfig  `toml:"diagnostics"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string `toml:"level"`
	// File is the log destination. Empty disables logging; a terminal
	// application cannot log to its own screen.
	File string `toml:"file"`
}

// InvalidationConfig tunes the invalidation tracker.
type InvalidationConfig struct {
	// MaxRects bounds the accumulated rectangle set before the merge pass
	// collapses it. Performance knob only; never affects correctness.
	MaxRects int `toml:"max_rects"`
}

// DiagnosticsConfig configures failure surfacing.
type DiagnosticsConfig struct {
	// Overlay shows contract violations as a blocking message pane instead
	// of panicking.
	Overlay bool `toml:"overlay"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Invalidation: InvalidationConfig{
			MaxRects: 16,
		},
		Diagnostics: DiagnosticsConfig{
			Overlay: true,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs.Add("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	if c.Invalidation.MaxRects < 1 {
		errs.Add("invalidation.max_rects", "must be at least 1")
	}

	if len(errs.Errors) > 0 {
		return errs
	}
	return nil
}

// Load reads configuration from a TOML file, applying defaults for absent
// keys. A missing file is not an error and yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadReader reads configuration from an io.Reader.
func LoadReader(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

// parse unmarshals TOML over the defaults and validates the result.
func parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &ParseError{Path: source, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
