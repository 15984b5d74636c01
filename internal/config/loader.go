package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable read by [ApplyEnv].
const EnvPrefix = "SOTF_"

// Load reads the YAML configuration file at path, applies environment
// overrides and returns a validated [Config]. An empty path or a missing
// file yields [Default] plus the environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("config: open %q: %w", path, err)
		default:
			defer f.Close()
			if err := decode(f, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %q: %w", path, err)
			}
		}
	}

	fromFile := *cfg
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	for _, c := range Diff(&fromFile, cfg) {
		slog.Debug("config overridden by environment", "field", c.Field, "value", c.New)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default] and
// validates the result. Environment variables are not consulted.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields of cfg from SOTF_* environment variables.
// Unset variables leave the current value in place.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.SavesRoot == "" {
		errs = append(errs, errors.New("saves_root is required (the platform default could not be determined)"))
	}
	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if cfg.ReadMode != "" && !cfg.ReadMode.IsValid() {
		errs = append(errs, fmt.Errorf("read_mode %q is invalid; valid values: core, extended", cfg.ReadMode))
	}
	p := cfg.RescuePosition
	for i, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("rescue_position.%s must be a finite number", "xyz"[i:i+1]))
		}
	}

	return errors.Join(errs...)
}
