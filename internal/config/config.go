// Package config loads timeloom's YAML run configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	yaml "go.yaml.in/yaml/v3"

	"github.com/joshharrison/timeloom/internal/logx"
	"github.com/joshharrison/timeloom/internal/schedule"
	"github.com/joshharrison/timeloom/internal/timing"
)

// Config holds the defaults for a scheduling run. Command-line flags
// override individual fields.
type Config struct {
	Method    string           `yaml:"method"`
	Latency   timing.IOLatency `yaml:"io_latency"`
	Padding   Padding          `yaml:"padding"`
	Log       Log              `yaml:"log"`
	Durations string           `yaml:"durations"` // duration table (.hcl or properties .json)
	Target    string           `yaml:"target"`    // target description (.hcl)
}

// Padding controls the padding stage.
type Padding struct {
	Disabled        bool `yaml:"disabled"`
	FillTrailingGap bool `yaml:"fill_trailing_gap"`
	Merge           bool `yaml:"merge"`
}

// Log controls logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Method:  "asap",
		Latency: timing.DefaultIOLatency(),
		Padding: Padding{FillTrailingGap: true, Merge: true},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. Unknown keys are rejected, and
// relative input paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Durations = resolve(dir, cfg.Durations)
	cfg.Target = resolve(dir, cfg.Target)
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no run could use.
func (c *Config) Validate() error {
	if _, err := schedule.Method(c.Method); err != nil {
		return err
	}
	if err := c.Latency.Validate(); err != nil {
		return err
	}
	if _, err := logx.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
