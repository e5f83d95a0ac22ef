// Package config loads the settings of a date shifting run.
//
// The settings are layered: the defaults are overridden by the config file, the config file
// by the environment (including a .env file) and the environment by the command line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/xitonix/xshift/logging"
	"github.com/xitonix/xshift/shift"
	"github.com/xitonix/xshift/textenc"
	"gopkg.in/yaml.v3"
)

// Config the settings of a run
type Config struct {
	MaxShiftDays int `yaml:"max_shift_days"`
	// Seed makes the run reproducible. If nil, a random seed is used.
	Seed       *Seed   `yaml:"seed"`
	DateFormat string  `yaml:"date_format"`
	// Encoding the encoding of the inputs. Detected per input if empty.
	Encoding  string  `yaml:"encoding"`
	Policy    string  `yaml:"policy"`
	Scope     string  `yaml:"scope"`
	Workers   int     `yaml:"workers"`
	Overwrite bool    `yaml:"overwrite"`
	Logging   Logging `yaml:"logging"`
}

// Logging the logger settings
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the default configuration
func Defaults() Config {
	return Config{
		MaxShiftDays: shift.DefaultMaxShiftDays,
		DateFormat:   shift.DefaultFormat,
		Policy:       shift.PerValue.String(),
		Scope:        shift.FileScope.String(),
		Workers:      runtime.NumCPU(),
		Logging: Logging{
			Level:  "info",
			Format: string(logging.Console),
		},
	}
}

// Load reads the YAML config file. Unknown fields are rejected.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

// Parse decodes a YAML configuration. An empty document is a valid, empty configuration.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownField, err)
		}
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Merge overrides the values of base with the values which are set in over.
// Zero values never override.
func Merge(base, over Config) Config {
	out := base
	if over.MaxShiftDays != 0 {
		out.MaxShiftDays = over.MaxShiftDays
	}
	if over.Seed != nil {
		seed := *over.Seed
		out.Seed = &seed
	}
	if s := strings.TrimSpace(over.DateFormat); s != "" {
		out.DateFormat = over.DateFormat
	}
	if s := strings.TrimSpace(over.Encoding); s != "" {
		out.Encoding = s
	}
	if s := strings.TrimSpace(over.Policy); s != "" {
		out.Policy = s
	}
	if s := strings.TrimSpace(over.Scope); s != "" {
		out.Scope = s
	}
	if over.Workers != 0 {
		out.Workers = over.Workers
	}
	if over.Overwrite {
		out.Overwrite = true
	}
	if s := strings.TrimSpace(over.Logging.Level); s != "" {
		out.Logging.Level = s
	}
	if s := strings.TrimSpace(over.Logging.Format); s != "" {
		out.Logging.Format = s
	}
	return out
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.MaxShiftDays <= 0 {
		return fmt.Errorf("%w: max_shift_days: %w", ErrInvalidConfig, ErrInvalidMaxShift)
	}
	if _, err := shift.ParseFormat(c.DateFormat); err != nil {
		return fmt.Errorf("%w: date_format: %w", ErrInvalidConfig, err)
	}
	if _, err := shift.ParsePolicy(c.Policy); err != nil {
		return fmt.Errorf("%w: policy: %w", ErrInvalidConfig, err)
	}
	if _, err := shift.ParseScope(c.Scope); err != nil {
		return fmt.Errorf("%w: scope: %w", ErrInvalidConfig, err)
	}
	if c.Encoding != "" {
		if _, err := textenc.Lookup(c.Encoding); err != nil {
			return fmt.Errorf("%w: encoding: %w", ErrInvalidConfig, err)
		}
	}
	if c.Workers < 1 || c.Workers > 1<<16-1 {
		return fmt.Errorf("%w: workers must be between 1 and %d", ErrInvalidConfig, 1<<16-1)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	switch logging.Format(c.Logging.Format) {
	case logging.Console, logging.JSON:
	default:
		return fmt.Errorf("%w: logging.format must be %s or %s", ErrInvalidConfig, logging.Console, logging.JSON)
	}
	return nil
}

// Options converts the configuration into the shifting options of an engine
func (c Config) Options() (shift.Options, error) {
	if err := c.Validate(); err != nil {
		return shift.Options{}, err
	}
	policy, _ := shift.ParsePolicy(c.Policy)
	scope, _ := shift.ParseScope(c.Scope)
	opts := shift.Options{
		MaxShiftDays: c.MaxShiftDays,
		Format:       c.DateFormat,
		Encoding:     c.Encoding,
		Policy:       policy,
		Scope:        scope,
	}
	if c.Seed != nil {
		seed := uint64(*c.Seed)
		opts.Seed = &seed
	}
	return opts, nil
}
