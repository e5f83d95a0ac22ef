package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xitonix/xshift/shift"
)

func seed(v uint64) *Seed {
	s := Seed(v)
	return &s
}

func shiftSeed(v uint64) *uint64 {
	return &v
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 365, cfg.MaxShiftDays)
	require.Equal(t, "%Y-%m-%d", cfg.DateFormat)
	require.Nil(t, cfg.Seed)
	require.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xshift.yaml")
	content := `
max_shift_days: 30
seed: 42
date_format: "%d/%m/%Y"
encoding: latin1
policy: run-wide
scope: run
workers: 3
overwrite: true
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		MaxShiftDays: 30,
		Seed:         seed(42),
		DateFormat:   "%d/%m/%Y",
		Encoding:     "latin1",
		Policy:       "run-wide",
		Scope:        "run",
		Workers:      3,
		Overwrite:    true,
		Logging:      Logging{Level: "debug", Format: "json"},
	}, cfg)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		title         string
		content       string
		expectedError error
	}{
		{
			title:         "unknown_field",
			content:       "max_shift: 10",
			expectedError: ErrUnknownField,
		},
		{
			title:         "seed_out_of_range",
			content:       "seed: 18446744073709551616",
			expectedError: ErrInvalidConfig,
		},
		{
			title:         "seed_not_a_number",
			content:       "seed: abc",
			expectedError: ErrInvalidConfig,
		},
		{
			title:         "malformed",
			content:       "max_shift_days: [",
			expectedError: ErrInvalidConfig,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			require.ErrorIs(t, err, tc.expectedError)
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge(t *testing.T) {
	file := Config{MaxShiftDays: 10, Seed: seed(1), Policy: "run-wide", Logging: Logging{Level: "warn"}}
	env := Config{Seed: seed(2), Workers: 2}
	flags := Config{MaxShiftDays: 5, DateFormat: "%Y%m%d"}

	cfg := Merge(Merge(Merge(Defaults(), file), env), flags)
	require.Equal(t, 5, cfg.MaxShiftDays)
	require.Equal(t, Seed(2), *cfg.Seed)
	require.Equal(t, "%Y%m%d", cfg.DateFormat)
	require.Equal(t, "run-wide", cfg.Policy)
	require.Equal(t, "file", cfg.Scope)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
	require.NoError(t, cfg.Validate())
}

func TestMergeCopiesTheSeed(t *testing.T) {
	over := Config{Seed: seed(7)}
	cfg := Merge(Config{}, over)
	*over.Seed = 8
	require.Equal(t, Seed(7), *cfg.Seed)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		title         string
		change        func(c *Config)
		expectedError error
	}{
		{
			title:         "zero_max_shift",
			change:        func(c *Config) { c.MaxShiftDays = 0 },
			expectedError: ErrInvalidMaxShift,
		},
		{
			title:         "negative_max_shift",
			change:        func(c *Config) { c.MaxShiftDays = -3 },
			expectedError: ErrInvalidMaxShift,
		},
		{
			title:         "unsupported_directive",
			change:        func(c *Config) { c.DateFormat = "%Y-%Q" },
			expectedError: shift.ErrUnsupportedDirective,
		},
		{
			title:         "format_without_directive",
			change:        func(c *Config) { c.DateFormat = "date" },
			expectedError: shift.ErrEmptyFormat,
		},
		{
			title:         "unknown_policy",
			change:        func(c *Config) { c.Policy = "sometimes" },
			expectedError: ErrInvalidConfig,
		},
		{
			title:         "unknown_scope",
			change:        func(c *Config) { c.Scope = "galaxy" },
			expectedError: ErrInvalidConfig,
		},
		{
			title:         "unknown_encoding",
			change:        func(c *Config) { c.Encoding = "klingon" },
			expectedError: ErrInvalidConfig,
		},
		{
			title:         "no_workers",
			change:        func(c *Config) { c.Workers = 0 },
			expectedError: ErrInvalidConfig,
		},
		{
			title:         "unknown_log_level",
			change:        func(c *Config) { c.Logging.Level = "chatty" },
			expectedError: ErrInvalidConfig,
		},
		{
			title:         "unknown_log_format",
			change:        func(c *Config) { c.Logging.Format = "xml" },
			expectedError: ErrInvalidConfig,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			cfg := Defaults()
			tc.change(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, tc.expectedError)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Seed = seed(9)
	cfg.Policy = "run-wide"
	cfg.Scope = "run"
	cfg.Encoding = "utf-16le"

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, shift.Options{
		MaxShiftDays: 365,
		Seed:         shiftSeed(9),
		Format:       "%Y-%m-%d",
		Encoding:     "utf-16le",
		Policy:       shift.RunWide,
		Scope:        shift.RunScope,
	}, opts)

	cfg.MaxShiftDays = 0
	_, err = cfg.Options()
	require.ErrorIs(t, err, ErrInvalidMaxShift)
}

func TestParseSeed(t *testing.T) {
	testCases := []struct {
		title       string
		input       string
		expected    Seed
		expectError bool
	}{
		{title: "zero", input: "0", expected: 0},
		{title: "positive", input: "42", expected: 42},
		{title: "explicit_sign", input: "+42", expected: 42},
		{title: "surrounding_spaces", input: " 7 ", expected: 7},
		{title: "minus_one_is_max_uint64", input: "-1", expected: Seed(^uint64(0))},
		{title: "min_int64", input: "-9223372036854775808", expected: Seed(1 << 63)},
		{title: "max_uint64", input: "18446744073709551615", expected: Seed(^uint64(0))},
		{title: "beyond_max_uint64", input: "18446744073709551616", expectError: true},
		{title: "beyond_min_int64", input: "-9223372036854775809", expectError: true},
		{title: "not_a_number", input: "seven", expectError: true},
		{title: "empty", input: "", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			actual, err := ParseSeed(tc.input)
			if tc.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestParseNegativeSeed(t *testing.T) {
	cfg, err := Parse([]byte("seed: -1"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Seed)
	require.Equal(t, Seed(^uint64(0)), *cfg.Seed)

	opts, err := Merge(Defaults(), cfg).Options()
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), *opts.Seed)
}
