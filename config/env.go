package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix the prefix of the environment variables
const EnvPrefix = "XSHIFT_"

// LookupFunc returns the value of an environment variable and whether it's set
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads the .env files into the environment. The variables which are already set are not
// overridden and the missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// FromEnv reads the XSHIFT_* variables. If lookup is nil, os.LookupEnv is used.
func FromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var cfg Config
	if v, ok := get("MAX_SHIFT_DAYS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %sMAX_SHIFT_DAYS: %s", ErrInvalidConfig, EnvPrefix, err)
		}
		if n <= 0 {
			return Config{}, fmt.Errorf("%w: %sMAX_SHIFT_DAYS: %w", ErrInvalidConfig, EnvPrefix, ErrInvalidMaxShift)
		}
		cfg.MaxShiftDays = n
	}
	if v, ok := get("SEED"); ok {
		seed, err := ParseSeed(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %sSEED: %s", ErrInvalidConfig, EnvPrefix, err)
		}
		cfg.Seed = &seed
	}
	if v, ok := get("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %sWORKERS: %s", ErrInvalidConfig, EnvPrefix, err)
		}
		cfg.Workers = n
	}
	if v, ok := get("OVERWRITE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %sOVERWRITE: %s", ErrInvalidConfig, EnvPrefix, err)
		}
		cfg.Overwrite = b
	}
	cfg.DateFormat, _ = get("DATE_FORMAT")
	cfg.Encoding, _ = get("ENCODING")
	cfg.Policy, _ = get("POLICY")
	cfg.Scope, _ = get("SCOPE")
	cfg.Logging.Level, _ = get("LOG_LEVEL")
	cfg.Logging.Format, _ = get("LOG_FORMAT")
	return cfg, nil
}
