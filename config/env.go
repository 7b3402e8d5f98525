package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable newsorder reads.
const EnvPrefix = "NEWSORDER_"

// LookupFunc reads an environment variable; os.LookupEnv in production.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads variables from a .env file into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays NEWSORDER_* variables onto cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := map[string]*string{
		"START_URL":    &cfg.StartURL,
		"USER_AGENT":   &cfg.UserAgent,
		"ARTIFACTS":    &cfg.ArtifactsDir,
		"CSV":          &cfg.CSVPath,
		"JUNIT":        &cfg.JUnitPath,
		"JSON":         &cfg.JSONPath,
		"LOG_LEVEL":    &cfg.LogLevel,
		"LOG_ENCODING": &cfg.LogEncoding,
	}
	for key, dst := range strs {
		if value, ok := lookup(EnvPrefix + key); ok && value != "" {
			*dst = value
		}
	}

	ints := map[string]*int{
		"TARGET":         &cfg.Target,
		"MAX_HOPS":       &cfg.MaxHops,
		"RETRY_ATTEMPTS": &cfg.RetryAttempts,
	}
	for key, dst := range ints {
		value, ok := lookup(EnvPrefix + key)
		if !ok || value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	durations := map[string]*time.Duration{
		"TIMEOUT":          &cfg.Timeout,
		"RETRY_BACKOFF":    &cfg.RetryBackoff,
		"REQUEST_INTERVAL": &cfg.RequestInterval,
	}
	for key, dst := range durations {
		value, ok := lookup(EnvPrefix + key)
		if !ok || value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = d
	}

	return nil
}
