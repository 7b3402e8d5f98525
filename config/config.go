// Package config builds the immutable run configuration from defaults, an
// optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/pevans/newsorder/discovery"
	"github.com/pevans/newsorder/scraper"
)

// DefaultStartURL is the listing checked when nothing else is configured.
const DefaultStartURL = "https://news.ycombinator.com/newest"

// Config is the full run configuration. It is built once at start and
// passed by value afterwards.
type Config struct {
	StartURL        string
	Target          int
	MaxHops         int
	Timeout         time.Duration
	RetryAttempts   int
	RetryBackoff    time.Duration
	RequestInterval time.Duration
	UserAgent       string

	ArtifactsDir string
	CSVPath      string
	JUnitPath    string
	JSONPath     string

	LogLevel    string
	LogEncoding string

	List scraper.ListConfig
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StartURL:        DefaultStartURL,
		Target:          100,
		MaxHops:         10,
		Timeout:         30 * time.Second,
		RetryAttempts:   2,
		RetryBackoff:    1 * time.Second,
		RequestInterval: 1 * time.Second,
		UserAgent:       discovery.DefaultUserAgent,
		ArtifactsDir:    "artifacts",
		LogLevel:        "info",
		LogEncoding:     "console",
		List:            *scraper.NewListConfig(),
	}
}

// Validate rejects configurations a run cannot work with.
func (c Config) Validate() error {
	u, err := url.Parse(c.StartURL)
	if err != nil {
		return fmt.Errorf("invalid start url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("start url must use http or https scheme")
	}

	if c.Target <= 0 {
		return fmt.Errorf("target must be positive, got %d", c.Target)
	}
	if c.MaxHops <= 0 {
		return fmt.Errorf("max hops must be positive, got %d", c.MaxHops)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.RetryAttempts)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff must not be negative, got %s", c.RetryBackoff)
	}
	if c.RequestInterval < 0 {
		return fmt.Errorf("request interval must not be negative, got %s", c.RequestInterval)
	}

	if err := c.List.Validate(); err != nil {
		return fmt.Errorf("invalid selectors: %w", err)
	}

	return nil
}
