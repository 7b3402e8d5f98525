package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of the YAML config file. Unset fields
// leave the current value alone.
type FileConfig struct {
	StartURL        string `yaml:"start_url"`
	Target          int    `yaml:"target"`
	MaxHops         int    `yaml:"max_hops"`
	Timeout         string `yaml:"timeout"`
	RetryAttempts   int    `yaml:"retry_attempts"`
	RetryBackoff    string `yaml:"retry_backoff"`
	RequestInterval string `yaml:"request_interval"`
	UserAgent       string `yaml:"user_agent"`

	Reports struct {
		ArtifactsDir string `yaml:"artifacts_dir"`
		CSV          string `yaml:"csv"`
		JUnit        string `yaml:"junit"`
		JSON         string `yaml:"json"`
	} `yaml:"reports"`

	Log struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	} `yaml:"log"`

	Selectors struct {
		Row               string `yaml:"row"`
		Title             string `yaml:"title"`
		Age               string `yaml:"age"`
		More              string `yaml:"more"`
		IDAttribute       string `yaml:"id_attribute"`
		AbsoluteAttribute string `yaml:"absolute_attribute"`
	} `yaml:"selectors"`
}

// DefaultConfigPath returns ~/.newsorder/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".newsorder", "config.yaml"), nil
}

// LoadConfigFile loads configuration from path. Returns nil if the file
// doesn't exist (not an error). Returns error if the file exists but cannot
// be parsed.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &fc, nil
}

// Apply overlays the set fields of the file onto cfg.
func (fc *FileConfig) Apply(cfg *Config) error {
	setString(&cfg.StartURL, fc.StartURL)
	setInt(&cfg.Target, fc.Target)
	setInt(&cfg.MaxHops, fc.MaxHops)
	setInt(&cfg.RetryAttempts, fc.RetryAttempts)
	setString(&cfg.UserAgent, fc.UserAgent)

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"timeout", fc.Timeout, &cfg.Timeout},
		{"retry_backoff", fc.RetryBackoff, &cfg.RetryBackoff},
		{"request_interval", fc.RequestInterval, &cfg.RequestInterval},
	}
	for _, d := range durations {
		if err := setDuration(d.dst, d.value); err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
	}

	setString(&cfg.ArtifactsDir, fc.Reports.ArtifactsDir)
	setString(&cfg.CSVPath, fc.Reports.CSV)
	setString(&cfg.JUnitPath, fc.Reports.JUnit)
	setString(&cfg.JSONPath, fc.Reports.JSON)

	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogEncoding, fc.Log.Encoding)

	setString(&cfg.List.RowSelector, fc.Selectors.Row)
	setString(&cfg.List.TitleSelector, fc.Selectors.Title)
	setString(&cfg.List.AgeSelector, fc.Selectors.Age)
	setString(&cfg.List.MoreSelector, fc.Selectors.More)
	setString(&cfg.List.IDAttribute, fc.Selectors.IDAttribute)
	setString(&cfg.List.AbsoluteAttribute, fc.Selectors.AbsoluteAttribute)

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setInt(dst *int, value int) {
	if value != 0 {
		*dst = value
	}
}

func setDuration(dst *time.Duration, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
