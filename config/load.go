package config

import "fmt"

// LoadOptions controls where Load looks.
type LoadOptions struct {
	// FilePath is an explicit config file. When empty the default path is
	// tried and silently skipped if absent.
	FilePath string
	// Lookup reads the environment; nil means os.LookupEnv.
	Lookup LookupFunc
}

// Load layers defaults, the YAML file and the environment, in that order.
// Flags are applied by the caller afterwards, followed by Validate.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	path := opts.FilePath
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return cfg, err
		}
		if fc == nil && explicit {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		if fc != nil {
			if err := fc.Apply(&cfg); err != nil {
				return cfg, fmt.Errorf("failed to apply config file: %w", err)
			}
		}
	}

	if err := ApplyEnv(&cfg, opts.Lookup); err != nil {
		return cfg, err
	}

	return cfg, nil
}
