package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Load reads YAML config from a path on fs on top of Default. A missing file
// is not an error unless required is set.
func Load(fs afero.Fs, path string, required bool) (*Config, error) {
	cfg := Default()
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	b, err := afero.ReadFile(fs, abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return cfg, nil
}

// LoadDotenv reads KEY=value pairs from path into the process environment,
// replacing variables that are already set.
func LoadDotenv(path string) error {
	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
