// internal/config/types.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// MultiSourceString is a setting given either literally or through an
// environment variable. A literal value wins.
type MultiSourceString struct {
	Data   string `yaml:"data"`
	EnvVar string `yaml:"env_var"`
}

// FromEnv returns a MultiSourceString read from the variable key.
func FromEnv(key string) MultiSourceString {
	return MultiSourceString{EnvVar: key}
}

func (m MultiSourceString) Get() string {
	if m.Data != "" {
		return m.Data
	}
	if m.EnvVar != "" {
		return os.Getenv(m.EnvVar)
	}
	return ""
}

// UnmarshalYAML also accepts a plain scalar as the literal value.
func (m *MultiSourceString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*m = MultiSourceString{Data: node.Value}
		return nil
	}

	type plain MultiSourceString
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*m = MultiSourceString(out)
	return nil
}
