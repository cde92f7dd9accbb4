package config

import (
	"errors"
	"time"
)

const (
	DefaultSSHUser    = "root"
	DefaultSSHPort    = 22
	DefaultSSHTimeout = 30 * time.Second
)

type ConfigSSH struct {
	Username   string            `yaml:"username"`
	Port       int               `yaml:"port"`
	Password   MultiSourceString `yaml:"password"`
	KeyFile    string            `yaml:"key_file"`    // private key path, "~" is expanded
	KnownHosts string            `yaml:"known_hosts"` // enables host key verification
	Timeout    time.Duration     `yaml:"timeout"`
}

// Validate checks that one authentication method is configured.
func (c ConfigSSH) Validate() error {
	if c.KeyFile == "" && c.Password.Get() == "" {
		return errors.New("either --targetPassword or --targetKey should be specified")
	}
	return nil
}
