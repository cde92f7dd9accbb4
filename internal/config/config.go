package config

import (
	"fmt"
	"time"
)

// DefaultFile is read from the working directory when --config is not given.
const DefaultFile = "uzdu.yaml"

// DefaultWorkers bounds the number of concurrent file transfers.
const DefaultWorkers = 4

type Config struct {
	Workers int            `yaml:"workers"`
	S3      ConfigS3Client `yaml:"s3"`
	Azure   ConfigAzure    `yaml:"azure"`
	SSH     ConfigSSH      `yaml:"ssh"`
	HTTP    ConfigHTTP     `yaml:"http"`
}

// Default returns the configuration used when no file is present. Secrets
// are read from the same environment variables the SDKs use.
func Default() *Config {
	return &Config{
		Workers: DefaultWorkers,
		S3: ConfigS3Client{
			AccessKey: FromEnv("AWS_ACCESS_KEY_ID"),
			SecretKey: FromEnv("AWS_SECRET_ACCESS_KEY"),
			Region:    FromEnv("AWS_REGION"),
			Endpoint:  FromEnv("AWS_ENDPOINT_URL_S3"),
		},
		Azure: ConfigAzure{
			ConnectionString: FromEnv("AZURE_STORAGE_CONNECTION_STRING"),
			Container:        DefaultContainer,
		},
		SSH: ConfigSSH{
			Username: DefaultSSHUser,
			Port:     DefaultSSHPort,
			Timeout:  DefaultSSHTimeout,
		},
	}
}

// MissingFieldError represents a missing required setting.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("%s is not specified", err.Field)
}

type ConfigHTTP struct {
	// Headers are sent with every request, as "Key: Value".
	Headers []string `yaml:"headers"`

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
}
