package config

// DefaultContainer is the Azure container served as a static website.
const DefaultContainer = "$web"

type ConfigS3Client struct {
	Endpoint  MultiSourceString `yaml:"endpoint"`
	Region    MultiSourceString `yaml:"region"`
	AccessKey MultiSourceString `yaml:"access_key"`
	SecretKey MultiSourceString `yaml:"secret_key"`
}

// Validate checks that credentials and a region are available.
func (c ConfigS3Client) Validate() error {
	if c.AccessKey.Get() == "" {
		return MissingFieldError{"AWS Access Key ID"}
	}
	if c.SecretKey.Get() == "" {
		return MissingFieldError{"AWS Secret Key"}
	}
	if c.Region.Get() == "" {
		return MissingFieldError{"AWS region"}
	}
	return nil
}

type ConfigAzure struct {
	ConnectionString MultiSourceString `yaml:"connection_string"`
	Container        string            `yaml:"container"`
}

// Validate checks that a connection string is available.
func (c ConfigAzure) Validate() error {
	if c.ConnectionString.Get() == "" {
		return MissingFieldError{"AZURE_STORAGE_CONNECTION_STRING"}
	}
	return nil
}
