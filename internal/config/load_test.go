package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := Load(fs, "uzdu.yaml", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(fs, "uzdu.yaml", true)
	assert.Error(t, err)
}

func TestLoadRelativePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	abs, err := filepath.Abs(filepath.Join("conf", "uzdu.yaml"))
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, abs, []byte("workers: 2\n"), 0644))

	cfg, err := Load(fs, filepath.Join("conf", "uzdu.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "uzdu.yaml", `
workers: 8
s3:
  region: eu-central-1
  access_key:
    env_var: MY_KEY_ID
  secret_key:
    data: shh
azure:
  container: assets
ssh:
  username: deploy
  key_file: ~/.ssh/deploy
  timeout: 5s
http:
  headers:
    - "Authorization: Basic cGFzc3dvcmQ="
`)
	t.Setenv("MY_KEY_ID", "AKIA")

	cfg, err := Load(afero.NewOsFs(), path, true)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "eu-central-1", cfg.S3.Region.Get())
	assert.Equal(t, "AKIA", cfg.S3.AccessKey.Get())
	assert.Equal(t, "shh", cfg.S3.SecretKey.Get())
	assert.NoError(t, cfg.S3.Validate())

	assert.Equal(t, "assets", cfg.Azure.Container)
	assert.Equal(t, FromEnv("AZURE_STORAGE_CONNECTION_STRING"), cfg.Azure.ConnectionString)

	assert.Equal(t, "deploy", cfg.SSH.Username)
	assert.Equal(t, DefaultSSHPort, cfg.SSH.Port)
	assert.Equal(t, 5*time.Second, cfg.SSH.Timeout)
	assert.Equal(t, []string{"Authorization: Basic cGFzc3dvcmQ="}, cfg.HTTP.Headers)
}

func TestLoadInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/uzdu.yaml", []byte("workers: ["), 0644))
	_, err := Load(fs, "/uzdu.yaml", false)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "")

	cfg := Default()
	assert.EqualError(t, cfg.S3.Validate(), "AWS Access Key ID is not specified")
	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	assert.EqualError(t, cfg.S3.Validate(), "AWS Secret Key is not specified")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	assert.EqualError(t, cfg.S3.Validate(), "AWS region is not specified")
	t.Setenv("AWS_REGION", "us-east-2")
	assert.NoError(t, cfg.S3.Validate())

	assert.Error(t, cfg.Azure.Validate())
	assert.Error(t, cfg.SSH.Validate())
	cfg.SSH.KeyFile = "~/.ssh/id_ed25519"
	assert.NoError(t, cfg.SSH.Validate())
}

func TestMultiSourceString(t *testing.T) {
	t.Setenv("UZDU_TEST_SECRET", "from-env")

	assert.Equal(t, "literal", MultiSourceString{Data: "literal", EnvVar: "UZDU_TEST_SECRET"}.Get())
	assert.Equal(t, "from-env", FromEnv("UZDU_TEST_SECRET").Get())
	assert.Equal(t, "", MultiSourceString{}.Get())
}

func TestLoadDotenv(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".env", "# credentials\nUZDU_DOTENV_KEY=a=b\n")
	t.Setenv("UZDU_DOTENV_KEY", "old")

	require.NoError(t, LoadDotenv(path))
	assert.Equal(t, "a=b", os.Getenv("UZDU_DOTENV_KEY"))

	assert.Error(t, LoadDotenv(filepath.Join(t.TempDir(), "missing.env")))
}
