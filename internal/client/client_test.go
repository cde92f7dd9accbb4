package client

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3Target(t *testing.T) {
	tests := []struct {
		in       string
		exp      S3Target
		expError bool
	}{
		{in: "mybucket", exp: S3Target{Bucket: "mybucket"}},
		{in: "mybucket:us-east-2", exp: S3Target{Bucket: "mybucket", Region: "us-east-2"}},
		{
			in:  "mybucket:my-region:https://my-s3-provider:9000/endpoint",
			exp: S3Target{Bucket: "mybucket", Region: "my-region", Endpoint: "https://my-s3-provider:9000/endpoint"},
		},
		{in: "mybucket::http://localhost:9000", exp: S3Target{Bucket: "mybucket", Endpoint: "http://localhost:9000"}},
		{in: ":us-east-2", expError: true},
	}

	for _, test := range tests {
		actual, err := ParseS3Target(test.in)
		if test.expError {
			assert.Error(t, err, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		assert.Equal(t, test.exp, actual, test.in)
	}
}

func TestParseSSHTarget(t *testing.T) {
	host, port, err := ParseSSHTarget("10.100.0.1:2222", 22)
	require.NoError(t, err)
	assert.Equal(t, "10.100.0.1", host)
	assert.Equal(t, 2222, port)

	host, port, err = ParseSSHTarget("example.com", 22)
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)
	assert.Equal(t, 22, port)

	_, _, err = ParseSSHTarget("example.com:ssh", 22)
	assert.Error(t, err)

	_, _, err = ParseSSHTarget("", 22)
	assert.Error(t, err)
}

func TestParseHeaders(t *testing.T) {
	h, err := ParseHeaders([]string{"Authentication: cGFzc3dvcmQ=", "X-Url: http://a:b@c", "Accept:*/*"})
	require.NoError(t, err)
	assert.Equal(t, http.Header{
		"Authentication": {"cGFzc3dvcmQ="},
		"X-Url":          {"http://a:b@c"},
		"Accept":         {"*/*"},
	}, h)

	_, err = ParseHeaders([]string{"no colon here"})
	assert.Error(t, err)
}

func TestSSHClientConfig(t *testing.T) {
	_, err := SSHOptions{Username: "root"}.clientConfig()
	assert.Error(t, err)

	cfg, err := SSHOptions{Username: "deploy", Password: "secret"}.clientConfig()
	require.NoError(t, err)
	assert.Equal(t, "deploy", cfg.User)
	assert.Equal(t, sshCiphers, cfg.Ciphers)
	assert.Len(t, cfg.Auth, 1)

	_, err = SSHOptions{Username: "deploy", PrivateKey: []byte("not a key")}.clientConfig()
	assert.Error(t, err)
}

func TestHTTPDebugLogging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	var out bytes.Buffer
	oldOut, oldLevel := log.StandardLogger().Out, log.GetLevel()
	log.SetOutput(&out)
	log.SetLevel(log.DebugLevel)
	defer func() {
		log.SetOutput(oldOut)
		log.SetLevel(oldLevel)
	}()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/file.zip", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer secret-token")

	resp, err := NewHTTP(0).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Contains(t, out.String(), "/file.zip")
	assert.Contains(t, out.String(), "status=418")
	assert.NotContains(t, out.String(), "secret-token")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, map[string]string{
		"Authorization": "***",
		"Accept":        "a, b",
	}, redact(http.Header{
		"Authorization": {"Basic x"},
		"Accept":        {"a", "b"},
	}))
}
