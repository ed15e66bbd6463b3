package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_AllRecognized(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"test",
		"-a", ":1234",
		"-u", "user",
		"-p", "pass",
		"-b", "bucket",
		"-g", "region",
		"-e", "http://localhost:9000/",
		"-o", "https://example.openai.azure.com",
		"-k", "apikey",
		"-m", "gpt-4o",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":1234", cfg.EndpointAddr)
	assert.Equal(t, "user", cfg.BlobAccessKey)
	assert.Equal(t, "pass", cfg.BlobSecretKey)
	assert.Equal(t, "bucket", cfg.BlobBucket)
	assert.Equal(t, "region", cfg.BlobRegion)
	assert.Equal(t, "http://localhost:9000/", cfg.BlobBaseEndpoint)
	assert.Equal(t, "https://example.openai.azure.com", cfg.CompletionEndpoint)
	assert.Equal(t, "apikey", cfg.CompletionAPIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func TestParseFlags_UnknownFlagsFilteredOut(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"test", "-z", "whatever", "-a", ":4321"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":4321", cfg.EndpointAddr)
}
