package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Strings(t *testing.T) {
	t.Setenv("ADDRESS", ":8888")
	t.Setenv("BLOB_ACCESS_KEY", "ak")
	t.Setenv("BLOB_SECRET_KEY", "sk")
	t.Setenv("BLOB_BUCKET", "bkt")
	t.Setenv("BLOB_REGION", "eu-west-1")
	t.Setenv("BLOB_ENDPOINT", "http://minio:9000/")
	t.Setenv("CONFIG_OBJECT_KEY", "cfg/creds.yaml")
	t.Setenv("CONVERSATIONS_OBJECT_KEY", "history.json")
	t.Setenv("OPENAI_ENDPOINT_AZURE", "https://example.openai.azure.com")
	t.Setenv("OPENAI_API_KEY_AZURE", "key123")
	t.Setenv("OPENAI_API_VERSION", "2024-06-01")
	t.Setenv("MODEL", "gpt-4o-mini")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":8888", cfg.EndpointAddr)
	assert.Equal(t, "ak", cfg.BlobAccessKey)
	assert.Equal(t, "sk", cfg.BlobSecretKey)
	assert.Equal(t, "bkt", cfg.BlobBucket)
	assert.Equal(t, "eu-west-1", cfg.BlobRegion)
	assert.Equal(t, "http://minio:9000/", cfg.BlobBaseEndpoint)
	assert.Equal(t, "cfg/creds.yaml", cfg.ConfigObjectKey)
	assert.Equal(t, "history.json", cfg.ConversationsObjectKey)
	assert.Equal(t, "https://example.openai.azure.com", cfg.CompletionEndpoint)
	assert.Equal(t, "key123", cfg.CompletionAPIKey)
	assert.Equal(t, "2024-06-01", cfg.CompletionAPIVersion)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestParseEnv_Numbers(t *testing.T) {
	t.Setenv("MAX_RESPONSE_TOKENS", "2048")
	t.Setenv("TEMPERATURE", "0.7")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 2048, cfg.MaxResponseTokens)
	assert.Equal(t, 0.7, cfg.Temperature)
}

func TestParseEnv_InvalidNumbersIgnored(t *testing.T) {
	t.Setenv("MAX_RESPONSE_TOKENS", "not-a-number")
	t.Setenv("TEMPERATURE", "warm")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 4000, cfg.MaxResponseTokens)
	assert.Equal(t, 0.2, cfg.Temperature)
}

func TestParseEnv_UnsetLeavesDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "config/config.yaml", cfg.ConfigObjectKey)
	assert.Equal(t, "conversations.json", cfg.ConversationsObjectKey)
}
