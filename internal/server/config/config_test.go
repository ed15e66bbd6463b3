package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, "config/config.yaml", cfg.ConfigObjectKey)
	assert.Equal(t, "conversations.json", cfg.ConversationsObjectKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "2024-04-01-preview", cfg.CompletionAPIVersion)
	assert.Equal(t, 4000, cfg.MaxResponseTokens)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 30, cfg.HistoryLimit)

	// the completion service has no safe default
	assert.Empty(t, cfg.CompletionEndpoint)
	assert.Empty(t, cfg.CompletionAPIKey)
}

func TestLoadConfig_LayeringOrder(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	// env overrides defaults, flags override env
	t.Setenv("ADDRESS", ":9999")
	t.Setenv("MODEL", "gpt-4o-mini")
	os.Args = []string{"test", "-a", ":7777"}

	cfg := LoadConfig()

	assert.Equal(t, ":7777", cfg.EndpointAddr)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}
