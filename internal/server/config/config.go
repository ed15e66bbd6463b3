// Package config handles configuration for the chat server,
// including defaults, environment overlay, and command-line flags.
package config

// Config holds runtime settings for the chat server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - BlobAccessKey / BlobSecretKey: credentials for the S3-compatible backend.
//   - BlobBucket / BlobRegion / BlobBaseEndpoint: object storage settings.
//   - ConfigObjectKey: object key of the YAML credentials document.
//   - ConversationsObjectKey: object key of the conversations JSON document.
//   - CompletionEndpoint / CompletionAPIKey: the hosted chat-completion service.
//     Both are required; the server refuses to start without them.
//   - CompletionAPIVersion: api-version query parameter for Azure-style endpoints.
//   - Model: deployment/model identifier sent with every completion request.
//   - MaxResponseTokens / Temperature: completion request tuning.
//   - HistoryLimit: number of most recent conversations retained in storage.
type Config struct {
	EndpointAddr           string
	BlobAccessKey          string
	BlobSecretKey          string
	BlobBucket             string
	BlobRegion             string
	BlobBaseEndpoint       string
	ConfigObjectKey        string
	ConversationsObjectKey string
	CompletionEndpoint     string
	CompletionAPIKey       string
	CompletionAPIVersion   string
	Model                  string
	MaxResponseTokens      int
	Temperature            float64
	HistoryLimit           int
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.BlobAccessKey = "admin"
	c.BlobSecretKey = "secretpassword"
	c.BlobBucket = "itgluecopilot"
	c.BlobRegion = "us-east-1"
	c.BlobBaseEndpoint = "http://127.0.0.1:9000/"
	c.ConfigObjectKey = "config/config.yaml"
	c.ConversationsObjectKey = "conversations.json"
	c.CompletionAPIVersion = "2024-04-01-preview"
	c.Model = "gpt-4o"
	c.MaxResponseTokens = 4000
	c.Temperature = 0.2
	c.HistoryLimit = 30
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
