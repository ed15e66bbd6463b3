package config

import (
	"os"
	"strconv"
)

// parseEnv overlays Config fields from environment variables.
//
// Recognized variables:
//
//	ADDRESS                   HTTP bind address
//	BLOB_ACCESS_KEY           S3 access key
//	BLOB_SECRET_KEY           S3 secret key
//	BLOB_BUCKET               S3 bucket name
//	BLOB_REGION               S3 region
//	BLOB_ENDPOINT             S3 base endpoint
//	CONFIG_OBJECT_KEY         object key of the YAML credentials document
//	CONVERSATIONS_OBJECT_KEY  object key of the conversations document
//	OPENAI_ENDPOINT_AZURE     completion service endpoint
//	OPENAI_API_KEY_AZURE      completion service API key
//	OPENAI_API_VERSION        api-version for Azure-style endpoints
//	MODEL                     deployment/model identifier
//	MAX_RESPONSE_TOKENS       completion token cap (integer)
//	TEMPERATURE               completion temperature (float)
//
// Unset variables leave the corresponding field untouched. Numeric variables
// that fail to parse are ignored.
func parseEnv(config *Config) {
	setString := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString(&config.EndpointAddr, "ADDRESS")
	setString(&config.BlobAccessKey, "BLOB_ACCESS_KEY")
	setString(&config.BlobSecretKey, "BLOB_SECRET_KEY")
	setString(&config.BlobBucket, "BLOB_BUCKET")
	setString(&config.BlobRegion, "BLOB_REGION")
	setString(&config.BlobBaseEndpoint, "BLOB_ENDPOINT")
	setString(&config.ConfigObjectKey, "CONFIG_OBJECT_KEY")
	setString(&config.ConversationsObjectKey, "CONVERSATIONS_OBJECT_KEY")
	setString(&config.CompletionEndpoint, "OPENAI_ENDPOINT_AZURE")
	setString(&config.CompletionAPIKey, "OPENAI_API_KEY_AZURE")
	setString(&config.CompletionAPIVersion, "OPENAI_API_VERSION")
	setString(&config.Model, "MODEL")

	if v, ok := os.LookupEnv("MAX_RESPONSE_TOKENS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.MaxResponseTokens = n
		}
	}
	if v, ok := os.LookupEnv("TEMPERATURE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Temperature = f
		}
	}
}
