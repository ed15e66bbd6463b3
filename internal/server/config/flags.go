package config

import (
	"flag"
	"os"

	"github.com/synogpt/synogpt/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-o string   completion service endpoint
//	-k string   completion service API key
//	-m string   deployment/model identifier
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-p", "-b", "-g", "-e", "-o", "-k", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.BlobAccessKey, "u", config.BlobAccessKey, "S3 access key")
	fs.StringVar(&config.BlobSecretKey, "p", config.BlobSecretKey, "S3 secret key")
	fs.StringVar(&config.BlobBucket, "b", config.BlobBucket, "S3 bucket")
	fs.StringVar(&config.BlobRegion, "g", config.BlobRegion, "S3 region")
	fs.StringVar(&config.BlobBaseEndpoint, "e", config.BlobBaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.CompletionEndpoint, "o", config.CompletionEndpoint, "completion service endpoint")
	fs.StringVar(&config.CompletionAPIKey, "k", config.CompletionAPIKey, "completion service API key")
	fs.StringVar(&config.Model, "m", config.Model, "deployment/model identifier")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
