// Package blob wraps an S3-compatible object store behind a small
// download/upload interface. Both application documents (the YAML credentials
// file and the conversations JSON file) live in a single bucket and are
// overwritten wholesale on every write.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/synogpt/synogpt/internal/common"
	sc "github.com/synogpt/synogpt/internal/server/config"
)

// ObjectStore is the persistence surface the rest of the server depends on.
type ObjectStore interface {
	// Download returns the full contents of the object at key.
	// A missing object is reported as common.ErrorNotFound.
	Download(ctx context.Context, key string) ([]byte, error)

	// Upload overwrites the object at key unconditionally (last writer wins).
	Upload(ctx context.Context, key string, data []byte) error
}

// api is the subset of the S3 client used by Store. Tests substitute a fake.
type api interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Store struct {
	client api
	bucket string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewStore builds a Store for the bucket and endpoint in cfg using static
// credentials, e.g. a MinIO root user or an Azure-gateway access key pair.
func NewStore(ctx context.Context, cfg *sc.Config) (*Store, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.BlobRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.BlobAccessKey,
			cfg.BlobSecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("blob: aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BlobBaseEndpoint)
		o.UsePathStyle = true
	})

	return &Store{client: client, bucket: cfg.BlobBucket}, nil
}

func (s *Store) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("blob: get %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("blob: read %q: %w", key, err)
	}
	return data, nil
}

func (s *Store) Upload(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("blob: put %q: %w", key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
