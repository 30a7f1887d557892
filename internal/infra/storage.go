package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"

	appconfig "github.com/NuttWarunyu/PlantPick-Backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore uploads garden photos and generated images to an S3-compatible
// bucket (Cloudflare R2 in production) and returns their public URLs.
type ObjectStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewObjectStore(ctx context.Context, cfg *appconfig.Config) (*ObjectStore, error) {
	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		),
		config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					if service == s3.ServiceID {
						return aws.Endpoint{URL: cfg.StorageEndpoint, SigningRegion: "auto"}, nil
					}
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				},
			),
		),
	)
	if err != nil {
		return nil, err
	}

	return &ObjectStore{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.StorageBucket,
		baseURL: cfg.StorageBaseURL,
	}, nil
}

// Upload stores the object under key and returns its public URL.
func (s *ObjectStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// UploadBytes is the convenience form for in-memory payloads.
func (s *ObjectStore) UploadBytes(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return s.Upload(ctx, key, contentType, bytes.NewReader(data))
}
