package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"palette-wardrobe/stylist/internal/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = time.Hour

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore keeps images in one bucket and hands out presigned GET URLs.
type S3ImageStore struct {
	client  s3API
	presign func(ctx context.Context, key string) (string, error)
	bucket  string
}

// NewS3ImageStoreFromConfig loads AWS credentials from the default chain.
func NewS3ImageStoreFromConfig(ctx context.Context, region, bucket string) (*S3ImageStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET_NAME is required for s3 storage")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	presigner := s3.NewPresignClient(client)
	logging.Info("S3 image store initialized", "bucket", bucket, "region", region)

	return NewS3ImageStore(client, func(ctx context.Context, key string) (string, error) {
		req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(presignExpiry))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}, bucket), nil
}

// NewS3ImageStore takes the presign step as a function so tests need no
// credentials.
func NewS3ImageStore(client s3API, presign func(ctx context.Context, key string) (string, error), bucket string) *S3ImageStore {
	return &S3ImageStore{client: client, presign: presign, bucket: bucket}
}

func (s *S3ImageStore) Save(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload image %s to S3: %w", key, err)
	}
	return nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s from S3: %w", key, err)
	}
	return nil
}

func (s *S3ImageStore) URL(ctx context.Context, key string) (string, error) {
	u, err := s.presign(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to sign image URL %s: %w", key, err)
	}
	return u, nil
}
