// Package storage keeps uploaded garment images on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"palette-wardrobe/stylist/internal/config"
)

// ErrInvalidKey is returned for object keys that escape the store root.
var ErrInvalidKey = errors.New("invalid image key")

// ImageStore saves, removes and addresses image objects by key.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// NewImageStore picks the backend named by STORAGE_BACKEND.
func NewImageStore(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case "local", "":
		return NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL), nil
	case "s3":
		return NewS3ImageStoreFromConfig(ctx, cfg.AWSRegion, cfg.AWSBucketName)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
