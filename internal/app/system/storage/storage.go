// internal/app/system/storage/storage.go

// Package storage abstracts the object store that holds uploaded content
// files (banner images, brochure PDFs, news images). Two backends are
// provided: local disk for development and S3 for production.
package storage

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// PutOptions carries optional metadata for a stored object.
type PutOptions struct {
	ContentType string
}

// Store is the object storage interface used by the content features.
type Store interface {
	// Put writes the object at key, overwriting any existing object.
	Put(ctx context.Context, key string, r io.Reader, opts *PutOptions) error
	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for the object at key.
	URL(key string) string
}

// Config selects and configures a storage backend.
type Config struct {
	// Type is "local" or "s3".
	Type string

	// Local backend.
	LocalPath string // directory files are written under
	LocalURL  string // URL prefix the files are served from

	// S3 backend.
	S3Region  string
	S3Bucket  string
	S3Prefix  string // optional key prefix
	S3BaseURL string // optional CDN/base URL; defaults to the bucket endpoint
}

// New builds the configured storage backend.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Type {
	case "", "local":
		s, err := NewLocal(cfg.LocalPath, cfg.LocalURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using local file storage",
			zap.String("path", cfg.LocalPath),
			zap.String("url", cfg.LocalURL))
		return s, nil
	case "s3":
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("using s3 storage",
			zap.String("bucket", cfg.S3Bucket),
			zap.String("region", cfg.S3Region))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q (want local or s3)", cfg.Type)
	}
}
