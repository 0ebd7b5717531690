package minio

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Archive copies uploaded PDFs into an object storage bucket.
type Archive struct {
	client *minio.Client
	bucket string
}

// New creates the client and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Archive, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is empty")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := mc.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check minio bucket failed: %w", err)
	}
	if !exists {
		if err := mc.MakeBucket(checkCtx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create minio bucket failed: %w", err)
		}
	}
	return &Archive{client: mc, bucket: cfg.Bucket}, nil
}

// Store uploads the local file at path under key.
func (a *Archive) Store(ctx context.Context, key, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive source failed: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive source failed: %w", err)
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	if _, err := a.client.PutObject(ctx, a.bucket, key, f, info.Size(), minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("put archive object failed: %w", err)
	}
	return nil
}
