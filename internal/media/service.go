// Package media handles video object storage. Uploads and downloads go
// straight to the object store through presigned URLs; the API never
// proxies video bytes.
package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = 1 * time.Hour
)

// Service issues presigned URLs against an S3-compatible object store.
type Service struct {
	client *minio.Client
	bucket string
}

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewService(opts Options) (*Service, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}
	return &Service{client: client, bucket: opts.Bucket}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// ObjectKey builds the canonical storage key for a video. Keys are
// namespaced by workspace so store-level listing mirrors tenancy.
func ObjectKey(workspaceID, videoID, filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".mp4"
	}
	return workspaceID + "/" + videoID + strings.ToLower(ext)
}

// UploadURL returns a presigned PUT URL for the given object key.
func (s *Service) UploadURL(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, uploadURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	return u.String(), nil
}

// DownloadURL returns a presigned GET URL for the given object key.
func (s *Service) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	params := url.Values{}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, downloadURLTTL, params)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u.String(), nil
}
