package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/surf-forecast/internal/domain/forecast"
)

// S3Storage reads raw forecast files from an S3-compatible bucket.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewS3Storage constructs the storage adapter.
func NewS3Storage(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*S3Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Storage{client: client, bucket: bucket, logger: logger.With("component", "blobstore.s3")}, nil
}

// ReadBlob implements forecast.BlobRepository.
func (s *S3Storage) ReadBlob(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(key, err)
	}
	defer obj.Close()
	// GetObject is lazy; Stat surfaces a missing key before reading.
	if _, err := obj.Stat(); err != nil {
		return nil, translateError(key, err)
	}
	data, err := io.ReadAll(io.LimitReader(obj, MaxBlobSize+1))
	if err != nil {
		return nil, translateError(key, err)
	}
	if len(data) > MaxBlobSize {
		return nil, fmt.Errorf("blob %s exceeds %d bytes", key, MaxBlobSize)
	}
	return data, nil
}

// Put uploads a raw file, creating the bucket when missing.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: len(data) < 5*1024*1024,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	s.logger.Debug("raw blob uploaded", "key", key, "bytes", len(data))
	return nil
}

func (s *S3Storage) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func translateError(key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", key, forecast.ErrBlobNotFound)
	}
	return fmt.Errorf("read %s: %w", key, err)
}

var _ forecast.BlobRepository = (*S3Storage)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
