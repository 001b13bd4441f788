// Package store implements the optional Output Store (§12.4): uploading
// a completed run's output directory to S3 and minting presigned URLs so
// an HTTP caller can fetch individual assets without the server
// streaming bytes itself.
package store

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// DefaultPresignTTL is how long a minted URL remains valid.
const DefaultPresignTTL = 15 * time.Minute

// Store uploads run output trees to S3 and mints presigned URLs for them.
type Store struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucketName string
	logger     *zap.Logger
}

// NewStore creates a Store backed by bucketName.
func NewStore(client *s3.Client, bucketName string, logger *zap.Logger) *Store {
	return &Store{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucketName: bucketName,
		logger:     logger,
	}
}

// UploadTree walks localDir and uploads every regular file beneath it to
// S3 under keyPrefix, preserving the relative path.
func (s *Store) UploadTree(ctx context.Context, localDir, keyPrefix string) (map[string]string, error) {
	uploaded := make(map[string]string)

	err := filepath.Walk(localDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(filepath.Join(keyPrefix, rel))
		if err := s.uploadFile(ctx, path, key); err != nil {
			s.logger.Warn("failed to upload output file, continuing", zap.String("path", path), zap.Error(err))
			return nil
		}
		uploaded[rel] = key
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("walk output directory: %w", err)
	}
	return uploaded, nil
}

func (s *Store) uploadFile(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	return err
}

// PresignedURL mints a time-limited GET URL for key.
func (s *Store) PresignedURL(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(DefaultPresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// DownloadFile retrieves key and writes it to destPath.
func (s *Store) DownloadFile(ctx context.Context, key, destPath string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, out.Body)
	return err
}

// HealthCheck verifies the bucket is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucketName)})
	return err
}
