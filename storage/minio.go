package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"moodyo/config"
	"moodyo/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// CoverStore uploads generated cover images and returns public URLs.
type CoverStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewCoverStore initializes the MinIO client. Returns nil (not an error) when
// no endpoint is configured: cover storage is optional and generated covers
// fall back to inline data URIs.
func NewCoverStore(cfg *config.Config) (*CoverStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, nil
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created MinIO bucket", logger.String("bucket", cfg.MinioBucket))
	}

	publicURL := strings.TrimRight(cfg.MinioPublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}

	return &CoverStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: publicURL,
	}, nil
}

// PutCover stores one image under covers/ and returns its public URL.
func (s *CoverStore) PutCover(ctx context.Context, data []byte, contentType string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("cover store not initialized")
	}

	ext := "png"
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	objectName := fmt.Sprintf("covers/%s.%s", uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cover %s: %w", objectName, err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName)
	logger.Debug("cover uploaded", logger.String("object", objectName), logger.String("url", url))
	return url, nil
}
