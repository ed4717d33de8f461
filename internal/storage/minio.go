package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/safelive/backend/internal/config"
	"github.com/safelive/backend/pkg/logger"
)

// PhotoStore is the upload-and-get-URL capability consumed by intake and
// the ticket engine. Backed by MinIO in production, by a stub in tests.
type PhotoStore interface {
	StorePhoto(ctx context.Context, data string) (string, error)
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore() (*MinioStore, error) {
	client, err := minio.New(config.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.MinioAccessKey, config.MinioSecretKey, ""),
		Secure: config.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to minio: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, config.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.WithComponent("storage").Infof("bucket created: %s", config.MinioBucket)
	}

	return &MinioStore{client: client, bucket: config.MinioBucket}, nil
}

// StorePhoto decodes a data-URI (or raw base64) image, uploads it under a
// random key and returns the object URL.
func (s *MinioStore) StorePhoto(ctx context.Context, data string) (string, error) {
	payload, contentType, err := decodeImage(data)
	if err != nil {
		return "", err
	}

	ext := "jpg"
	if parts := strings.Split(contentType, "/"); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	object := fmt.Sprintf("%s.%s", uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	scheme := "http"
	if config.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, config.MinioEndpoint, s.bucket, object), nil
}

func decodeImage(data string) ([]byte, string, error) {
	contentType := "image/jpeg"
	raw := data
	if strings.HasPrefix(data, "data:") {
		header, rest, ok := strings.Cut(data, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URI")
		}
		raw = rest
		header = strings.TrimPrefix(header, "data:")
		if mediaType, _, _ := strings.Cut(header, ";"); mediaType != "" {
			contentType = mediaType
		}
	}

	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if len(payload) == 0 {
		return nil, "", fmt.Errorf("empty image payload")
	}
	return payload, contentType, nil
}
