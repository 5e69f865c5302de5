// Package storage implements the upload bridge on MinIO/S3: presigned
// PUT grants into a temporary namespace, promotion to the permanent
// namespace on finalize, and removal for rollback and sweeping.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/config"
)

const (
	tmpPrefix       = "tmp/"
	permanentPrefix = "uploads/"
)

// UploadGrant is the short-lived permission returned to the client.
type UploadGrant struct {
	UploadURL       string            `json:"upload_url"`
	Key             string            `json:"key"`
	ExpiresIn       int64             `json:"expires_in"` // seconds
	RequiredHeaders map[string]string `json:"required_headers"`
}

// ObjectStorage is the upload bridge contract consumed by handlers and
// the sweeper.
type ObjectStorage interface {
	GrantUpload(ctx context.Context, userID uint, contentType string, contentLength int64) (*UploadGrant, error)
	// Promote verifies the temporary object and moves it into the
	// permanent namespace. Returns the permanent key and public URL.
	Promote(ctx context.Context, userID uint, tmpKey string) (key, publicURL string, err error)
	Remove(ctx context.Context, key string) error
	// StaleTemporaryKeys lists temporary objects last modified before the
	// given time. Granted-but-never-finalized uploads have no database
	// row, so the sweeper finds them here.
	StaleTemporaryKeys(ctx context.Context, olderThan time.Time) ([]string, error)
}

// MinioStorage implements ObjectStorage on a MinIO/S3 bucket.
type MinioStorage struct {
	cfg    *config.Config
	client *mclient.Client
}

var _ ObjectStorage = (*MinioStorage)(nil)

// New creates the MinIO client and fails fast when the bucket is absent.
func New(ctx context.Context, cfg *config.Config) (*MinioStorage, error) {
	endpoint := cfg.S3Endpoint
	secure := strings.HasPrefix(endpoint, "https://")
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", cfg.S3Bucket)
	}

	return &MinioStorage{cfg: cfg, client: client}, nil
}

// GrantUpload validates the declared content type and length and returns
// a presigned PUT into the temporary namespace.
func (s *MinioStorage) GrantUpload(ctx context.Context, userID uint, contentType string, contentLength int64) (*UploadGrant, error) {
	if contentLength <= 0 {
		return nil, apperrors.ErrInvalidInput
	}
	if contentLength > s.cfg.UploadMaxSizeBytes {
		return nil, apperrors.ErrPayloadTooLarge
	}
	if !isAllowedContentType(s.cfg.AllowedContentTypes, contentType) {
		return nil, apperrors.ErrInvalidInput
	}

	key := path.Join(tmpPrefix, fmt.Sprint(userID), uuid.NewString()+extensionFor(contentType))
	presigned, err := s.client.PresignedPutObject(ctx, s.cfg.S3Bucket, key, s.cfg.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &UploadGrant{
		UploadURL: presigned.String(),
		Key:       key,
		ExpiresIn: int64(s.cfg.PresignTTL / time.Second),
		RequiredHeaders: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}, nil
}

// Promote confirms the uploaded temporary object (existence, size, type)
// and copies it into the permanent namespace, deleting the temporary
// object afterwards.
func (s *MinioStorage) Promote(ctx context.Context, userID uint, tmpKey string) (string, string, error) {
	prefix := path.Join(tmpPrefix, fmt.Sprint(userID)) + "/"
	if !strings.HasPrefix(tmpKey, prefix) {
		return "", "", apperrors.ErrInvalidInput
	}

	info, err := s.client.StatObject(ctx, s.cfg.S3Bucket, tmpKey, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return "", "", apperrors.ErrNotFound
		}
		return "", "", fmt.Errorf("stat object: %w", err)
	}
	if info.Size <= 0 || info.Size > s.cfg.UploadMaxSizeBytes {
		return "", "", apperrors.ErrPayloadTooLarge
	}
	if ct := info.ContentType; ct != "" && !isAllowedContentType(s.cfg.AllowedContentTypes, ct) {
		return "", "", apperrors.ErrInvalidInput
	}

	permanentKey := permanentPrefix + strings.TrimPrefix(tmpKey, tmpPrefix)
	_, err = s.client.CopyObject(ctx,
		mclient.CopyDestOptions{Bucket: s.cfg.S3Bucket, Object: permanentKey},
		mclient.CopySrcOptions{Bucket: s.cfg.S3Bucket, Object: tmpKey},
	)
	if err != nil {
		return "", "", fmt.Errorf("copy object: %w", err)
	}

	if err := s.client.RemoveObject(ctx, s.cfg.S3Bucket, tmpKey, mclient.RemoveObjectOptions{}); err != nil {
		// The permanent copy exists; a stale tmp object is picked up by
		// a later sweep, so do not fail the promotion.
		return permanentKey, s.publicURL(permanentKey), nil
	}
	return permanentKey, s.publicURL(permanentKey), nil
}

// StaleTemporaryKeys walks the temporary namespace and returns the keys
// of objects older than the cutoff.
func (s *MinioStorage) StaleTemporaryKeys(ctx context.Context, olderThan time.Time) ([]string, error) {
	var keys []string
	objects := s.client.ListObjects(ctx, s.cfg.S3Bucket, mclient.ListObjectsOptions{
		Prefix:    tmpPrefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("list tmp objects: %w", object.Err)
		}
		if object.LastModified.Before(olderThan) {
			keys = append(keys, object.Key)
		}
	}
	return keys, nil
}

// Remove deletes an object. Missing objects are not an error.
func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.cfg.S3Bucket, key, mclient.RemoveObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return nil
		}
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func (s *MinioStorage) publicURL(key string) string {
	base := strings.TrimRight(s.cfg.S3PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.cfg.S3Endpoint, "/") + "/" + s.cfg.S3Bucket
	}
	return base + "/" + key
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}
	return false
}
