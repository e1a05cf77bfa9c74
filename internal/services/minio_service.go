package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"review-backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// PosterStorage holds title poster images.
type PosterStorage interface {
	PresignUpload(ctx context.Context, filename string) (uploadURL, publicURL string, err error)
	// Delete removes a poster by its public URL. URLs that do not point into
	// the bucket are ignored.
	Delete(ctx context.Context, publicURL string) error
}

type MinIOService struct {
	client    *minio.Client
	bucket    string
	publicURL string
	expiry    time.Duration
	logger    *logrus.Logger
}

func NewMinIOService(cfg *config.MinIOConfig, logger *logrus.Logger) (*MinIOService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized successfully")

	service := &MinIOService{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		expiry:    cfg.PresignExpiry,
		logger:    logger,
	}

	if err := service.ensureBucket(context.Background(), cfg.Region); err != nil {
		logger.WithError(err).Warn("Failed to configure bucket, but continuing...")
	}

	return service, nil
}

func (s *MinIOService) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	s.logger.WithField("bucket", s.bucket).Info("Bucket policy set to public read")
	return nil
}

func (s *MinIOService) PresignUpload(ctx context.Context, filename string) (string, string, error) {
	objectName := posterObjectName(filename)

	presignedURL, err := s.client.PresignedPutObject(ctx, s.bucket, objectName, s.expiry)
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate presigned URL")
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	publicURL := s.publicURL + "/" + objectName

	s.logger.WithFields(logrus.Fields{
		"filename":   filename,
		"objectName": objectName,
		"expiry":     s.expiry,
	}).Info("Generated presigned URL")

	return presignedURL.String(), publicURL, nil
}

func (s *MinIOService) Delete(ctx context.Context, publicURL string) error {
	objectName, ok := objectFromURL(s.publicURL, publicURL)
	if !ok {
		return nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		s.logger.WithError(err).WithField("objectName", objectName).Error("Failed to delete poster")
		return fmt.Errorf("failed to delete poster: %w", err)
	}

	s.logger.WithField("objectName", objectName).Info("Poster deleted from MinIO")
	return nil
}

// posterObjectName makes an upload name unique while keeping the original
// base name and extension readable.
func posterObjectName(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '\\' || r == '?' || r == '#' {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "poster"
	}
	return fmt.Sprintf("%s_%s%s", name, uuid.New().String()[:8], strings.ToLower(ext))
}

// objectFromURL extracts the object name from a public poster URL. It
// reports false for URLs outside base.
func objectFromURL(base, publicURL string) (string, bool) {
	if base == "" || !strings.HasPrefix(publicURL, base+"/") {
		return "", false
	}
	objectName := strings.TrimPrefix(publicURL, base+"/")
	if idx := strings.Index(objectName, "?"); idx != -1 {
		objectName = objectName[:idx]
	}
	if objectName == "" || strings.Contains(objectName, "/") {
		return "", false
	}
	return objectName, true
}
