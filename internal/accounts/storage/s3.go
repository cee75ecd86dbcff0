// Package storage holds profile picture objects in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/harborline/accountd/internal/accounts/service"
	"github.com/harborline/accountd/pkg/idx"
)

const presignExpiry = 15 * time.Minute

// Config holds the bucket connection settings. Endpoint is optional and
// supports S3-compatible stores like MinIO.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// S3Storage implements service.AvatarStorage on an S3 bucket.
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New builds the S3 storage from static credentials.
func New(ctx context.Context, cfg Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("storage: aws config failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// NewObjectKey returns a fresh bucket key for an avatar upload, namespaced
// by account so orphans are attributable.
func NewObjectKey(accountID string) string {
	return fmt.Sprintf("avatars/%s/%s", accountID, idx.New())
}

// PresignUpload returns a short-lived direct PUT grant for the given key.
func (s *S3Storage) PresignUpload(ctx context.Context, key string, contentType string) (service.UploadGrant, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return service.UploadGrant{}, fmt.Errorf("storage: presign failed: %w", err)
	}

	return service.UploadGrant{
		UploadURL: req.URL,
		FileID:    key,
		ExpiresIn: presignExpiry,
	}, nil
}

// Delete removes an avatar object. Callers treat failures as best-effort.
func (s *S3Storage) Delete(ctx context.Context, fileID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %q failed: %w", fileID, err)
	}
	return nil
}
