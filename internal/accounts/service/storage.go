package service

import (
	"context"
	"time"
)

// UploadGrant is a presigned direct-upload target for an avatar object.
type UploadGrant struct {
	UploadURL string
	FileID    string
	ExpiresIn time.Duration
}

// AvatarStorage abstracts the object store holding profile pictures.
type AvatarStorage interface {
	// PresignUpload returns a short-lived grant letting the client PUT the
	// object directly.
	PresignUpload(ctx context.Context, key string, contentType string) (UploadGrant, error)

	// Delete removes an object. Used best-effort when an avatar is replaced
	// or its account removed.
	Delete(ctx context.Context, fileID string) error
}
