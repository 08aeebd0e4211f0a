package storage

import (
	"context"
)

// ProfileImageUploader puts profile images in object storage
type ProfileImageUploader interface {
	UploadProfileImage(ctx context.Context, data []byte, userID, contentType string) (*UploadResult, error)
}

// Ensure S3Uploader implements ProfileImageUploader
var _ ProfileImageUploader = (*S3Uploader)(nil)
