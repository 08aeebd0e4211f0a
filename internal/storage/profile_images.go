package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/util"
)

var (
	ErrInvalidImageType = errors.New("invalid image type")
	ErrImageTooLarge    = errors.New("image too large")
	ErrInvalidImageData = errors.New("invalid image data")
	ErrImageNotFound    = errors.New("image not found")
)

const imageIDPrefix = "profile-"

// ProfileImages stores profile pictures in S3 when an uploader is configured,
// otherwise inline in the profile row and served from /api/profile/image/:imageId.
type ProfileImages struct {
	uploader ProfileImageUploader
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewProfileImages creates the image service; a nil uploader selects inline storage
func NewProfileImages(uploader ProfileImageUploader, profiles repository.ProfileRepository) *ProfileImages {
	return &ProfileImages{
		uploader: uploader,
		profiles: profiles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Backend names where images go, for logs and metrics
func (p *ProfileImages) Backend() string {
	if p.uploader != nil {
		return "s3"
	}
	return "inline"
}

// Upload validates a base64 image (a data: prefix is allowed) and returns its public URL
func (p *ProfileImages) Upload(ctx context.Context, userID, imageData, imageType string) (string, error) {
	if !strings.HasPrefix(imageType, "image/") {
		return "", ErrInvalidImageType
	}

	raw := util.StripDataURL(imageData)
	if util.EstimatedBase64Size(raw) > util.MaxProfileImageBytes {
		return "", ErrImageTooLarge
	}

	var url string
	if p.uploader != nil {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return "", ErrInvalidImageData
		}
		result, err := p.uploader.UploadProfileImage(ctx, decoded, userID, imageType)
		if err != nil {
			return "", err
		}
		url = result.URL
		if err := p.profiles.SetImage(ctx, userID, url, nil, nil); err != nil {
			return "", fmt.Errorf("failed to save profile image: %w", err)
		}
	} else {
		url = "/api/profile/image/" + ImageID(userID, p.now())
		if err := p.profiles.SetImage(ctx, userID, url, &raw, &imageType); err != nil {
			return "", fmt.Errorf("failed to save profile image: %w", err)
		}
	}

	metrics.Get().App.ProfileUploads.WithLabelValues(p.Backend()).Inc()
	return url, nil
}

// Load returns the inline image bytes for an id produced by ImageID
func (p *ProfileImages) Load(ctx context.Context, imageID string) ([]byte, string, error) {
	userID, ok := ParseImageID(imageID)
	if !ok {
		return nil, "", ErrImageNotFound
	}

	profile, err := p.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, "", ErrImageNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if profile.ProfileImageData == nil || *profile.ProfileImageData == "" {
		return nil, "", ErrImageNotFound
	}

	data, err := base64.StdEncoding.DecodeString(*profile.ProfileImageData)
	if err != nil {
		return nil, "", ErrImageNotFound
	}

	contentType := "image/jpeg"
	if profile.ProfileImageType != nil && *profile.ProfileImageType != "" {
		contentType = *profile.ProfileImageType
	}
	return data, contentType, nil
}

// ImageID builds "profile-<userID>-<unix millis>"
func ImageID(userID string, at time.Time) string {
	return fmt.Sprintf("%s%s-%d", imageIDPrefix, userID, at.UnixMilli())
}

// ParseImageID extracts the user id between the prefix and the last hyphen
func ParseImageID(imageID string) (string, bool) {
	if !strings.HasPrefix(imageID, imageIDPrefix) {
		return "", false
	}
	rest := strings.TrimPrefix(imageID, imageIDPrefix)
	idx := strings.LastIndex(rest, "-")
	if idx <= 0 {
		return "", false
	}
	if _, err := strconv.ParseInt(rest[idx+1:], 10, 64); err != nil {
		return "", false
	}
	return rest[:idx], true
}
