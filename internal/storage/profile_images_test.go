package storage

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/localfeat/backend/internal/database"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfiles(t *testing.T) repository.ProfileRepository {
	t.Helper()
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	return repository.NewProfileRepository(db)
}

func TestImageIDRoundTrip(t *testing.T) {
	userID := "3f2c9a1e-8d4b-4c7a-9e1f-2b3c4d5e6f70"
	id := ImageID(userID, time.UnixMilli(1700000000123))
	assert.Equal(t, "profile-"+userID+"-1700000000123", id)

	parsed, ok := ParseImageID(id)
	require.True(t, ok)
	assert.Equal(t, userID, parsed)

	for _, bad := range []string{"", "profile-", "avatar-u-1", "profile-u-abc", "profile--123"} {
		_, ok := ParseImageID(bad)
		assert.False(t, ok, bad)
	}
}

func TestProfileImages_InlineUploadAndLoad(t *testing.T) {
	ctx := context.Background()
	images := NewProfileImages(nil, newProfiles(t))
	images.now = func() time.Time { return time.UnixMilli(42) }

	payload := base64.StdEncoding.EncodeToString([]byte("fake-png"))
	url, err := images.Upload(ctx, "user-1", "data:image/png;base64,"+payload, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/api/profile/image/profile-user-1-42", url)
	assert.Equal(t, "inline", images.Backend())

	data, contentType, err := images.Load(ctx, "profile-user-1-42")
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png"), data)
	assert.Equal(t, "image/png", contentType)

	_, _, err = images.Load(ctx, "profile-nobody-42")
	assert.ErrorIs(t, err, ErrImageNotFound)
	_, _, err = images.Load(ctx, "garbage")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestProfileImages_Validation(t *testing.T) {
	ctx := context.Background()
	images := NewProfileImages(nil, newProfiles(t))

	_, err := images.Upload(ctx, "u", "aGVsbG8=", "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidImageType)

	tooBig := strings.Repeat("A", util.MaxProfileImageBytes*4/3+8)
	_, err = images.Upload(ctx, "u", tooBig, "image/png")
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestProfileImages_S3Upload(t *testing.T) {
	ctx := context.Background()
	profiles := newProfiles(t)
	fake := &fakeS3{}
	images := NewProfileImages(&S3Uploader{client: fake, bucket: "b", region: "r", baseURL: "https://cdn.example.com"}, profiles)

	url, err := images.Upload(ctx, "user-1", base64.StdEncoding.EncodeToString([]byte("jpeg")), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/profile-images/user-1/"))
	assert.Equal(t, "s3", images.Backend())

	profile, err := profiles.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, url, *profile.ProfileImageURL)
	assert.Nil(t, profile.ProfileImageData)

	_, err = images.Upload(ctx, "user-1", "not base64!!", "image/jpeg")
	assert.ErrorIs(t, err, ErrInvalidImageData)
}
