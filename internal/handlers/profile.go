package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/localfeat/backend/internal/errors"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/storage"
	"github.com/localfeat/backend/internal/util"
)

// ProfileRequest is the body of POST /api/profile and PUT /api/profile/:userId.
// Nil fields are left unchanged on update.
type ProfileRequest struct {
	DisplayName     *string `json:"displayName" binding:"omitempty,min=1,max=50"`
	Bio             *string `json:"bio" binding:"omitempty,max=100"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// UploadImageRequest carries a base64 image, optionally as a data: URL
type UploadImageRequest struct {
	ImageData string `json:"imageData"`
	ImageType string `json:"imageType"`
}

// GetProfile returns a user's profile
// GET /api/profile/:userId
func (h *Handlers) GetProfile(c *gin.Context) {
	profile, err := h.repos.Profiles.GetByUserID(c.Request.Context(), c.Param("userId"))
	if util.HandleDBError(c, err, "Profile", repository.ErrProfileNotFound) {
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateProfile creates the caller's profile
// POST /api/profile
func (h *Handlers) CreateProfile(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid profile data", err)
		return
	}

	profile := &models.UserProfile{
		UserID:          userID,
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
	}
	if err := h.repos.Profiles.Create(c.Request.Context(), profile); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			util.RespondWithAPIError(c, apierrors.Conflict("Profile already exists"))
			return
		}
		util.RespondInternalError(c, "Failed to create profile", err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// UpdateProfile applies a partial update to the caller's own profile
// PUT /api/profile/:userId
func (h *Handlers) UpdateProfile(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	if c.Param("userId") != userID {
		util.RespondForbidden(c, "Unauthorized")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid profile data", err)
		return
	}

	profile, err := h.repos.Profiles.Update(c.Request.Context(), userID, repository.ProfileUpdate{
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
	})
	if util.HandleDBError(c, err, "Profile", repository.ErrProfileNotFound) {
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadProfileImage stores the caller's profile picture and returns its URL
// POST /api/upload/profile-image
func (h *Handlers) UploadProfileImage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageData == "" || req.ImageType == "" {
		util.RespondBadRequest(c, "Image data and type are required")
		return
	}

	url, err := h.images.Upload(c.Request.Context(), userID, req.ImageData, req.ImageType)
	switch {
	case errors.Is(err, storage.ErrInvalidImageType):
		util.RespondValidationError(c, "imageType", "Invalid image type")
		return
	case errors.Is(err, storage.ErrImageTooLarge):
		util.RespondValidationError(c, "imageData", "Image too large. Maximum size is 5MB")
		return
	case errors.Is(err, storage.ErrInvalidImageData):
		util.RespondValidationError(c, "imageData", "Invalid image data")
		return
	case err != nil:
		util.RespondInternalError(c, "Failed to upload image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

// ServeProfileImage serves an inline-stored profile picture
// GET /api/profile/image/:imageId
func (h *Handlers) ServeProfileImage(c *gin.Context) {
	imageID := c.Param("imageId")
	if _, ok := storage.ParseImageID(imageID); !ok {
		util.RespondWithAPIError(c, apierrors.NotFound("Image").WithDetails("Invalid image ID"))
		return
	}

	data, contentType, err := h.images.Load(c.Request.Context(), imageID)
	if errors.Is(err, storage.ErrImageNotFound) {
		util.RespondNotFound(c, "Image")
		return
	}
	if err != nil {
		util.RespondInternalError(c, "Failed to load image", err)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, data)
}
