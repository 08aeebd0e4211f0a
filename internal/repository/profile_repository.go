package repository

import (
	"context"
	"errors"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileUpdate carries the optional fields of a partial profile update
type ProfileUpdate struct {
	DisplayName     *string
	Bio             *string
	ProfileImageURL *string
}

// ProfileRepository handles user profiles and their inline images
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	CreateBatch(ctx context.Context, profiles []*models.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	Update(ctx context.Context, userID string, update ProfileUpdate) (*models.UserProfile, error)
	// SetImage stores the image reference, creating the profile when the user has none
	SetImage(ctx context.Context, userID, url string, data, contentType *string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UserID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserProfile{}).Where("user_id = ?", profile.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrProfileExists
		}
		return tx.Create(profile).Error
	})
}

func (r *profileRepository) CreateBatch(ctx context.Context, profiles []*models.UserProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(profiles, 100).Error
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	return getProfile(r.db.WithContext(ctx), userID)
}

func getProfile(db *gorm.DB, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, userID string, update ProfileUpdate) (*models.UserProfile, error) {
	var profile *models.UserProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getProfile(tx, userID)
		if err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if update.DisplayName != nil {
			changes["display_name"] = *update.DisplayName
		}
		if update.Bio != nil {
			changes["bio"] = *update.Bio
		}
		if update.ProfileImageURL != nil {
			changes["profile_image_url"] = *update.ProfileImageURL
		}
		if len(changes) > 0 {
			if err := tx.Model(p).Updates(changes).Error; err != nil {
				return err
			}
		}

		profile, err = getProfile(tx, userID)
		return err
	})
	return profile, err
}

func (r *profileRepository) SetImage(ctx context.Context, userID, url string, data, contentType *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getProfile(tx, userID)
		if errors.Is(err, ErrProfileNotFound) {
			return tx.Create(&models.UserProfile{
				UserID:           userID,
				ProfileImageURL:  &url,
				ProfileImageData: data,
				ProfileImageType: contentType,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(p).Updates(map[string]interface{}{
			"profile_image_url":  url,
			"profile_image_data": data,
			"profile_image_type": contentType,
		}).Error
	})
}
