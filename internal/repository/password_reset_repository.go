package repository

import (
	"context"
	"errors"
	"time"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

// PasswordResetRepository stores single-use reset tokens
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	// GetValid returns an unused, unexpired token or ErrResetTokenInvalid
	GetValid(ctx context.Context, token string, now time.Time) (*models.PasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	if reset == nil || reset.Token == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(reset).Error
}

func (r *passwordResetRepository) GetValid(ctx context.Context, token string, now time.Time) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := r.db.WithContext(ctx).
		Where("token = ? AND used = ? AND expires_at > ?", token, false, now).
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResetTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordReset{}).
		Where("id = ?", id).
		Update("used", true).Error
}

// DeleteExpired drops expired tokens and tokens that were already used
func (r *passwordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ? OR used = ?", now, true).
		Delete(&models.PasswordReset{})
	return result.RowsAffected, result.Error
}
