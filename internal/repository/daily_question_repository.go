package repository

import (
	"context"
	"time"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

type DailyQuestionRepository interface {
	Create(ctx context.Context, response *models.DailyQuestionResponse) error
	// ListSince returns responses created at or after since, newest first
	ListSince(ctx context.Context, since time.Time) ([]models.DailyQuestionResponse, error)
}

type dailyQuestionRepository struct {
	db *gorm.DB
}

func NewDailyQuestionRepository(db *gorm.DB) DailyQuestionRepository {
	return &dailyQuestionRepository{db: db}
}

func (r *dailyQuestionRepository) Create(ctx context.Context, response *models.DailyQuestionResponse) error {
	if response == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *dailyQuestionRepository) ListSince(ctx context.Context, since time.Time) ([]models.DailyQuestionResponse, error) {
	responses := []models.DailyQuestionResponse{}
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&responses).Error
	return responses, err
}
