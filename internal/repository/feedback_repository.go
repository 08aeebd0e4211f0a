package repository

import (
	"context"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByStatus(ctx context.Context, status string, limit int) ([]models.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) ListByStatus(ctx context.Context, status string, limit int) ([]models.Feedback, error) {
	items := []models.Feedback{}
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
