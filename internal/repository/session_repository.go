package repository

import (
	"context"
	"errors"
	"time"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

// SessionRepository persists login sessions for the database-backed session store
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	// GetActive returns the session when it exists and has not expired
	GetActive(ctx context.Context, id string, now time.Time) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session == nil || session.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetActive(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, now).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
