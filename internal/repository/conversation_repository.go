package repository

import (
	"context"
	"errors"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository handles direct conversations and their messages
type ConversationRepository interface {
	// GetOrCreate returns the conversation between a and b in either order, creating it if needed.
	// The bool reports whether a new conversation was created.
	GetOrCreate(ctx context.Context, a, b string) (*models.Conversation, bool, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)

	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, a, b string) (*models.Conversation, bool, error) {
	if a == "" || b == "" {
		return nil, false, ErrInvalidInput
	}

	var conv models.Conversation
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("(participant1_id = ? AND participant2_id = ?) OR (participant1_id = ? AND participant2_id = ?)", a, b, b, a).
			Order("created_at ASC").
			First(&conv).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		conv = models.Conversation{Participant1ID: a, Participant2ID: b}
		created = true
		return tx.Create(&conv).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &conv, created, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListForUser returns the user's conversations newest first
func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	convs := []models.Conversation{}
	err := r.db.WithContext(ctx).
		Where("participant1_id = ? OR participant2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&convs).Error
	return convs, err
}

func (r *conversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if message == nil || message.ConversationID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessages returns messages oldest first
func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
