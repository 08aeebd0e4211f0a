package repository

import (
	"context"
	"errors"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository handles comments. There is no delete; comments go away with their post.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	Like(ctx context.Context, id string) (*models.Comment, error)
	AddReaction(ctx context.Context, id, emoji string) (*models.Comment, error)
	RemoveReaction(ctx context.Context, id, emoji string) (*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a comment after checking that its post still exists
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment == nil || comment.PostID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getPost(tx, comment.PostID); err != nil {
			return err
		}
		return tx.Create(comment).Error
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return getComment(r.db.WithContext(ctx), id)
}

func getComment(db *gorm.DB, id string) (*models.Comment, error) {
	var comment models.Comment
	err := db.Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments oldest first
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) Like(ctx context.Context, id string) (*models.Comment, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCommentNotFound
	}
	return getComment(db, id)
}

func (r *commentRepository) AddReaction(ctx context.Context, id, emoji string) (*models.Comment, error) {
	return r.mutateReactions(ctx, id, func(rx models.Reactions) models.Reactions { return rx.Add(emoji) })
}

func (r *commentRepository) RemoveReaction(ctx context.Context, id, emoji string) (*models.Comment, error) {
	return r.mutateReactions(ctx, id, func(rx models.Reactions) models.Reactions { return rx.Remove(emoji) })
}

func (r *commentRepository) mutateReactions(ctx context.Context, id string, fn func(models.Reactions) models.Reactions) (*models.Comment, error) {
	var comment *models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getComment(tx, id)
		if err != nil {
			return err
		}
		c.Reactions = fn(c.Reactions)
		if err := tx.Model(&models.Comment{}).Where("id = ?", id).UpdateColumn("reactions", c.Reactions).Error; err != nil {
			return err
		}
		comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
