package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/localfeat/backend/internal/models"
	"gorm.io/gorm"
)

// BlogRepository handles published articles
type BlogRepository interface {
	Create(ctx context.Context, post *models.BlogPost) error
	// List returns published posts newest first, optionally restricted to a tag
	List(ctx context.Context, tag string, limit, offset int) ([]models.BlogPost, error)
	ListFeatured(ctx context.Context, limit int) ([]models.BlogPost, error)
	// ViewBySlug returns a published post and increments its view counter
	ViewBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	if post == nil || post.Slug == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *blogRepository) List(ctx context.Context, tag string, limit, offset int) ([]models.BlogPost, error) {
	query := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC")

	if tag == "" {
		posts := []models.BlogPost{}
		err := query.Limit(limit).Offset(offset).Find(&posts).Error
		return posts, err
	}

	// tags are a JSON list; match membership here so postgres and sqlite agree
	var all []models.BlogPost
	if err := query.Find(&all).Error; err != nil {
		return nil, err
	}
	tagged := []models.BlogPost{}
	for _, p := range all {
		if hasTag(p.Tags, tag) {
			tagged = append(tagged, p)
		}
	}
	if offset >= len(tagged) {
		return []models.BlogPost{}, nil
	}
	end := offset + limit
	if end > len(tagged) {
		end = len(tagged)
	}
	return tagged[offset:end], nil
}

func hasTag(tags models.StringList, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (r *blogRepository) ListFeatured(ctx context.Context, limit int) ([]models.BlogPost, error) {
	posts := []models.BlogPost{}
	err := r.db.WithContext(ctx).
		Where("published = ? AND featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *blogRepository) ViewBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("slug = ? AND published = ?", slug, true).First(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogPostNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&models.BlogPost{}).
			Where("id = ?", post.ID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
			return err
		}
		post.ViewCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}
