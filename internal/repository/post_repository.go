package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localfeat/backend/internal/feed"
	"github.com/localfeat/backend/internal/geo"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostRepository handles all database operations for posts
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	CreateBatch(ctx context.Context, posts []*models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// ListNearby sweeps expired posts, then returns the geofenced, filtered page
	ListNearby(ctx context.Context, q feed.Query) ([]models.Post, error)
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)

	Like(ctx context.Context, id string) (*models.Post, error)
	AddReaction(ctx context.Context, id, emoji string) (*models.Post, error)
	RemoveReaction(ctx context.Context, id, emoji string) (*models.Post, error)

	// Delete removes the post and its comments
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	CountByAuthorPrefix(ctx context.Context, prefix string) (int64, error)
}

// PostRepositoryOptions tune post lifetime and the feed read path
type PostRepositoryOptions struct {
	TTL               time.Duration
	BoundingPrefilter bool
	Now               func() time.Time
}

type postRepository struct {
	db   *gorm.DB
	opts PostRepositoryOptions
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB, opts PostRepositoryOptions) PostRepository {
	if opts.TTL <= 0 {
		opts.TTL = models.DefaultPostTTL
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &postRepository{db: db, opts: opts}
}

func (r *postRepository) prepare(post *models.Post) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.opts.Now()
	}
	if post.ExpiresAt.IsZero() {
		post.ExpiresAt = post.CreatedAt.Add(r.opts.TTL)
	}
}

// Create inserts a post, defaulting ExpiresAt to CreatedAt plus the configured TTL
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post == nil {
		return ErrInvalidInput
	}
	r.prepare(post)
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) CreateBatch(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	for _, p := range posts {
		r.prepare(p)
	}
	return r.db.WithContext(ctx).CreateInBatches(posts, 100).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return getPost(r.db.WithContext(ctx), id)
}

func getPost(db *gorm.DB, id string) (*models.Post, error) {
	var post models.Post
	err := db.Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListNearby(ctx context.Context, q feed.Query) ([]models.Post, error) {
	now := r.opts.Now()

	if n, err := r.DeleteExpired(ctx, now); err != nil {
		logger.Log.Error("Inline expiry sweep failed", zap.Error(err))
	} else if n > 0 {
		logger.Log.Debug("Inline expiry sweep removed posts", zap.Int64("count", n))
	}

	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("expires_at > ?", now)

	if r.opts.BoundingPrefilter {
		box := geo.BoundingBoxAround(q.Latitude, q.Longitude, q.RadiusKm)
		query = query.Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
		if box.HasLongitude {
			query = query.Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
		}
	}

	var candidates []models.Post
	if err := query.Order("created_at DESC").Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to load feed candidates: %w", err)
	}

	metrics.Get().App.FeedCandidateCount.Observe(float64(len(candidates)))

	filtered := feed.Filter(candidates, q, now)
	return feed.Paginate(filtered, q.Limit, q.Offset), nil
}

// ListRecent returns unexpired posts newest first
func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("expires_at > ?", r.opts.Now()).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Like increments the like counter in place
func (r *postRepository) Like(ctx context.Context, id string) (*models.Post, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	return getPost(db, id)
}

func (r *postRepository) AddReaction(ctx context.Context, id, emoji string) (*models.Post, error) {
	return r.mutateReactions(ctx, id, func(rx models.Reactions) models.Reactions { return rx.Add(emoji) })
}

func (r *postRepository) RemoveReaction(ctx context.Context, id, emoji string) (*models.Post, error) {
	return r.mutateReactions(ctx, id, func(rx models.Reactions) models.Reactions { return rx.Remove(emoji) })
}

// mutateReactions is a plain read-modify-write; concurrent writers may lose updates
func (r *postRepository) mutateReactions(ctx context.Context, id string, fn func(models.Reactions) models.Reactions) (*models.Post, error) {
	var post *models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getPost(tx, id)
		if err != nil {
			return err
		}
		p.Reactions = fn(p.Reactions)
		if err := tx.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("reactions", p.Reactions).Error; err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

// DeleteExpired hard-deletes every post with expires_at <= now together with its comments
func (r *postRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired := tx.Model(&models.Post{}).Select("id").Where("expires_at <= ?", now)
		if err := tx.Where("post_id IN (?)", expired).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of expired posts: %w", err)
		}
		result := tx.Where("expires_at <= ?", now).Delete(&models.Post{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete expired posts: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *postRepository) CountByAuthorPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}
