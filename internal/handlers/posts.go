package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/feed"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/telemetry"
	"github.com/localfeat/backend/internal/util"
	"github.com/localfeat/backend/internal/validation"
)

// CreatePostRequest is the body of POST /api/posts
type CreatePostRequest struct {
	Content        string   `json:"content" binding:"required,min=1,max=500"`
	AuthorName     string   `json:"authorName" binding:"required,max=100"`
	AuthorInitials string   `json:"authorInitials" binding:"required,max=4"`
	Latitude       *float64 `json:"latitude" binding:"required,latitude"`
	Longitude      *float64 `json:"longitude" binding:"required,longitude"`
	LocationName   *string  `json:"locationName" binding:"omitempty,max=200"`
	Hashtags       []string `json:"hashtags" binding:"omitempty,max=20,dive,max=50"`
}

// ReactionRequest is the body of the add/remove reaction routes
type ReactionRequest struct {
	Emoji string `json:"emoji"`
}

// GetPosts returns the geofenced feed around the viewer
// GET /api/posts?latitude=&longitude=&hashtag=&search=&limit=&offset=
func (h *Handlers) GetPosts(c *gin.Context) {
	latParam, lngParam := c.Query("latitude"), c.Query("longitude")
	if latParam == "" || lngParam == "" {
		util.RespondBadRequest(c, "Latitude and longitude are required")
		return
	}
	lat, latOK := util.ParseFloat(latParam)
	lng, lngOK := util.ParseFloat(lngParam)
	if !latOK || !lngOK {
		util.RespondBadRequest(c, "Invalid latitude or longitude")
		return
	}

	q := feed.Query{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  FeedRadiusKm,
		Hashtag:   c.Query("hashtag"),
		Search:    strings.TrimSpace(c.Query("search")),
		Limit:     util.ParsePositiveInt(c.Query("limit"), h.feed.DefaultLimit),
		Offset:    util.ParseNonNegativeInt(c.Query("offset"), 0),
	}

	ctx, span := telemetry.GetEvents().TraceFeedRead(c.Request.Context(), telemetry.FeedReadAttrs{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		RadiusKm:  q.RadiusKm,
		Hashtag:   q.Hashtag,
		Search:    q.Search,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	start := time.Now()
	posts, err := h.repos.Posts.ListNearby(ctx, q)
	telemetry.EndSpan(span, err)
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch posts", err)
		return
	}

	m := metrics.Get().App
	m.FeedReadsTotal.WithLabelValues(feedFilterLabel(q)).Inc()
	m.FeedReadDuration.Observe(time.Since(start).Seconds())
	m.FeedResultSize.Observe(float64(len(posts)))

	c.JSON(http.StatusOK, posts)
}

func feedFilterLabel(q feed.Query) string {
	switch {
	case q.Hashtag != "" && q.Search != "":
		return "hashtag_search"
	case q.Hashtag != "":
		return "hashtag"
	case q.Search != "":
		return "search"
	default:
		return "none"
	}
}

// CreatePost stores a post at the author's position
// POST /api/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid post data", err)
		return
	}

	if result := validation.ValidateContent(req.Content); !result.IsValid {
		metrics.Get().App.ContentRejected.WithLabelValues("post").Inc()
		util.RespondContentBlocked(c, result.Message)
		return
	}

	// stored exactly as submitted, order included
	hashtags := models.StringList(req.Hashtags)
	if hashtags == nil {
		hashtags = models.StringList{}
	}

	post := &models.Post{
		Content:        req.Content,
		AuthorID:       userID,
		AuthorName:     req.AuthorName,
		AuthorInitials: req.AuthorInitials,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		LocationName:   req.LocationName,
		Hashtags:       hashtags,
	}

	ctx, span := telemetry.GetEvents().TraceCreatePost(c.Request.Context(), userID, len(hashtags))
	err := h.repos.Posts.Create(ctx, post)
	telemetry.EndSpan(span, err)
	if err != nil {
		util.RespondInternalError(c, "Failed to create post", err)
		return
	}

	metrics.Get().App.PostsCreated.WithLabelValues("user").Inc()
	logger.Log.Info("Post created", logger.WithUserID(userID), logger.WithPostID(post.ID))
	c.JSON(http.StatusCreated, post)
}

// LikePost increments the like counter; there is no unlike
// POST /api/posts/:id/like
func (h *Handlers) LikePost(c *gin.Context) {
	post, err := h.repos.Posts.Like(c.Request.Context(), c.Param("id"))
	if util.HandleDBError(c, err, "Post", repository.ErrPostNotFound) {
		return
	}
	metrics.Get().App.LikesTotal.WithLabelValues("post").Inc()
	c.JSON(http.StatusOK, post)
}

// AddPostReaction adds one emoji reaction
// POST /api/posts/:id/reactions
func (h *Handlers) AddPostReaction(c *gin.Context) {
	h.mutatePostReaction(c, "add", h.repos.Posts.AddReaction)
}

// RemovePostReaction removes one emoji reaction
// DELETE /api/posts/:id/reactions
func (h *Handlers) RemovePostReaction(c *gin.Context) {
	h.mutatePostReaction(c, "remove", h.repos.Posts.RemoveReaction)
}

func (h *Handlers) mutatePostReaction(c *gin.Context, action string, mutate func(ctx context.Context, id, emoji string) (*models.Post, error)) {
	emoji, ok := bindEmoji(c)
	if !ok {
		return
	}
	postID := c.Param("id")

	ctx, span := telemetry.GetEvents().TraceReaction(c.Request.Context(), "post", postID, action, emoji)
	post, err := mutate(ctx, postID, emoji)
	telemetry.EndSpan(span, err)
	if util.HandleDBError(c, err, "Post", repository.ErrPostNotFound) {
		return
	}

	metrics.Get().App.ReactionsTotal.WithLabelValues("post", action).Inc()
	c.JSON(http.StatusOK, post)
}

// bindEmoji reads {emoji} and answers 400 when it is missing or blank
func bindEmoji(c *gin.Context) (string, bool) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Emoji) == "" {
		util.RespondValidationError(c, "emoji", "Valid emoji is required")
		return "", false
	}
	return req.Emoji, true
}

// DeletePost removes the caller's own post and its comments
// DELETE /api/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")

	post, err := h.repos.Posts.GetByID(c.Request.Context(), postID)
	if util.HandleDBError(c, err, "Post", repository.ErrPostNotFound) {
		return
	}
	if post.AuthorID != userID {
		util.RespondForbidden(c, "You can only delete your own posts")
		return
	}

	if err := h.repos.Posts.Delete(c.Request.Context(), postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c, "Failed to delete post", err)
		return
	}

	metrics.Get().App.PostsDeleted.Inc()
	logger.Log.Info("Post deleted", logger.WithUserID(userID), logger.WithPostID(postID))
	util.RespondMessage(c, "Post deleted successfully")
}
