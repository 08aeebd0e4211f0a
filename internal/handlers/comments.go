package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/telemetry"
	"github.com/localfeat/backend/internal/util"
	"github.com/localfeat/backend/internal/validation"
)

// CreateCommentRequest is the body of POST /api/comments
type CreateCommentRequest struct {
	PostID         string `json:"postId" binding:"required"`
	Content        string `json:"content" binding:"required,min=1,max=500"`
	AuthorName     string `json:"authorName" binding:"required,max=100"`
	AuthorInitials string `json:"authorInitials" binding:"required,max=4"`
}

// GetComments lists a post's comments, oldest first
// GET /api/posts/:id/comments
func (h *Handlers) GetComments(c *gin.Context) {
	comments, err := h.repos.Comments.ListByPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch comments", err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment to an existing post
// POST /api/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid comment data", err)
		return
	}

	if result := validation.ValidateContent(req.Content); !result.IsValid {
		metrics.Get().App.ContentRejected.WithLabelValues("comment").Inc()
		util.RespondContentBlocked(c, result.Message)
		return
	}

	comment := &models.Comment{
		PostID:         req.PostID,
		Content:        req.Content,
		AuthorID:       userID,
		AuthorName:     req.AuthorName,
		AuthorInitials: req.AuthorInitials,
	}
	if err := h.repos.Comments.Create(c.Request.Context(), comment); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			util.RespondNotFound(c, "Post")
			return
		}
		util.RespondInternalError(c, "Failed to create comment", err)
		return
	}

	metrics.Get().App.CommentsTotal.Inc()
	logger.Log.Debug("Comment created", logger.WithCommentID(comment.ID), logger.WithPostID(comment.PostID))
	c.JSON(http.StatusCreated, comment)
}

// LikeComment increments a comment's like counter
// POST /api/comments/:id/like
func (h *Handlers) LikeComment(c *gin.Context) {
	comment, err := h.repos.Comments.Like(c.Request.Context(), c.Param("id"))
	if util.HandleDBError(c, err, "Comment", repository.ErrCommentNotFound) {
		return
	}
	metrics.Get().App.LikesTotal.WithLabelValues("comment").Inc()
	c.JSON(http.StatusOK, comment)
}

// AddCommentReaction adds one emoji reaction to a comment
// POST /api/comments/:id/reactions
func (h *Handlers) AddCommentReaction(c *gin.Context) {
	h.mutateCommentReaction(c, "add", h.repos.Comments.AddReaction)
}

// RemoveCommentReaction removes one emoji reaction from a comment
// DELETE /api/comments/:id/reactions
func (h *Handlers) RemoveCommentReaction(c *gin.Context) {
	h.mutateCommentReaction(c, "remove", h.repos.Comments.RemoveReaction)
}

func (h *Handlers) mutateCommentReaction(c *gin.Context, action string, mutate func(ctx context.Context, id, emoji string) (*models.Comment, error)) {
	emoji, ok := bindEmoji(c)
	if !ok {
		return
	}
	commentID := c.Param("id")

	ctx, span := telemetry.GetEvents().TraceReaction(c.Request.Context(), "comment", commentID, action, emoji)
	comment, err := mutate(ctx, commentID, emoji)
	telemetry.EndSpan(span, err)
	if util.HandleDBError(c, err, "Comment", repository.ErrCommentNotFound) {
		return
	}

	metrics.Get().App.ReactionsTotal.WithLabelValues("comment", action).Inc()
	c.JSON(http.StatusOK, comment)
}
