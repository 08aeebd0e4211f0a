package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/util"
	"github.com/localfeat/backend/internal/validation"
)

// FeedbackRequest is the body of POST /api/feedback
type FeedbackRequest struct {
	Type    string `json:"type" binding:"required,oneof=feature bug"`
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// SubmitFeedback stores a bug report or feature request; signing in is optional
// POST /api/feedback
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid feedback data", err)
		return
	}

	if result := validation.ValidateContent(req.Content); !result.IsValid {
		metrics.Get().App.ContentRejected.WithLabelValues("feedback").Inc()
		util.RespondContentBlocked(c, result.Message)
		return
	}

	feedback := &models.Feedback{
		Type:    req.Type,
		Content: req.Content,
	}
	if user, ok := util.OptionalUser(c); ok {
		info := fmt.Sprintf("%s (%s)", user.Username, user.Email)
		feedback.UserID = &user.ID
		feedback.UserInfo = &info
	}

	if err := h.repos.Feedback.Create(c.Request.Context(), feedback); err != nil {
		util.RespondInternalError(c, "Failed to submit feedback", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Feedback submitted successfully",
		"id":      feedback.ID,
	})
}
