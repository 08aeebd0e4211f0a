package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/util"
	"github.com/localfeat/backend/internal/validation"
)

// CreateConversationRequest is the body of POST /api/conversations
type CreateConversationRequest struct {
	ParticipantID string `json:"participantId"`
}

// SendMessageRequest is the body of POST /api/messages
type SendMessageRequest struct {
	ConversationID string `json:"conversationId" binding:"required"`
	Content        string `json:"content" binding:"required,min=1,max=1000"`
}

// CreateConversation returns the existing thread between the two users or starts one
// POST /api/conversations
func (h *Handlers) CreateConversation(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ParticipantID) == "" {
		util.RespondValidationError(c, "participantId", "Participant ID is required")
		return
	}

	conv, created, err := h.repos.Conversations.GetOrCreate(c.Request.Context(), userID, req.ParticipantID)
	if err != nil {
		util.RespondInternalError(c, "Failed to create conversation", err)
		return
	}
	if created {
		logger.Log.Info("Conversation started", logger.WithConversationID(conv.ID), logger.WithUserID(userID))
	}
	c.JSON(http.StatusOK, conv)
}

// GetConversations lists the caller's conversations, newest first
// GET /api/conversations
func (h *Handlers) GetConversations(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	convs, err := h.repos.Conversations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch conversations", err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// loadConversationFor fetches a conversation and checks the caller is in it
func (h *Handlers) loadConversationFor(c *gin.Context, conversationID, userID string) (*models.Conversation, bool) {
	conv, err := h.repos.Conversations.GetByID(c.Request.Context(), conversationID)
	if util.HandleDBError(c, err, "Conversation", repository.ErrConversationNotFound) {
		return nil, false
	}
	if !conv.HasParticipant(userID) {
		util.RespondForbidden(c, "You are not a participant in this conversation")
		return nil, false
	}
	return conv, true
}

// GetMessages lists a conversation's messages, oldest first
// GET /api/conversations/:id/messages
func (h *Handlers) GetMessages(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	conv, ok := h.loadConversationFor(c, c.Param("id"), userID)
	if !ok {
		return
	}

	messages, err := h.repos.Conversations.ListMessages(c.Request.Context(), conv.ID)
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch messages", err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage posts a message into a conversation the caller belongs to
// POST /api/messages
func (h *Handlers) SendMessage(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBindError(c, "Invalid message data", err)
		return
	}

	if result := validation.ValidateContent(req.Content); !result.IsValid {
		metrics.Get().App.ContentRejected.WithLabelValues("message").Inc()
		util.RespondContentBlocked(c, result.Message)
		return
	}

	conv, ok := h.loadConversationFor(c, req.ConversationID, userID)
	if !ok {
		return
	}

	message := &models.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        req.Content,
	}
	if err := h.repos.Conversations.CreateMessage(c.Request.Context(), message); err != nil {
		util.RespondInternalError(c, "Failed to send message", err)
		return
	}

	metrics.Get().App.MessagesTotal.Inc()
	c.JSON(http.StatusCreated, message)
}
