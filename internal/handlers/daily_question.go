package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/util"
)

// DailyResponseRequest is the body of POST /api/daily-question/responses
type DailyResponseRequest struct {
	Question string  `json:"question"`
	Response string  `json:"response"`
	Location *string `json:"location"`
}

// CreateDailyResponse records the caller's answer to today's question
// POST /api/daily-question/responses
func (h *Handlers) CreateDailyResponse(c *gin.Context) {
	user, ok := util.OptionalUser(c)
	if !ok {
		util.RespondUnauthorized(c, "User not found")
		return
	}

	var req DailyResponseRequest
	_ = c.ShouldBindJSON(&req)
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Response)
	if question == "" || answer == "" {
		util.RespondBadRequest(c, "Question and response are required")
		return
	}

	location := "Unknown"
	if req.Location != nil && strings.TrimSpace(*req.Location) != "" {
		location = strings.TrimSpace(*req.Location)
	}

	response := &models.DailyQuestionResponse{
		Question:   question,
		Response:   answer,
		AuthorID:   user.ID,
		AuthorName: dailyAuthorName(user),
		Location:   &location,
	}
	if err := h.repos.DailyQuestions.Create(c.Request.Context(), response); err != nil {
		util.RespondInternalError(c, "Failed to save response", err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func dailyAuthorName(user *models.User) string {
	if user.FirstName != nil && *user.FirstName != "" {
		return *user.FirstName
	}
	if user.Username != "" {
		return user.Username
	}
	return "Anonymous"
}

// GetDailyResponses lists today's (UTC) answers, newest first
// GET /api/daily-question/responses
func (h *Handlers) GetDailyResponses(c *gin.Context) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	responses, err := h.repos.DailyQuestions.ListSince(c.Request.Context(), startOfDay)
	if err != nil {
		util.RespondInternalError(c, "Failed to fetch responses", err)
		return
	}
	c.JSON(http.StatusOK, responses)
}
