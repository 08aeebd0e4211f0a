package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/localfeat/backend/internal/errors"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/seed"
	"github.com/localfeat/backend/internal/util"
	"go.uber.org/zap"
)

// BotLocationRequest optionally moves the bot before it acts
type BotLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// CreateBotsRequest is the body of POST /api/admin/create-bots
type CreateBotsRequest struct {
	Count     int `json:"count" binding:"omitempty,min=1,max=100000"`
	BatchSize int `json:"batchSize" binding:"omitempty,min=1,max=1000"`
}

func (h *Handlers) requireBot(c *gin.Context) bool {
	if h.bot == nil {
		util.RespondWithAPIError(c, apierrors.ServiceUnavailable("Activity bot"))
		return false
	}
	return true
}

// applyBotLocation reads an optional body and moves the bot when both coordinates are present
func (h *Handlers) applyBotLocation(c *gin.Context) bool {
	var req BotLocationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondBindError(c, "Invalid coordinates", err)
			return false
		}
	}
	if req.Latitude != nil && req.Longitude != nil {
		h.bot.SetLocation(*req.Latitude, *req.Longitude)
	}
	return true
}

// SeedActivity starts a seeding run in the background
// POST /api/admin/seed-activity
func (h *Handlers) SeedActivity(c *gin.Context) {
	if !h.requireBot(c) || !h.applyBotLocation(c) {
		return
	}

	h.bot.SeedInBackground()
	util.RespondMessage(c, "Activity seeding started")
}

// CreateBotPost makes the bot post once, right now
// POST /api/admin/bot-post
func (h *Handlers) CreateBotPost(c *gin.Context) {
	if !h.requireBot(c) || !h.applyBotLocation(c) {
		return
	}

	if _, err := h.bot.CreatePost(c.Request.Context()); err != nil {
		util.RespondInternalError(c, "Failed to create bot post", err)
		return
	}
	util.RespondMessage(c, "Bot post created successfully")
}

// flushWriter pushes each progress line to the client as it is written
type flushWriter struct {
	w gin.ResponseWriter
}

func (f flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	f.w.Flush()
	return n, err
}

// CreateBots bulk-creates bot users, profiles and posts, streaming plain-text progress
// POST /api/admin/create-bots
func (h *Handlers) CreateBots(c *gin.Context) {
	if h.seeder == nil {
		util.RespondWithAPIError(c, apierrors.ServiceUnavailable("Bot seeder"))
		return
	}

	var req CreateBotsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondBindError(c, "Invalid bot creation request", err)
			return
		}
	}
	if req.Count == 0 {
		req.Count = seed.DefaultBotCount
	}
	if req.BatchSize == 0 {
		req.BatchSize = seed.DefaultBatchSize
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	out := flushWriter{w: c.Writer}
	if _, err := h.seeder.CreateBots(c.Request.Context(), req.Count, req.BatchSize, out); err != nil {
		logger.Log.Error("Bot creation failed", zap.Error(err))
		_, _ = out.Write([]byte("\nERROR: " + err.Error() + "\n"))
	}
}

// BotStatus reports how many bot accounts and posts exist
// GET /api/admin/bot-status
func (h *Handlers) BotStatus(c *gin.Context) {
	if h.seeder == nil {
		util.RespondWithAPIError(c, apierrors.ServiceUnavailable("Bot seeder"))
		return
	}

	status, err := h.seeder.Status(c.Request.Context())
	if err != nil {
		util.RespondInternalError(c, "Failed to get bot status", err)
		return
	}
	c.JSON(http.StatusOK, status)
}
