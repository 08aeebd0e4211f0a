package handlers

import (
	"github.com/localfeat/backend/internal/activitybot"
	"github.com/localfeat/backend/internal/auth"
	"github.com/localfeat/backend/internal/email"
	"github.com/localfeat/backend/internal/middleware"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/seed"
	"github.com/localfeat/backend/internal/storage"
)

const (
	// FeedRadiusKm is the fixed visibility radius of GET /api/posts
	FeedRadiusKm     = 1.0
	DefaultFeedLimit = 10
)

// FeedSettings controls the nearby feed query
type FeedSettings struct {
	DefaultLimit int
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	repos    *repository.Repositories
	auth     *auth.Service
	sessions auth.SessionStore
	cookie   middleware.SessionCookie

	feed     FeedSettings
	adminKey string

	google *auth.GoogleProvider
	mailer email.Sender
	images *storage.ProfileImages
	bot    *activitybot.Bot
	seeder *seed.Seeder
}

// NewHandlers creates a new handlers instance. Images default to inline storage
// and reset links are logged until SetMailer is called.
func NewHandlers(repos *repository.Repositories, authService *auth.Service, sessions auth.SessionStore, cookie middleware.SessionCookie) *Handlers {
	return &Handlers{
		repos:    repos,
		auth:     authService,
		sessions: sessions,
		cookie:   cookie,
		feed:     FeedSettings{DefaultLimit: DefaultFeedLimit},
		mailer:   email.LogSender{},
		images:   storage.NewProfileImages(nil, repos.Profiles),
	}
}

// SetFeedSettings overrides the default page size
func (h *Handlers) SetFeedSettings(settings FeedSettings) {
	if settings.DefaultLimit <= 0 {
		settings.DefaultLimit = DefaultFeedLimit
	}
	h.feed = settings
}

// SetAdminKey sets the key required to publish blog posts
func (h *Handlers) SetAdminKey(key string) {
	h.adminKey = key
}

// SetGoogleProvider enables Google sign-in; nil leaves it disabled
func (h *Handlers) SetGoogleProvider(provider *auth.GoogleProvider) {
	h.google = provider
}

// SetMailer sets the password reset email sender
func (h *Handlers) SetMailer(sender email.Sender) {
	if sender != nil {
		h.mailer = sender
	}
}

// SetProfileImages sets the profile image store (S3 or inline)
func (h *Handlers) SetProfileImages(images *storage.ProfileImages) {
	if images != nil {
		h.images = images
	}
}

// SetActivityBot sets the bot driven by the admin routes
func (h *Handlers) SetActivityBot(bot *activitybot.Bot) {
	h.bot = bot
}

// SetSeeder sets the bulk bot creator
func (h *Handlers) SetSeeder(seeder *seed.Seeder) {
	h.seeder = seeder
}
