// Package container wires LocalFeat's services from configuration and owns their shutdown.
// The server and the admin CLI both build one.
package container

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/localfeat/backend/internal/activitybot"
	"github.com/localfeat/backend/internal/auth"
	"github.com/localfeat/backend/internal/cache"
	"github.com/localfeat/backend/internal/config"
	"github.com/localfeat/backend/internal/email"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/seed"
	"github.com/localfeat/backend/internal/storage"
	"github.com/localfeat/backend/internal/sweeper"
	"github.com/localfeat/backend/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const emailFromName = "LocalFeat"

// InitializationError lists the dependencies Validate found missing
type InitializationError struct {
	Message     string
	MissingDeps []string
}

func (e *InitializationError) Error() string {
	if len(e.MissingDeps) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.MissingDeps, ", "))
}

// Container holds the application's long-lived services
type Container struct {
	cfg *config.Config

	// Core infrastructure
	db    *gorm.DB
	cache *cache.RedisClient
	repos *repository.Repositories

	// Accounts
	auth     *auth.Service
	sessions auth.SessionStore
	google   *auth.GoogleProvider
	mailer   email.Sender
	images   *storage.ProfileImages
	s3       *storage.S3Uploader

	// Background work
	bot     *activitybot.Bot
	seeder  *seed.Seeder
	sweeper *sweeper.Service

	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// New creates an empty container for cfg
func New(cfg *config.Config) *Container {
	return &Container{
		cfg:          cfg,
		cleanupFuncs: make([]func(context.Context) error, 0),
	}
}

// Build wires every service on top of an open database. Optional integrations
// (S3, SES, Google) fall back to local behavior when unconfigured or unreachable;
// a configured Redis session store that cannot connect is an error.
func Build(cfg *config.Config, db *gorm.DB) (*Container, error) {
	c := New(cfg).SetDB(db)

	c.repos = repository.NewRepositories(db, repository.PostRepositoryOptions{
		TTL:               cfg.Feed.PostTTL,
		BoundingPrefilter: cfg.Feed.BoundingPrefilter,
	})
	c.auth = auth.NewService(c.repos.Users, c.repos.PasswordResets)

	if err := c.buildSessions(); err != nil {
		return nil, err
	}
	c.google = auth.NewGoogleProvider(cfg.GoogleOAuthConfig(), cfg.Session.Secret)
	c.mailer = c.buildMailer()
	c.images = storage.NewProfileImages(c.buildUploader(), c.repos.Profiles)

	botOpts := activitybot.DefaultOptions()
	if cfg.Bot.BaseLat != 0 || cfg.Bot.BaseLng != 0 {
		botOpts.Latitude, botOpts.Longitude = cfg.Bot.BaseLat, cfg.Bot.BaseLng
	}
	if cfg.Bot.PostDelay > 0 {
		botOpts.PostDelay = cfg.Bot.PostDelay
	}
	c.bot = activitybot.NewBot(c.repos.Posts, c.repos.Comments, c.repos.DailyQuestions, botOpts)
	c.seeder = seed.NewSeeder(c.repos.Users, c.repos.Profiles, c.repos.Posts, uint64(time.Now().UnixNano()))

	c.sweeper = sweeper.NewService(cfg.Feed.SweepInterval,
		sweeper.Target{Name: "posts", Deleter: c.repos.Posts},
		sweeper.Target{Name: "sessions", Deleter: c.repos.Sessions},
		sweeper.Target{Name: "password_resets", Deleter: c.repos.PasswordResets},
	)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) buildSessions() error {
	switch c.cfg.Session.Store {
	case "redis":
		client, err := cache.NewRedisClient(c.cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis session store: %w", err)
		}
		c.SetCache(client)
		c.OnCleanup(func(context.Context) error { return client.Close() })
		c.sessions = auth.NewRedisSessionStore(client, c.cfg.Session.TTL)
	case "memory":
		c.sessions = auth.NewMemorySessionStore(c.cfg.Session.TTL)
	default:
		c.sessions = auth.NewDBSessionStore(c.repos.Sessions, c.cfg.Session.TTL)
	}
	logger.Log.Info("Session store ready", zap.String("store", c.cfg.Session.Store))
	return nil
}

func (c *Container) buildMailer() email.Sender {
	fallback := email.LogSender{BaseURL: c.cfg.Email.AppBaseURL}
	if c.cfg.Email.FromAddress == "" || c.cfg.Storage.Region == "" {
		logger.Log.Info("SES not configured, password reset links will be logged")
		return fallback
	}
	sender, err := email.NewEmailService(c.cfg.Storage.Region, c.cfg.Email.FromAddress, emailFromName, c.cfg.Email.AppBaseURL)
	if err != nil {
		logger.Log.Warn("SES unavailable, password reset links will be logged", zap.Error(err))
		return fallback
	}
	return sender
}

func (c *Container) buildUploader() storage.ProfileImageUploader {
	if !c.cfg.Storage.S3Enabled() {
		return nil
	}
	uploader, err := storage.NewS3Uploader(c.cfg.Storage.Region, c.cfg.Storage.Bucket, c.cfg.Storage.CDNBaseURL)
	if err != nil {
		logger.Log.Warn("S3 unavailable, storing profile images inline", zap.Error(err))
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := uploader.CheckBucketAccess(ctx); err != nil {
		logger.Log.Warn("S3 bucket access failed, storing profile images inline", zap.Error(err))
		return nil
	}
	c.s3 = uploader
	return uploader
}

// SetDB registers the database connection
func (c *Container) SetDB(db *gorm.DB) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = db
	return c
}

func (c *Container) DB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// SetCache registers the Redis client
func (c *Container) SetCache(client *cache.RedisClient) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = client
	return c
}

// Cache returns the Redis client, or nil when sessions are not in Redis
func (c *Container) Cache() *cache.RedisClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache
}

func (c *Container) Config() *config.Config {
	return c.cfg
}

func (c *Container) Repositories() *repository.Repositories {
	return c.repos
}

func (c *Container) Auth() *auth.Service {
	return c.auth
}

func (c *Container) Sessions() auth.SessionStore {
	return c.sessions
}

// Google returns nil when Google sign-in is not configured
func (c *Container) Google() *auth.GoogleProvider {
	return c.google
}

func (c *Container) Mailer() email.Sender {
	return c.mailer
}

func (c *Container) ProfileImages() *storage.ProfileImages {
	return c.images
}

func (c *Container) Bot() *activitybot.Bot {
	return c.bot
}

func (c *Container) Seeder() *seed.Seeder {
	return c.seeder
}

func (c *Container) Sweeper() *sweeper.Service {
	return c.sweeper
}

// OnCleanup registers a function to run during shutdown.
// Cleanup functions run in LIFO order.
func (c *Container) OnCleanup(fn func(context.Context) error) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
	return c
}

// Cleanup runs every registered cleanup function, newest first, logging failures
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	funcs := c.cleanupFuncs
	c.cleanupFuncs = nil
	c.mu.Unlock()

	var failed int
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			failed++
			logger.Log.Error("Cleanup function failed", zap.Int("index", i), zap.Error(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d cleanup functions failed", failed)
	}
	return nil
}

// Validate checks that the required services are present
// ServiceChecks returns a probe per external dependency this container talks to,
// for validation.ServiceValidator.
func (c *Container) ServiceChecks() map[string]validation.Check {
	c.mu.RLock()
	defer c.mu.RUnlock()

	checks := map[string]validation.Check{}
	if db := c.db; db != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if client := c.cache; client != nil {
		checks["redis"] = client.Ping
	}
	if c.cfg.Storage.S3Enabled() {
		uploader := c.s3
		checks["s3"] = func(ctx context.Context) error {
			if uploader == nil {
				return fmt.Errorf("bucket %s unreachable at startup", c.cfg.Storage.Bucket)
			}
			return uploader.CheckBucketAccess(ctx)
		}
	}
	return checks
}

func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	missing := []string{}
	if c.db == nil {
		missing = append(missing, "database")
	}
	if c.repos == nil {
		missing = append(missing, "repositories")
	}
	if c.auth == nil {
		missing = append(missing, "auth service")
	}
	if c.sessions == nil {
		missing = append(missing, "session store")
	}

	if len(missing) > 0 {
		return &InitializationError{Message: "Missing required dependencies", MissingDeps: missing}
	}
	return nil
}
