package activitybot

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/localfeat/backend/internal/feed"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/telemetry"
	"github.com/localfeat/backend/internal/util"
	"go.uber.org/zap"
)

const (
	// DefaultLatitude and DefaultLongitude place the bot in New York until SetLocation is called
	DefaultLatitude  = 40.7128
	DefaultLongitude = -74.0060

	coordinateJitter = 0.01 // degrees either way, roughly 1km
	engageRadiusKm   = 5
	engagePosts      = 3
	commentChance    = 0.7
	reactionChance   = 0.5
	dailyChance      = 0.3

	minMaintenanceInterval = 2 * time.Hour
	maxMaintenanceInterval = 4 * time.Hour
)

// ErrAlreadyRunning is returned by SeedActivity while another seeding run is active
var ErrAlreadyRunning = errors.New("activity bot is already seeding")

// PostStore is the subset of the post repository the bot needs
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	ListNearby(ctx context.Context, q feed.Query) ([]models.Post, error)
	AddReaction(ctx context.Context, id, emoji string) (*models.Post, error)
}

// CommentCreator stores bot comments
type CommentCreator interface {
	Create(ctx context.Context, comment *models.Comment) error
}

// DailyResponder stores bot answers to the daily question
type DailyResponder interface {
	Create(ctx context.Context, response *models.DailyQuestionResponse) error
}

// Options tune pacing. Zero delays disable waiting, which tests rely on.
type Options struct {
	Latitude  float64
	Longitude float64

	// PostDelay is the minimum pause between seeded posts; the actual pause is 1-4x this
	PostDelay     time.Duration
	CommentDelay  time.Duration
	ReactionDelay time.Duration

	Seed int64
}

// DefaultOptions paces seeding like a real neighborhood: posts 30s-2m apart
func DefaultOptions() Options {
	return Options{
		Latitude:      DefaultLatitude,
		Longitude:     DefaultLongitude,
		PostDelay:     30 * time.Second,
		CommentDelay:  5 * time.Second,
		ReactionDelay: 3 * time.Second,
		Seed:          time.Now().UnixNano(),
	}
}

// Bot generates realistic local activity so a new area does not look empty
type Bot struct {
	posts    PostStore
	comments CommentCreator
	daily    DailyResponder
	opts     Options

	mu      sync.Mutex
	running bool
	lat     float64
	lng     float64
	rng     *rand.Rand

	cancel   context.CancelFunc // maintenance loop
	bgCtx    context.Context
	bgCancel context.CancelFunc // background seeding runs
	wg       sync.WaitGroup
}

// NewBot creates an idle bot
func NewBot(posts PostStore, comments CommentCreator, daily DailyResponder, opts Options) *Bot {
	if opts.Latitude == 0 && opts.Longitude == 0 {
		opts.Latitude, opts.Longitude = DefaultLatitude, DefaultLongitude
	}
	return &Bot{
		posts:    posts,
		comments: comments,
		daily:    daily,
		opts:     opts,
		lat:      opts.Latitude,
		lng:      opts.Longitude,
		rng:      rand.New(rand.NewSource(opts.Seed)),
	}
}

// SetLocation moves the neighborhood the bot posts into
func (b *Bot) SetLocation(latitude, longitude float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lat, b.lng = latitude, longitude
}

// Location returns the current base coordinates
func (b *Bot) Location() (float64, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lat, b.lng
}

// Running reports whether a seeding run is in progress
func (b *Bot) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

func (b *Bot) float64() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Float64()
}

func (b *Bot) intn(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Intn(n)
}

func pick[T any](b *Bot, items []T) T {
	return items[b.intn(len(items))]
}

func (b *Bot) nearbyCoordinates() (float64, float64) {
	lat, lng := b.Location()
	return lat + (b.float64()-0.5)*2*coordinateJitter, lng + (b.float64()-0.5)*2*coordinateJitter
}

func recordAction(action string) {
	metrics.Get().App.BotActionsTotal.WithLabelValues(action).Inc()
}

// CreatePost publishes one post from a random persona near the base location
func (b *Bot) CreatePost(ctx context.Context) (post *models.Post, err error) {
	persona := pick(b, personas)
	ctx, span := telemetry.GetEvents().TraceBotAction(ctx, "post", persona.AuthorID())
	defer func() { telemetry.EndSpan(span, err) }()

	interest := pick(b, persona.Interests)
	templates, ok := postTemplates[interest]
	if !ok {
		templates = postTemplates[fallbackInterest]
	}
	content := pick(b, templates)
	lat, lng := b.nearbyCoordinates()
	location := LocationName(lat, lng)

	post = &models.Post{
		Content:        content,
		AuthorID:       persona.AuthorID(),
		AuthorName:     persona.Name,
		AuthorInitials: persona.Initials,
		Latitude:       lat,
		Longitude:      lng,
		LocationName:   &location,
		Hashtags:       models.StringList(util.ExtractHashtags(content)),
	}
	if err := b.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	recordAction("post")
	metrics.Get().App.PostsCreated.WithLabelValues("bot").Inc()
	logger.Log.Info("Bot created post",
		zap.String("persona", persona.Name),
		logger.WithPostID(post.ID),
		zap.String("location", location),
	)
	return post, nil
}

// CreateComment adds a canned comment from a random persona
func (b *Bot) CreateComment(ctx context.Context, postID string) (comment *models.Comment, err error) {
	persona := pick(b, personas)
	ctx, span := telemetry.GetEvents().TraceBotAction(ctx, "comment", persona.AuthorID())
	defer func() { telemetry.EndSpan(span, err) }()

	comment = &models.Comment{
		PostID:         postID,
		Content:        pick(b, commentTemplates),
		AuthorID:       persona.AuthorID(),
		AuthorName:     persona.Name,
		AuthorInitials: persona.Initials,
	}
	if err := b.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	recordAction("comment")
	logger.Log.Info("Bot commented", zap.String("persona", persona.Name), logger.WithPostID(postID))
	return comment, nil
}

// AddReaction adds a random emoji to the post
func (b *Bot) AddReaction(ctx context.Context, postID string) (err error) {
	emoji := pick(b, reactionEmojis)
	ctx, span := telemetry.GetEvents().TraceBotAction(ctx, "reaction", "")
	defer func() { telemetry.EndSpan(span, err) }()

	if _, err := b.posts.AddReaction(ctx, postID, emoji); err != nil {
		return err
	}
	recordAction("reaction")
	logger.Log.Info("Bot added reaction", zap.String("emoji", emoji), logger.WithPostID(postID))
	return nil
}

// RespondToDailyQuestion stores a persona's keyword-matched answer to question
func (b *Bot) RespondToDailyQuestion(ctx context.Context, question string) (*models.DailyQuestionResponse, error) {
	persona := pick(b, personas)
	lat, lng := b.Location()
	location := LocationName(lat, lng)

	response := &models.DailyQuestionResponse{
		Question:   question,
		Response:   dailyAnswer(persona, question, pick(b, genericResponses)),
		AuthorID:   persona.AuthorID(),
		AuthorName: persona.Name,
		Location:   &location,
	}
	if err := b.daily.Create(ctx, response); err != nil {
		return nil, err
	}

	recordAction("daily_question")
	logger.Log.Info("Bot answered daily question", zap.String("persona", persona.Name), zap.String("response", response.Response))
	return response, nil
}

// SeedActivity posts 2-4 times, then comments on and reacts to up to three nearby posts.
// Individual failures are logged and skipped.
func (b *Bot) SeedActivity(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return ErrAlreadyRunning
	}
	b.running = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
		logger.Log.Info("Activity bot seeding complete")
	}()

	logger.Log.Info("Activity bot starting to seed content")

	postCount := 2 + b.intn(3)
	for i := 0; i < postCount; i++ {
		if _, err := b.CreatePost(ctx); err != nil {
			logger.Log.Error("Bot post failed", zap.Error(err))
		}
		delay := b.opts.PostDelay + time.Duration(b.float64()*3*float64(b.opts.PostDelay))
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	lat, lng := b.Location()
	recent, err := b.posts.ListNearby(ctx, feed.Query{
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  engageRadiusKm,
		Limit:     engagePosts,
	})
	if err != nil {
		logger.Log.Error("Bot could not load nearby posts", zap.Error(err))
		return nil
	}

	for _, post := range recent {
		if b.float64() < commentChance {
			if _, err := b.CreateComment(ctx, post.ID); err != nil {
				logger.Log.Error("Bot comment failed", logger.WithPostID(post.ID), zap.Error(err))
			}
			if err := sleep(ctx, b.opts.CommentDelay); err != nil {
				return err
			}
		}
		if b.float64() < reactionChance {
			if err := b.AddReaction(ctx, post.ID); err != nil {
				logger.Log.Error("Bot reaction failed", logger.WithPostID(post.ID), zap.Error(err))
			}
			if err := sleep(ctx, b.opts.ReactionDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedInBackground runs SeedActivity on a goroutine owned by the bot. Stop cancels it
// and waits for it to return.
func (b *Bot) SeedInBackground() {
	b.mu.Lock()
	if b.bgCtx == nil {
		b.bgCtx, b.bgCancel = context.WithCancel(context.Background())
	}
	ctx := b.bgCtx
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		err := b.SeedActivity(ctx)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		case errors.Is(err, ErrAlreadyRunning):
			logger.Log.Info("Activity seeding already in progress")
		default:
			logger.Log.Error("Activity seeding failed", zap.Error(err))
		}
	}()
}

// Start runs the gentle maintenance loop: one post every 2-4 hours while not seeding
func (b *Bot) Start() {
	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.mu.Unlock()

	logger.Log.Info("Starting activity bot maintenance loop")
	b.wg.Add(1)
	go b.maintain(ctx)
}

// Stop ends the maintenance loop and any background seeding run, and waits for them to exit
func (b *Bot) Stop() {
	b.mu.Lock()
	cancel, bgCancel := b.cancel, b.bgCancel
	b.cancel = nil
	b.bgCtx, b.bgCancel = nil, nil
	b.mu.Unlock()

	if cancel != nil || bgCancel != nil {
		logger.Log.Info("Stopping activity bot")
	}
	if cancel != nil {
		cancel()
	}
	if bgCancel != nil {
		bgCancel()
	}
	b.wg.Wait()
}

func (b *Bot) maintenanceInterval() time.Duration {
	spread := maxMaintenanceInterval - minMaintenanceInterval
	return minMaintenanceInterval + time.Duration(b.float64()*float64(spread))
}

func (b *Bot) maintain(ctx context.Context) {
	defer b.wg.Done()
	for {
		if err := sleep(ctx, b.maintenanceInterval()); err != nil {
			return
		}
		b.MaintainOnce(ctx)
	}
}

// MaintainOnce is one tick of the maintenance loop
func (b *Bot) MaintainOnce(ctx context.Context) {
	if b.Running() {
		return
	}
	if _, err := b.CreatePost(ctx); err != nil {
		logger.Log.Error("Bot maintenance post failed", zap.Error(err))
	}
	if b.float64() < dailyChance {
		if _, err := b.RespondToDailyQuestion(ctx, DefaultDailyQuestion); err != nil {
			logger.Log.Error("Bot daily question response failed", zap.Error(err))
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
