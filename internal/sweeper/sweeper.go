package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/telemetry"
	"go.uber.org/zap"
)

// DefaultInterval is how often expired rows are removed in the background
const DefaultInterval = 5 * time.Minute

// ExpiredDeleter removes every row whose expiry is at or before now
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Target is one table the sweeper keeps clean
type Target struct {
	Name    string
	Deleter ExpiredDeleter
}

// Service periodically deletes expired posts (with their comments), sessions and reset tokens
type Service struct {
	targets  []Target
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a sweeper; a non-positive interval uses DefaultInterval
func NewService(interval time.Duration, targets ...Target) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		targets:  targets,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the periodic sweep
func (s *Service) Start() {
	logger.Log.Info("Starting expiry sweeper", zap.Duration("interval", s.interval), zap.Int("targets", len(s.targets)))
	s.wg.Add(1)
	go s.run()
}

// Stop cancels the loop and waits for an in-flight sweep to finish
func (s *Service) Stop() {
	logger.Log.Info("Stopping expiry sweeper")
	s.cancel()
	s.wg.Wait()
}

func (s *Service) run() {
	defer s.wg.Done()

	// Run immediately on startup
	s.RunOnce(s.ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(s.ctx)
		case <-s.ctx.Done():
			return
		}
	}
}

// RunOnce sweeps every target and returns the number of rows removed per target.
// Failures are logged and the remaining targets still run.
func (s *Service) RunOnce(ctx context.Context) map[string]int64 {
	ctx, span := telemetry.GetEvents().TraceSweep(ctx, len(s.targets))
	defer span.End()

	start := time.Now()
	now := s.now()
	removed := make(map[string]int64, len(s.targets))
	failed := false

	for _, t := range s.targets {
		n, err := t.Deleter.DeleteExpired(ctx, now)
		if err != nil {
			failed = true
			logger.Log.Error("Expiry sweep failed", zap.String("target", t.Name), zap.Error(err))
			continue
		}
		removed[t.Name] = n
		if t.Name == "posts" {
			metrics.Get().App.PostsSwept.Add(float64(n))
		}
	}

	m := metrics.Get().App
	m.SweepDuration.Observe(time.Since(start).Seconds())
	if failed {
		m.SweepRunsTotal.WithLabelValues("error").Inc()
	} else {
		m.SweepRunsTotal.WithLabelValues("ok").Inc()
	}

	logger.Log.Debug("Expiry sweep completed",
		zap.Any("removed", removed),
		zap.Duration("duration", time.Since(start)),
	)
	return removed
}
