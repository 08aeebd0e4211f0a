package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/localfeat/backend/internal/cache"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
)

// DefaultSessionTTL is the login session lifetime
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side sessions keyed by the cookie value
type SessionStore interface {
	Create(ctx context.Context, userID string) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Destroy(ctx context.Context, id string) error
}

var (
	_ SessionStore = (*DBSessionStore)(nil)
	_ SessionStore = (*RedisSessionStore)(nil)
	_ SessionStore = (*MemorySessionStore)(nil)
)

func newSession(userID string, ttl time.Duration, now time.Time) (*models.Session, error) {
	id, err := GenerateToken()
	if err != nil {
		return nil, err
	}
	return &models.Session{ID: id, UserID: userID, ExpiresAt: now.Add(ttl), CreatedAt: now}, nil
}

func recordLookup(store string, err error) {
	result := "hit"
	if err != nil {
		result = "miss"
	}
	metrics.Get().SessionLookupsTotal.WithLabelValues(store, result).Inc()
}

// DBSessionStore stores sessions in the sessions table; the sweeper removes expired rows
type DBSessionStore struct {
	repo repository.SessionRepository
	ttl  time.Duration
}

func NewDBSessionStore(repo repository.SessionRepository, ttl time.Duration) *DBSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &DBSessionStore{repo: repo, ttl: ttl}
}

func (s *DBSessionStore) Create(ctx context.Context, userID string) (*models.Session, error) {
	session, err := newSession(userID, s.ttl, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (s *DBSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repo.GetActive(ctx, id, time.Now().UTC())
	recordLookup("db", err)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

func (s *DBSessionStore) Destroy(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// KeyValueStore is the subset of the Redis client the session store needs
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisSessionStore keeps sessions under session:<id> with a Redis TTL
type RedisSessionStore struct {
	kv  KeyValueStore
	ttl time.Duration
}

func NewRedisSessionStore(kv KeyValueStore, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{kv: kv, ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

type redisSession struct {
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (*models.Session, error) {
	session, err := newSession(userID, s.ttl, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(redisSession{UserID: userID, ExpiresAt: session.ExpiresAt, CreatedAt: session.CreatedAt})
	if err != nil {
		return nil, err
	}
	if err := s.kv.SetEx(ctx, sessionKey(session.ID), string(payload), s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.kv.Get(ctx, sessionKey(id))
	if errors.Is(err, cache.ErrCacheMiss) {
		recordLookup("redis", ErrSessionNotFound)
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var stored redisSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("corrupt session payload: %w", err)
	}
	if !time.Now().UTC().Before(stored.ExpiresAt) {
		recordLookup("redis", ErrSessionNotFound)
		return nil, ErrSessionNotFound
	}
	recordLookup("redis", nil)
	return &models.Session{ID: id, UserID: stored.UserID, ExpiresAt: stored.ExpiresAt, CreatedAt: stored.CreatedAt}, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	return s.kv.Del(ctx, sessionKey(id))
}

// MemorySessionStore keeps sessions in process memory. Used by tests and single-process dev runs.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	ttl      time.Duration
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{sessions: make(map[string]models.Session), ttl: ttl}
}

func (s *MemorySessionStore) Create(ctx context.Context, userID string) (*models.Session, error) {
	session, err := newSession(userID, s.ttl, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessions[session.ID] = *session
	s.mu.Unlock()
	return session, nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !time.Now().UTC().Before(session.ExpiresAt) {
		recordLookup("memory", ErrSessionNotFound)
		return nil, ErrSessionNotFound
	}
	recordLookup("memory", nil)
	return &session, nil
}

func (s *MemorySessionStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
