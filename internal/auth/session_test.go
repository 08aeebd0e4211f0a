package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/localfeat/backend/internal/cache"
	"github.com/localfeat/backend/internal/database"
	"github.com/localfeat/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeKV) SetEx(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func exerciseStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()

	session, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, session.ID, 64)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionTTL), session.ExpiresAt, 5*time.Second)

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Destroy(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDBSessionStore(t *testing.T) {
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	exerciseStore(t, NewDBSessionStore(repository.NewSessionRepository(db), 0))
}

func TestRedisSessionStore(t *testing.T) {
	kv := newFakeKV()
	exerciseStore(t, NewRedisSessionStore(kv, 0))
}

func TestRedisSessionStore_UsesTTL(t *testing.T) {
	kv := newFakeKV()
	store := NewRedisSessionStore(kv, time.Hour)
	session, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, kv.ttls["session:"+session.ID])
}

func TestMemorySessionStore(t *testing.T) {
	exerciseStore(t, NewMemorySessionStore(0))
}

func TestMemorySessionStore_Expired(t *testing.T) {
	store := NewMemorySessionStore(time.Nanosecond)
	session, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = store.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
