package container

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localfeat/backend/internal/auth"
	"github.com/localfeat/backend/internal/config"
	"github.com/localfeat/backend/internal/database"
	"github.com/localfeat/backend/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Session:     config.SessionConfig{Secret: "secret", TTL: time.Hour, Store: "memory"},
		Feed: config.FeedConfig{
			DefaultLimit:      10,
			PostTTL:           24 * time.Hour,
			SweepInterval:     time.Minute,
			BoundingPrefilter: true,
		},
		Email: config.EmailConfig{AppBaseURL: "http://localhost:8787"},
	}
}

func TestBuild_LocalFallbacks(t *testing.T) {
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)

	c, err := Build(testConfig(), db)
	require.NoError(t, err)

	assert.Same(t, db, c.DB())
	assert.NotNil(t, c.Repositories())
	assert.NotNil(t, c.Auth())
	assert.IsType(t, &auth.MemorySessionStore{}, c.Sessions())
	assert.Nil(t, c.Google(), "no client id means Google sign-in is off")
	assert.IsType(t, email.LogSender{}, c.Mailer())
	assert.Equal(t, "inline", c.ProfileImages().Backend())
	assert.Nil(t, c.Cache())
	assert.NotNil(t, c.Bot())
	assert.NotNil(t, c.Seeder())
	assert.NotNil(t, c.Sweeper())
}

func TestBuild_DBSessionsByDefault(t *testing.T) {
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Session.Store = "db"
	c, err := Build(cfg, db)
	require.NoError(t, err)
	assert.IsType(t, &auth.DBSessionStore{}, c.Sessions())
}

func TestCleanup_RunsNewestFirst(t *testing.T) {
	c := New(testConfig())
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		c.OnCleanup(func(context.Context) error {
			order = append(order, i)
			if i == 2 {
				return errors.New("boom")
			}
			return nil
		})
	}

	err := c.Cleanup(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []int{3, 2, 1}, order)

	order = nil
	assert.NoError(t, c.Cleanup(context.Background()), "cleanup functions run once")
	assert.Empty(t, order)
}

func TestValidate_ReportsMissing(t *testing.T) {
	err := New(testConfig()).Validate()
	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Contains(t, initErr.MissingDeps, "database")
	assert.Contains(t, initErr.Error(), "session store")
}

func TestServiceChecks_OnlyConfiguredDependencies(t *testing.T) {
	db, err := database.OpenSQLiteMemory()
	require.NoError(t, err)
	c, err := Build(testConfig(), db)
	require.NoError(t, err)

	checks := c.ServiceChecks()
	require.Contains(t, checks, "database")
	assert.NotContains(t, checks, "redis")
	assert.NotContains(t, checks, "s3")
	assert.NoError(t, checks["database"](context.Background()))
}

func TestServiceChecks_UnreachableBucket(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = config.StorageConfig{Region: "ap-south-1", Bucket: "lf-images"}
	c := New(cfg)

	check, ok := c.ServiceChecks()["s3"]
	require.True(t, ok)
	assert.Error(t, check(context.Background()))
}
