package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "SESSION_TTL", "POST_TTL", "SWEEP_INTERVAL", "FEED_BBOX_PREFILTER", "ENVIRONMENT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8787", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "localfeat.sid", cfg.Session.CookieName)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, 10, cfg.Feed.DefaultLimit)
	assert.Equal(t, 30*24*time.Hour, cfg.Feed.PostTTL)
	assert.Equal(t, 5*time.Minute, cfg.Feed.SweepInterval)
	assert.True(t, cfg.Feed.BoundingPrefilter)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("FEED_BBOX_PREFILTER", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, 30*time.Second, cfg.Feed.SweepInterval)
	assert.False(t, cfg.Feed.BoundingPrefilter)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("FEED_DEFAULT_LIMIT", "lots")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("BOT_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.Feed.DefaultLimit)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Bot.Enabled)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "lf", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=lf sslmode=disable", d.DSN())

	d.URL = "postgres://u:p@db/lf"
	assert.Equal(t, "postgres://u:p@db/lf", d.DSN())
}

func TestStorageConfig_S3Enabled(t *testing.T) {
	assert.False(t, StorageConfig{Region: "ap-south-1"}.S3Enabled())
	assert.True(t, StorageConfig{Region: "ap-south-1", Bucket: "lf-images"}.S3Enabled())
}
