package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the LocalFeat server and CLI
type Config struct {
	Port        string
	Environment string

	LogLevel string
	LogFile  string

	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Feed     FeedConfig
	OAuth    GoogleOAuthSettings
	Storage  StorageConfig
	Email    EmailConfig
	Admin    AdminConfig
	Bot      BotConfig
	Tracing  TracingConfig
}

// DatabaseConfig selects the driver and connection parameters
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// DSN returns the postgres connection string, preferring DATABASE_URL
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Store      string // "db" or "redis"
	Secure     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// FeedConfig controls the geofenced feed and post lifetime
type FeedConfig struct {
	DefaultLimit      int
	PostTTL           time.Duration
	SweepInterval     time.Duration
	BoundingPrefilter bool
}

type GoogleOAuthSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type StorageConfig struct {
	Region     string
	Bucket     string
	CDNBaseURL string
}

// S3Enabled reports whether profile images should go to S3
func (s StorageConfig) S3Enabled() bool {
	return s.Region != "" && s.Bucket != ""
}

type EmailConfig struct {
	FromAddress string
	AppBaseURL  string
}

type AdminConfig struct {
	Key    string // body field for blog publishing
	Secret string // X-Admin-Secret header for bot routes
}

type BotConfig struct {
	Enabled   bool
	BaseLat   float64
	BaseLng   float64
	PostDelay time.Duration
}

type TracingConfig struct {
	Enabled      bool
	Endpoint     string
	SamplingRate float64
}

// Load reads configuration from the environment, loading .env first when present
func Load() *Config {
	// A missing .env is normal in containers
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")

	return &Config{
		Port:        getEnv("PORT", "8787"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", "server.log"),
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			URL:        os.Getenv("DATABASE_URL"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "localfeat"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "localfeat.db"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-me-in-production"),
			TTL:        getEnvDuration("SESSION_TTL", 7*24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE_NAME", "localfeat.sid"),
			Store:      getEnv("SESSION_STORE", "db"),
			Secure:     env == "production",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Feed: FeedConfig{
			DefaultLimit:      getEnvInt("FEED_DEFAULT_LIMIT", 10),
			PostTTL:           getEnvDuration("POST_TTL", 30*24*time.Hour),
			SweepInterval:     getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
			BoundingPrefilter: getEnvBool("FEED_BBOX_PREFILTER", true),
		},
		OAuth: GoogleOAuthSettings{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8787/api/auth/google/callback"),
		},
		Storage: StorageConfig{
			Region:     os.Getenv("AWS_REGION"),
			Bucket:     os.Getenv("AWS_BUCKET"),
			CDNBaseURL: os.Getenv("CDN_BASE_URL"),
		},
		Email: EmailConfig{
			FromAddress: os.Getenv("SES_FROM_ADDRESS"),
			AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:8787"),
		},
		Admin: AdminConfig{
			Key:    os.Getenv("ADMIN_KEY"),
			Secret: os.Getenv("ADMIN_SECRET"),
		},
		Bot: BotConfig{
			Enabled:   getEnvBool("BOT_ENABLED", false),
			BaseLat:   getEnvFloat("BOT_BASE_LAT", 40.7128),
			BaseLng:   getEnvFloat("BOT_BASE_LNG", -74.0060),
			PostDelay: getEnvDuration("BOT_POST_DELAY", 30*time.Second),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvBool("OTEL_ENABLED", false),
			Endpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SamplingRate: getEnvFloat("OTEL_SAMPLING_RATE", 1.0),
		},
	}
}

// IsProduction reports whether ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
