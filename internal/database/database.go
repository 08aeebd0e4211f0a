package database

import (
	"fmt"
	"time"

	"github.com/localfeat/backend/internal/config"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize opens the configured database and stores it in DB
func Initialize(cfg config.DatabaseConfig, environment string) (*gorm.DB, error) {
	db, err := Open(cfg, environment)
	if err != nil {
		return nil, err
	}
	DB = db
	logger.Log.Info("Database connected", zap.String("driver", cfg.Driver))
	return db, nil
}

// Open creates and configures a connection for the postgres or sqlite driver
func Open(cfg config.DatabaseConfig, environment string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gormLogger := gormlogger.Default.LogMode(gormlogger.Warn)
	if environment == "development" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows one writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// UseTracing registers the span-per-statement plugin. Call after telemetry.InitTracer.
func UseTracing(db *gorm.DB) error {
	if err := db.Use(telemetry.GORMTracingPlugin()); err != nil {
		return fmt.Errorf("failed to register tracing plugin: %w", err)
	}
	return nil
}

// OpenSQLiteMemory returns a migrated in-memory database for tests.
func OpenSQLiteMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs auto-migration against DB
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := AutoMigrate(DB); err != nil {
		return err
	}
	logger.Log.Info("Database migrations completed")
	return nil
}

// AutoMigrate creates or updates every table and the supporting indexes
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.PasswordReset{},
		&models.UserProfile{},
		&models.Post{},
		&models.Comment{},
		&models.Conversation{},
		&models.Message{},
		&models.Feedback{},
		&models.BlogPost{},
		&models.DailyQuestionResponse{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// createIndexes adds expression indexes gorm tags cannot describe
func createIndexes(db *gorm.DB) error {
	statements := []string{
		// case-insensitive login by email or username
		"CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))",
		"CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))",

		// conversation lookup in either participant order
		"CREATE INDEX IF NOT EXISTS idx_conversations_pair ON conversations (participant1_id, participant2_id)",

		"CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts (author_id, created_at DESC)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
