package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/localfeat/backend/internal/config"
	"github.com/localfeat/backend/internal/container"
	"github.com/localfeat/backend/internal/database"
	"github.com/localfeat/backend/internal/handlers"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/middleware"
	"github.com/localfeat/backend/internal/telemetry"
	"github.com/localfeat/backend/internal/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== LocalFeat server starting ===", zap.String("environment", cfg.Environment))

	metrics.Initialize()

	tp, err := telemetry.InitTracer(cfg.Tracing, cfg.Environment)
	if err != nil {
		logger.Log.Warn("Tracing disabled, exporter setup failed", zap.Error(err))
	}

	db, err := database.Initialize(cfg.Database, cfg.Environment)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if tp != nil {
		if err := database.UseTracing(db); err != nil {
			logger.Log.Warn("Database tracing unavailable", zap.Error(err))
		}
	}

	app, err := container.Build(cfg, db)
	if err != nil {
		logger.Log.Fatal("Failed to build services", zap.Error(err))
	}
	app.OnCleanup(func(context.Context) error { return database.Close() })

	if err := validation.NewServiceValidator(app.ServiceChecks()).ValidateServices(context.Background()); err != nil {
		logger.Log.Fatal("Required service unavailable", zap.Error(err))
	}
	app.OnCleanup(func(ctx context.Context) error { return telemetry.Shutdown(ctx, tp) })

	app.Sweeper().Start()
	app.OnCleanup(func(context.Context) error {
		app.Sweeper().Stop()
		return nil
	})

	// admin seeding runs can start even when the maintenance loop is off
	app.OnCleanup(func(context.Context) error {
		app.Bot().Stop()
		return nil
	})
	if cfg.Bot.Enabled {
		app.Bot().Start()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, app, tp != nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("LocalFeat backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := app.Cleanup(ctx); err != nil {
		logger.Log.Warn("Shutdown cleanup incomplete", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

func newRouter(cfg *config.Config, app *container.Container, tracing bool) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	if tracing {
		r.Use(middleware.TracingMiddleware(telemetry.ServiceName))
	}

	// Session cookies need credentialed CORS, so origins are echoed rather than "*"
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", middleware.AdminSecretHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/admin/create-bots", "/metrics"})))

	cookie := middleware.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}
	r.Use(middleware.SessionAuth(app.Sessions(), app.Repositories().Users, cookie))

	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := database.Health(); err != nil {
			logger.Log.Error("Health check failed", zap.Error(err))
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   telemetry.ServiceName,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandlers(app.Repositories(), app.Auth(), app.Sessions(), cookie)
	h.SetFeedSettings(handlers.FeedSettings{DefaultLimit: cfg.Feed.DefaultLimit})
	h.SetAdminKey(cfg.Admin.Key)
	h.SetGoogleProvider(app.Google())
	h.SetMailer(app.Mailer())
	h.SetProfileImages(app.ProfileImages())
	h.SetActivityBot(app.Bot())
	h.SetSeeder(app.Seeder())
	h.RegisterRoutes(r, middleware.RequireAuth(), middleware.RequireAdminSecret(cfg.Admin.Secret))

	return r
}
