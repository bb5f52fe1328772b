package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"github.com/yagontorron/needitv1/internal/apps"
	"github.com/yagontorron/needitv1/internal/apps/messages"
	"github.com/yagontorron/needitv1/internal/apps/needs"
	"github.com/yagontorron/needitv1/internal/config"
	"github.com/yagontorron/needitv1/internal/database"
	"github.com/yagontorron/needitv1/internal/handlers"
	"github.com/yagontorron/needitv1/internal/logging"
	"github.com/yagontorron/needitv1/internal/middleware"
	"github.com/yagontorron/needitv1/internal/routes"
	"github.com/yagontorron/needitv1/internal/services"
	"github.com/yagontorron/needitv1/internal/session"
	"github.com/yagontorron/needitv1/internal/store"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database is optional: only the session slot and the error log sink use it
	var db *gorm.DB
	if cfg.NeedsDatabase() {
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	// PostgreSQL log handler (ERROR+ async batch)
	cleanupDone := make(chan struct{})
	var dbLogHandler *logging.DBHandler
	if cfg.DBLogs {
		dbLogHandler = logging.NewDBHandler(logging.GormLogWriter{DB: db})
		logging.Setup(dbLogHandler)
		logging.StartCleanup(db, cfg.LogRetention, cleanupDone)
	}

	var sess session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendPostgres:
		sess = session.NewGormStore(db)
	default:
		sess = session.NewFileStore(cfg.SessionFile)
	}

	// In-memory marketplace seeded with the demo fixtures
	st := store.New(nil)
	fx, err := store.LoadFixtures()
	if err != nil {
		slog.Error("failed to load fixtures", "error", err)
		os.Exit(1)
	}
	if err := st.Seed(fx, services.HashPassword); err != nil {
		slog.Error("failed to seed store", "error", err)
		os.Exit(1)
	}
	slog.Info("store seeded",
		"users", len(fx.Users), "needs", len(fx.Needs),
		"conversations", len(fx.Conversations), "messages", len(fx.Messages))

	cancelEvents := st.Subscribe(func(ev store.Event) {
		slog.Debug("store changed", "entity", ev.Entity, "action", ev.Action, "id", ev.ID)
	})
	defer cancelEvents()

	// Services
	latency := services.NewLatency(cfg.LatencyScale)
	authService := services.NewAuthService(st.Users(), sess, cfg, latency)
	needsService := services.NewNeedsService(st, latency)
	messagingService := services.NewMessagingService(st, latency)

	if u, ok := authService.Restore(context.Background()); ok {
		slog.Info("resuming session", "user_id", u.ID)
	}

	plugins := []apps.Plugin{
		needs.New(cfg, needsService, messagingService, authService),
		messages.New(messagingService, needsService, authService),
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	var ping handlers.Pinger
	if db != nil {
		ping = func() error { return database.Ping(db) }
	}
	healthHandler := handlers.NewHealthHandler(ping, func() int { return len(needsService.ListNeeds()) })
	categoryHandler := handlers.NewCategoryHandler(needsService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, authHandler, healthHandler, categoryHandler, plugins)
	for _, p := range plugins {
		slog.Info("plugin registered", "plugin", p.ID())
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if dbLogHandler != nil {
		dbLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if db != nil {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
