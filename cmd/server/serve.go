package main

import (
	"context"
	"fmt"
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
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/routes"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/services"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the mirror refresh loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
}

func serve(cfg *config.Config) error {
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.DBDriver != "sqlite" && cfg.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD environment variable is required")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// ERROR+ records also go to system_logs, batched.
	dbLogHandler := logging.NewDBHandler(db)
	defer dbLogHandler.Stop()
	logger := logging.Setup(cfg.LogLevel, dbLogHandler)

	cleanupDone := make(chan struct{})
	defer close(cleanupDone)
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	broker, err := newBroker(cfg)
	if err != nil {
		return err
	}
	defer broker.Close()

	client := remote.NewGormClient(db, broker, cfg.RemoteTimeout)
	st := store.New(client,
		store.WithLogger(logger),
		store.WithRefreshLimit(rate.Limit(cfg.RefreshRate), cfg.RefreshBurst),
		store.WithRetryInterval(cfg.RefreshRetry),
	)
	unsubscribe := st.Subscribe(func(snap *store.Snapshot) {
		slog.Debug("mirror updated",
			"version", snap.Version,
			"tenants", len(snap.Tenants),
			"payments", len(snap.Payments),
		)
	})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cold start: an unreachable remote leaves an empty mirror that Run
	// keeps retrying until the first fetch succeeds.
	if snap, err := st.FetchAll(ctx); err != nil {
		slog.Error("initial mirror fetch failed", "error", err)
	} else {
		slog.Info("mirror loaded",
			"version", snap.Version,
			"properties", len(snap.Properties),
			"units", len(snap.Units),
			"tenants", len(snap.Tenants),
		)
	}
	go st.Run(ctx)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := newApp(cfg, db, st)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}
	slog.Info("shutting down server...")

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

func newBroker(cfg *config.Config) (remote.Broker, error) {
	if cfg.RedisURL == "" {
		slog.Info("change broker: in-process")
		return remote.NewLocalBroker(), nil
	}
	b, err := remote.NewRedisBroker(cfg.RedisURL, cfg.ChangeChannel)
	if err != nil {
		return nil, fmt.Errorf("redis broker: %w", err)
	}
	slog.Info("change broker: redis", "channel", cfg.ChangeChannel)
	return b, nil
}

func newApp(cfg *config.Config, db *gorm.DB, st *store.Store) *fiber.App {
	authService := services.NewAuthService(db, cfg)

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})
	app.Use(metrics.Middleware())

	routes.Setup(app, cfg, routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, st),
		Health:       handlers.NewHealthHandler(db, st),
		Dashboard:    handlers.NewDashboardHandler(st, time.Now),
		Property:     handlers.NewPropertyHandler(st),
		Tenant:       handlers.NewTenantHandler(st),
		Manager:      handlers.NewManagerHandler(st),
		Payment:      handlers.NewPaymentHandler(st, time.Now),
		Notification: handlers.NewNotificationHandler(st),
	})
	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
