package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"homecare/docs"
	"homecare/internal/auth"
	"homecare/internal/cache"
	"homecare/internal/config"
	"homecare/internal/database"
	"homecare/internal/database/migration"
	handlers "homecare/internal/http/handler"
	"homecare/internal/http/middleware"
	"homecare/internal/logger"
	"homecare/internal/otel"
	"homecare/internal/repository/postgres"
	"homecare/internal/scheduler"
	"homecare/internal/service"
	"homecare/internal/storage"
	"homecare/internal/web"
)

const (
	shutdownTimeout      = 15 * time.Second
	sessionPurgeSchedule = "@hourly"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and background jobs (default)",
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on start")
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if !skipMigrations {
		if err := migration.Run(ctx, db, log); err != nil {
			return err
		}
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	catalogCache := newCatalogCache(ctx, cfg.Redis, log)
	if rc, ok := catalogCache.(*cache.Redis); ok {
		defer rc.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingsCreated, err := service.NewBookingsCreatedCounter(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Initialize repositories and services
	catalogSvc := service.NewCatalogService(postgres.NewCatalogPostgres(db), catalogCache, cfg.Booking.CatalogCacheTTL, log)
	bookingSvc := service.NewBookingService(postgres.NewBookingPostgres(db), catalogSvc, cfg.Booking.ConfirmationWindow, bookingsCreated, log)
	authSvc := service.NewAuthService(postgres.NewUserPostgres(db), postgres.NewSessionPostgres(db), auth.NewTokens(cfg.Auth.JWTSecret), cfg.Auth.SessionTTL, log)
	reviewSvc := service.NewReviewService(bookingSvc, postgres.NewReviewPostgres(db))
	attachmentSvc := service.NewAttachmentService(bookingSvc, objStore, postgres.NewAttachmentPostgres(db), log)

	pages, err := web.New()
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(service.MaxAttachmentSize) + 1<<20,
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:           db,
		Catalog:      catalogSvc,
		Bookings:     bookingSvc,
		Auth:         authSvc,
		Reviews:      reviewSvc,
		Attachments:  attachmentSvc,
		Pages:        pages,
		Log:          log,
		SecureCookie: cfg.Auth.CookieSecure || cfg.IsProduction(),
		AuthLimit:    middleware.NewRateLimiter(cfg.Auth.RatePerMin, cfg.Auth.RateBurst, log).Handler(),
		Gatherer:     reg,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	jobs := scheduler.New(log)
	if err := jobs.Add("expire_bookings", cfg.Booking.ExpirySchedule, scheduler.ExpireBookings(bookingSvc)); err != nil {
		return err
	}
	if err := jobs.Add("purge_sessions", sessionPurgeSchedule, scheduler.PurgeSessions(authSvc)); err != nil {
		return err
	}
	jobs.Start()

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		errCh <- app.Listen(addr)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		log.Info("server_stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", zap.Error(err))
	}
	jobs.Stop(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing_shutdown_failed", zap.Error(err))
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("failed to start server: %w", serveErr)
	}
	return nil
}

// newCatalogCache connects to Redis when configured. The catalog works
// without a cache, so connection problems only produce a warning.
func newCatalogCache(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) cache.Cache {
	if cfg.Addr == "" {
		return cache.Noop{}
	}
	rc, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		log.Warn("catalog_cache_disabled", zap.Error(err))
		return cache.Noop{}
	}
	log.Info("catalog_cache_enabled", zap.String("addr", cfg.Addr))
	return rc
}
