package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"govdocs/internal/auth/password"
	"govdocs/internal/auth/token"
	"govdocs/internal/cache"
	"govdocs/internal/config"
	"govdocs/internal/database"
	"govdocs/internal/database/migration"
	handlers "govdocs/internal/http/handler"
	"govdocs/internal/http/middleware"
	"govdocs/internal/logging"
	"govdocs/internal/notify"
	"govdocs/internal/otel"
	"govdocs/internal/repository/postgres"
	"govdocs/internal/service"
	"govdocs/internal/storage"
)

const version = "1.0.0"

// @title Government Document API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location())
	log := logger.With("main")

	if err := run(cfg, logger); err != nil {
		log.Error("server_exit", err, nil)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, logger.With("database"))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		return err
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	sessions, err := cache.New(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer sessions.Close()

	notifier := notify.New(cfg.Notify, logger)
	loc := cfg.Location()

	users := postgres.NewUserPostgres(db)
	docs := postgres.NewDocumentPostgres(db)
	folders := postgres.NewFolderPostgres(db)
	requests := postgres.NewAccessRequestPostgres(db)
	activityRepo := postgres.NewActivityPostgres(db)
	departments := postgres.NewDepartmentPostgres(db)
	reports := postgres.NewReportPostgres(db)

	hasher := password.NewDefault()
	activity := service.NewActivityService(activityRepo, logger, loc)

	deps := handlers.Deps{
		Version: version,
		Probes: []handlers.Probe{
			{Name: "database", Check: func(ctx context.Context) error { return database.Ping(ctx, db, 2*time.Second) }},
			{Name: "storage", Check: objStore.Ping},
			{Name: "redis", Check: sessions.Ping},
		},
		Auth: service.NewAuthService(users, token.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
			sessions, hasher, notifier, activity, cfg.Auth, logger),
		Documents:      service.NewDocumentService(objStore, docs, folders, requests, departments, activity, loc),
		Folders:        service.NewFolderService(folders, docs, requests, activity, loc),
		AccessRequests: service.NewAccessRequestService(requests, folders, users, notifier, activity, logger),
		Reports:        service.NewReportService(reports, loc),
		Activity:       activity,
		Users:          service.NewUserService(users, hasher, cfg.Auth.MinPasswordChars),
		Departments:    service.NewDepartmentService(departments),
		Dashboard:      service.NewDashboardService(docs, folders, requests, activityRepo),
	}

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:      "govdocs " + version,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, deps)

	errCh := make(chan error, 1)
	go func() {
		logger.With("main").Info("server_start", map[string]any{"port": cfg.Port, "version": version})
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.With("main").Info("server_shutdown", nil)
	return app.ShutdownWithTimeout(10 * time.Second)
}
