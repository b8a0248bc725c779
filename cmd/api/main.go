package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"submithub/internal/cache"
	"submithub/internal/config"
	"submithub/internal/database"
	"submithub/internal/database/migration"
	handlers "submithub/internal/http/handler"
	"submithub/internal/http/middleware"
	"submithub/internal/otel"
	"submithub/internal/reconcile"
	"submithub/internal/repository"
	"submithub/internal/repository/postgres"
	"submithub/internal/retry"
	"submithub/internal/service"
	"submithub/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		log.Fatalf("failed to load timezone: %v", err)
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Metadata store (PostgreSQL via pgx, instrumented with otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Blob store (S3-compatible object storage, MinIO-supported)
	shareExpiry := time.Duration(cfg.Engine.ShareExpiryHours) * time.Hour
	blobStore, err := storage.NewMinIO(cfg.MinIO, shareExpiry)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Idempotent reads get a bounded retry with exponential backoff.
	// Writes go straight through.
	policy := retry.Policy{
		MaxAttempts:     uint(cfg.Engine.RetryMaxAttempts),
		InitialInterval: time.Duration(cfg.Engine.RetryInitialBackoffMs) * time.Millisecond,
	}
	blobStore = storage.NewRetrying(blobStore, policy)
	records := repository.NewRetrying(postgres.NewRecordPostgres(db), policy)

	reconciler := reconcile.New(blobStore, records, loc)
	subs := cache.NewSubmissionCache()
	targets := cache.NewTargetRegistry()

	svc := service.NewSubmissionService(blobStore, records, reconciler, subs, targets, service.Options{
		AdminIDs:   cfg.Engine.AdminIDs,
		BlobPrefix: cfg.MinIO.Prefix,
		PendingTTL: time.Duration(cfg.Engine.PendingTTLSec) * time.Second,
		ListPace:   time.Duration(cfg.Engine.ListPaceMs) * time.Millisecond,
		Loc:        loc,
	})
	defer svc.Close()

	// Prime the in-memory view so the first listing doesn't pay for a full
	// reconciliation.
	primeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	n := svc.Rebuild(primeCtx)
	cancel()
	log.Printf(`{"level":"info","msg":"startup_prime_complete","submissions":%d}`, n)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, svc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
