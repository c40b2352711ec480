package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docsecure/docs"
	"docsecure/internal/config"
	"docsecure/internal/database"
	"docsecure/internal/database/migration"
	handlers "docsecure/internal/http/handler"
	"docsecure/internal/http/middleware"
	"docsecure/internal/otel"
	"docsecure/internal/repository/postgres"
	"docsecure/internal/service"
	"docsecure/internal/storage"
)

// @title DocSecure API
// @version 1.0
// @description Document sharing backend with an append-only audit trail.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing is a no-op unless OTEL_ENABLED is set.
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories
	docRepo := postgres.NewDocumentPostgres(db)
	shareRepo := postgres.NewSharePostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	// Services; the audit service is handed to the others so every security
	// action flows through one write path.
	auditSvc := service.NewAuditService(auditRepo)
	docSvc := service.NewDocumentService(objStore, docRepo, shareRepo, auditSvc, cfg.Upload.MaxFileSizeBytes)
	shareSvc := service.NewShareService(shareRepo, docRepo, userRepo, objStore, auditSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	authn := middleware.RequireAuth(cfg.Auth.JWTSecret, userRepo)
	handlers.RegisterRoutes(app, db, authn, handlers.Services{
		Documents: docSvc,
		Shares:    shareSvc,
		Audits:    auditSvc,
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

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
