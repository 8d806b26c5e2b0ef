package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"docexchange/internal/auth"
	"docexchange/internal/config"
	"docexchange/internal/database"
	"docexchange/internal/database/migration"
	handlers "docexchange/internal/http/handler"
	"docexchange/internal/http/middleware"
	"docexchange/internal/linksign"
	"docexchange/internal/logger"
	"docexchange/internal/mail"
	"docexchange/internal/metrics"
	"docexchange/internal/otel"
	"docexchange/internal/policy"
	"docexchange/internal/presign"
	"docexchange/internal/repository/postgres"
	"docexchange/internal/service"
	"docexchange/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Document Exchange API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Str("event", "config_load_failed").Msg("invalid configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Str("event", "server_exit").Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Str("event", "tracing_shutdown_failed").Msg("tracer provider shutdown failed")
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.Up(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.AccessTokenTTL, cfg.Auth.VerificationTokenTTL)
	if err != nil {
		return err
	}
	codec, err := linksign.NewCodec(cfg.Auth.LinkSecret())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	users := postgres.NewUserPostgres(db)
	files := postgres.NewFilePostgres(db)

	accounts := service.NewAccountService(users, tokens, mail.New(cfg.SMTP, log), cfg.ClientBaseURL, log)
	fileSvc := service.NewFileService(service.FileServiceDeps{
		Files:   files,
		Store:   store,
		Gate:    policy.NewGate(users),
		Codec:   codec,
		Minter:  presign.NewMinter(store, cfg.Links.PresignTTL),
		Metrics: metrics.NewRecorder(reg),
		BaseURL: cfg.ClientBaseURL,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:       db,
		Accounts: accounts,
		Files:    fileSvc,
		Gatherer: reg,
		DocsHost: cfg.AppHost,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("event", "server_start").Str("addr", addr).Msg("listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Str("event", "server_shutdown").Msg("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
