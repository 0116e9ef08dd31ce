// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the PixelPulse HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Validate the JWT secret and trusted proxies before touching any store.
//  4. Connect to PostgreSQL (pgxpool) and Redis.
//  5. Run database migrations (idempotent).
//  6. Build the mailer and object store.
//  7. Wire domain services and HTTP handlers.
//  8. Start rate limiter sweeps and the cron scheduler.
//  9. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/pixelpulse/internal/admin/dashboard"
	"github.com/taibuivan/pixelpulse/internal/api"
	"github.com/taibuivan/pixelpulse/internal/blog/article"
	"github.com/taibuivan/pixelpulse/internal/blog/comment"
	"github.com/taibuivan/pixelpulse/internal/blog/taxonomy"
	"github.com/taibuivan/pixelpulse/internal/jobs"
	"github.com/taibuivan/pixelpulse/internal/media/upload"
	"github.com/taibuivan/pixelpulse/internal/platform/config"
	"github.com/taibuivan/pixelpulse/internal/platform/constants"
	"github.com/taibuivan/pixelpulse/internal/platform/mail"
	"github.com/taibuivan/pixelpulse/internal/platform/middleware"
	"github.com/taibuivan/pixelpulse/internal/platform/migration"
	pgstore "github.com/taibuivan/pixelpulse/internal/platform/postgres"
	redisstore "github.com/taibuivan/pixelpulse/internal/platform/redis"
	"github.com/taibuivan/pixelpulse/internal/platform/scheduler"
	"github.com/taibuivan/pixelpulse/internal/platform/sec"
	"github.com/taibuivan/pixelpulse/internal/platform/storage"
	"github.com/taibuivan/pixelpulse/internal/site/contact"
	"github.com/taibuivan/pixelpulse/internal/site/settings"
	"github.com/taibuivan/pixelpulse/internal/users/account"
	"github.com/taibuivan/pixelpulse/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("[PixelPulse] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("mail_enabled", cfg.MailEnabled()),
		slog.Bool("uploads_enabled", cfg.UploadsEnabled()),
	)

	// ── 3. Security ───────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, log)
	must(log, err, "initialize token service")

	proxies, err := middleware.NewProxyTrust(cfg.TrustedProxies)
	must(log, err, "parse trusted proxies")

	// Startup gets a deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives until shutdown; drives background workers.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 4. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Mail & Storage ─────────────────────────────────────────────────
	var mailer mail.Mailer = mail.NewLogMailer(log)
	if cfg.MailEnabled() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, log)
	}

	var blobs storage.BlobStore
	if cfg.UploadsEnabled() {
		store, err := storage.NewS3Store(startupCtx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
		}, log)
		must(log, err, "initialize object storage")
		blobs = store
	}

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	secureCookie := cfg.IsProduction()
	revocations := auth.NewRevocationStore(rdb)

	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewResetCodeRepository(pool),
		revocations,
		auth.NewAttemptCounter(rdb),
		tokens,
		mailer,
		log,
		auth.Options{ExposeResetCode: cfg.ExposeResetCode()},
	)

	accountService := account.NewService(account.NewAccountRepository(pool), revocations, tokens.TTL(), log)
	taxonomyService := taxonomy.NewService(taxonomy.NewPostgresRepository(pool))
	settingsService := settings.NewService(settings.NewPostgresRepository(pool), log)

	articleRepository := article.NewPostgresRepository(pool)
	articleService := article.NewService(articleRepository)
	commentService := comment.NewService(comment.NewPostgresRepository(pool), articleRepository, settingsService)

	contactService := contact.NewService(contact.NewPostgresRepository(pool), mailer, cfg.ContactInbox, log)
	dashboardService := dashboard.NewService(dashboard.NewPostgresRepository(pool))
	uploadService := upload.NewService(blobs)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, tokens.TTL(), secureCookie),
		Account:   account.NewHandler(accountService, secureCookie),
		Taxonomy:  taxonomy.NewHandler(taxonomyService),
		Article:   article.NewHandler(articleService, settingsService),
		Comment:   comment.NewHandler(commentService),
		Settings:  settings.NewHandler(settingsService),
		Contact:   contact.NewHandler(contactService),
		Dashboard: dashboard.NewHandler(dashboardService),
		Upload:    upload.NewHandler(uploadService),
	}

	// ── 9. Background workers ─────────────────────────────────────────────
	limiters := api.Limiters{
		Global: middleware.NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst),
		Strict: middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst),
	}
	go limiters.Global.Run(appCtx)
	go limiters.Strict.Run(appCtx)

	cron := scheduler.New(log)
	must(log, cron.Register(appCtx, cfg.CleanupSchedule, jobs.NewResetCodeCleanup(authService, log)), "register cleanup job")
	cron.Start()

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	server := api.NewServer(cfg, log, proxies, tokens, revocations, limiters, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	exitCode := 0
	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		exitCode = 1
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	cron.Stop(stopCtx)
	stopCancel()
	appCancel()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name and
// installs it as the slog default.
func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(log)
	return log
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
