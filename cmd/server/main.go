package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	authhandler "folio/internal/auth/handler"
	"folio/internal/auth/otp"
	"folio/internal/auth/ratelimit"
	authservice "folio/internal/auth/service"
	"folio/internal/auth/token"
	"folio/internal/auth/workers/cleanup"
	"folio/internal/contact"
	contenthandler "folio/internal/content/handler"
	contentservice "folio/internal/content/service"
	contentstore "folio/internal/content/store"
	"folio/internal/github"
	"folio/internal/mail"
	"folio/internal/platform/config"
	"folio/internal/platform/database"
	"folio/internal/platform/health"
	"folio/internal/platform/logger"
	"folio/internal/platform/metrics"
	"folio/internal/platform/redis"
	"folio/internal/settings"
	httptransport "folio/internal/transport/http"
	authmw "folio/pkg/platform/middleware/auth"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing folio",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"database", cfg.DatabaseURL != "",
		"redis", cfg.RedisURL != "",
		"smtp", cfg.SMTP.Host != "",
	)

	if cfg.AdminEmail == "" {
		log.Error("ADMIN_EMAIL must be set: no identity can authenticate without it")
		os.Exit(1)
	}
	if cfg.Environment == "production" && cfg.JWTSigningKey == "dev-secret-key-change-in-production" {
		log.Error("JWT_SIGNING_KEY must be set in production")
		os.Exit(1)
	}

	m := metrics.New()
	checks := health.New(cfg.Environment)

	// Optional Postgres. Empty DATABASE_URL keeps everything in memory.
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck
		pool.CollectPoolStats()
		checks.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}

	contentStores := contentstore.NewMemoryStores()
	var settingsStore settings.Store = settings.NewMemoryStore()
	if pool != nil {
		contentStores = contentstore.NewPostgresStores(pool.DB())
		settingsStore = settings.NewPostgresStore(pool.DB())
	}

	// Optional Redis for OTP state shared across replicas.
	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	var otpStore interface {
		authservice.OTPStore
		cleanup.OTPStore
	} = otp.NewInMemoryStore(otp.WithMaxAttempts(cfg.OTPMaxAttempts))
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck
		rdb.CollectPoolStats()
		checks.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return rdb.Health(ctx)
		})
		otpStore = otp.NewRedisStore(rdb.Client, otp.WithRedisMaxAttempts(cfg.OTPMaxAttempts))
	}

	var sender mail.Sender
	if cfg.SMTP.Host != "" {
		sender = mail.NewSMTPSender(mail.Config{
			Host:          cfg.SMTP.Host,
			Port:          cfg.SMTP.Port,
			User:          cfg.SMTP.User,
			Pass:          cfg.SMTP.Pass,
			From:          cfg.SMTP.From,
			OTPTTLMinutes: int(cfg.OTPTTL.Minutes()),
		})
	} else {
		log.Warn("SMTP not configured, login codes will be logged instead of sent")
		sender = mail.NewLogSender(log)
	}

	limiter := ratelimit.New(
		ratelimit.WithLimit(cfg.RateLimitMax),
		ratelimit.WithWindow(cfg.RateLimitWindow),
	)
	tokens := token.NewService(cfg.JWTSigningKey, cfg.TokenTTL)

	auth := authservice.NewService(otpStore, limiter, tokens, sender, cfg.AdminEmail,
		authservice.WithLogger(log),
		authservice.WithMetrics(m),
		authservice.WithOTPTTL(cfg.OTPTTL),
	)

	sweeper, err := cleanup.New(otpStore, limiter,
		cleanup.WithInterval(cfg.OTPSweepInterval),
		cleanup.WithLogger(log),
	)
	if err != nil {
		log.Error("cleanup worker init failed", "error", err)
		os.Exit(1)
	}

	guard := authmw.RequireAdmin(authmw.ValidatorFunc(func(raw string) (*authmw.Claims, error) {
		claims, err := tokens.Validate(raw)
		if err != nil {
			return nil, err
		}
		return &authmw.Claims{Email: claims.Email, Role: claims.Role}, nil
	}), log, authmw.WithFailureHook(m.AuthFailures.Inc))

	content := contentservice.NewService(contentStores, contentservice.WithLogger(log))

	router := httptransport.NewRouter(httptransport.Deps{
		Auth:     authhandler.New(auth, log),
		Content:  contenthandler.New(content, log),
		Settings: settings.NewHandler(settingsStore, settings.NewUploader(cfg.UploadDir), log),
		GitHub:   github.NewHandler(github.NewClient(), content, cfg.GitHubUsername, log),
		Contact:  contact.NewHandler(sender, log, contact.WithMetrics(m)),
		Health:   checks,
		Guard:    guard,
		Metrics:  m,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
