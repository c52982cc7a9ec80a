package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for folio.
type Server struct {
	Addr        string
	Environment string

	// Single-admin model: only this address may authenticate.
	AdminEmail    string
	JWTSigningKey string
	TokenTTL      time.Duration

	OTPTTL           time.Duration
	OTPSweepInterval time.Duration
	OTPMaxAttempts   int

	// OTP issuance rate limit per client IP.
	RateLimitWindow time.Duration
	RateLimitMax    int

	SMTP SMTPConfig

	// Optional backends. Empty URL means the in-memory implementation is used.
	DatabaseURL string
	RedisURL    string

	UploadDir      string
	GitHubUsername string
}

// SMTPConfig holds mail delivery settings.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:             envOr("FOLIO_ADDR", ":8080"),
		Environment:      envOr("FOLIO_ENV", "development"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		JWTSigningKey:    envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:         durationOr("TOKEN_TTL", 30*time.Minute),
		OTPTTL:           durationOr("OTP_TTL", 10*time.Minute),
		OTPSweepInterval: durationOr("OTP_SWEEP_INTERVAL", 5*time.Minute),
		OTPMaxAttempts:   intOr("OTP_MAX_ATTEMPTS", 3),
		RateLimitWindow:  durationOr("OTP_RATE_WINDOW", time.Hour),
		RateLimitMax:     intOr("OTP_RATE_MAX", 3),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		UploadDir:        envOr("UPLOAD_DIR", "./uploads"),
		GitHubUsername:   os.Getenv("GITHUB_USERNAME"),
	}

	cfg.SMTP = SMTPConfig{
		Host: os.Getenv("SMTP_HOST"),
		Port: intOr("SMTP_PORT", 587),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
		From: envOr("SMTP_FROM", os.Getenv("SMTP_USER")),
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
