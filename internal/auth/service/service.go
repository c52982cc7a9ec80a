// Package service orchestrates the passwordless admin login flow:
// identity allow-list, per-client rate limiting, one-time code issue and
// verification, and session token issue.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"folio/internal/auth/device"
	"folio/internal/auth/otp"
	"folio/internal/platform/metrics"
	"folio/internal/platform/middleware"
	"folio/internal/platform/privacy"
	dErrors "folio/pkg/domain-errors"
)

// OTPStore persists one-time codes keyed by identity.
type OTPStore interface {
	Save(ctx context.Context, identity, code string, expiresAt time.Time) error
	Verify(ctx context.Context, identity, suppliedCode string, now time.Time) (otp.Result, error)
}

// RateLimiter throttles login starts per client key.
type RateLimiter interface {
	Allow(key string, now time.Time) bool
}

// TokenIssuer mints session tokens for an authenticated identity.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

// MailSender delivers one-time codes.
type MailSender interface {
	SendOTP(ctx context.Context, to, code string) error
}

const defaultOTPTTL = 10 * time.Minute

type Service struct {
	otps       OTPStore
	limiter    RateLimiter
	tokens     TokenIssuer
	mailer     MailSender
	adminEmail string
	otpTTL     time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithOTPTTL configures how long issued codes stay valid.
// If not set or set to zero/negative, defaults to 10 minutes.
func WithOTPTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.otpTTL = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(otps OTPStore, limiter RateLimiter, tokens TokenIssuer, mailer MailSender, adminEmail string, opts ...Option) *Service {
	svc := &Service{
		otps:       otps,
		limiter:    limiter,
		tokens:     tokens,
		mailer:     mailer,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		otpTTL:     defaultOTPTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer("folio/auth")
	}
	return svc
}

// StartLogin begins the login flow for the given identity. The allow-list
// check runs before the rate limiter so unknown identities never consume
// quota, and rejected clients leave no record in the limiter ledger.
func (s *Service) StartLogin(ctx context.Context, email, clientIP, userAgent string) error {
	// The raw IP keys the rate limiter; logs and traces only ever see the
	// anonymized form.
	maskedIP := privacy.AnonymizeIP(clientIP)

	ctx, span := s.tracer.Start(ctx, "auth.start_login",
		trace.WithAttributes(attribute.String("client_ip", maskedIP)))
	var spanErr error
	defer func() { endSpan(span, spanErr) }()

	email = normalizeEmail(email)
	if email == "" {
		spanErr = dErrors.New(dErrors.CodeValidation, "email is required")
		return spanErr
	}

	if email != s.adminEmail {
		s.logAuthFailure(ctx, "identity_not_allowed", false,
			"client_ip", maskedIP,
		)
		s.incrementAuthFailure()
		spanErr = dErrors.New(dErrors.CodeForbidden, "email not recognized")
		return spanErr
	}

	now := s.now()
	if !s.limiter.Allow(clientIP, now) {
		s.logAuthFailure(ctx, "rate_limited", false,
			"client_ip", maskedIP,
		)
		s.incrementRateLimited()
		spanErr = dErrors.New(dErrors.CodeRateLimited, "too many code requests, try again later")
		return spanErr
	}

	code, err := otp.Generate()
	if err != nil {
		spanErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
		return spanErr
	}

	if err := s.otps.Save(ctx, email, code, now.Add(s.otpTTL)); err != nil {
		spanErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save code")
		return spanErr
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		s.logAuthFailure(ctx, "delivery_failed", true,
			"client_ip", maskedIP,
			"error", err,
		)
		spanErr = dErrors.Wrap(err, dErrors.CodeDeliveryFailed, "failed to deliver code")
		return spanErr
	}

	s.logAudit(ctx, "otp_issued",
		"client_ip", maskedIP,
		"device", device.Describe(userAgent),
	)
	s.incrementOTPIssued()
	return nil
}

// CompleteLogin verifies a supplied code and, on success, issues a session
// token. Every verification outcome is reported with its own error code so
// the client knows whether to retry or request a fresh code.
func (s *Service) CompleteLogin(ctx context.Context, email, suppliedCode string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.complete_login")
	var spanErr error
	defer func() { endSpan(span, spanErr) }()

	email = normalizeEmail(email)
	if email == "" || suppliedCode == "" {
		spanErr = dErrors.New(dErrors.CodeValidation, "email and otp are required")
		return "", spanErr
	}

	if email != s.adminEmail {
		s.logAuthFailure(ctx, "identity_not_allowed", false)
		s.incrementAuthFailure()
		spanErr = dErrors.New(dErrors.CodeForbidden, "email not recognized")
		return "", spanErr
	}

	result, err := s.otps.Verify(ctx, email, suppliedCode, s.now())
	if err != nil {
		spanErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify code")
		return "", spanErr
	}
	span.SetAttributes(attribute.String("result", result.String()))
	s.incrementOTPVerification(result.String())

	if result != otp.ResultSuccess {
		s.logAuthFailure(ctx, result.String(), false)
		s.incrementAuthFailure()
		spanErr = verificationError(result)
		return "", spanErr
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		spanErr = dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
		return "", spanErr
	}

	s.logAudit(ctx, "admin_login")
	s.incrementLogins()
	return token, nil
}

// verificationError maps a verification outcome to its domain error.
func verificationError(result otp.Result) error {
	switch result {
	case otp.ResultNotFound:
		return dErrors.New(dErrors.CodeOTPNotFound, "no active code, request a new one")
	case otp.ResultExpired:
		return dErrors.New(dErrors.CodeOTPExpired, "code expired, request a new one")
	case otp.ResultMismatch:
		return dErrors.New(dErrors.CodeOTPMismatch, "incorrect code")
	case otp.ResultTooManyAttempts:
		return dErrors.New(dErrors.CodeTooManyAttempts, "too many attempts, request a new code")
	default:
		return dErrors.New(dErrors.CodeInternal, "unexpected verification outcome")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) logAuthFailure(ctx context.Context, reason string, isError bool, attributes ...any) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", "auth_failed", "reason", reason, "log_type", "standard")
	if isError {
		s.logger.ErrorContext(ctx, "auth_failed", args...)
		return
	}
	s.logger.WarnContext(ctx, "auth_failed", args...)
}

func (s *Service) incrementOTPIssued() {
	if s.metrics != nil {
		s.metrics.OTPIssued.Inc()
	}
}

func (s *Service) incrementOTPVerification(result string) {
	if s.metrics != nil {
		s.metrics.OTPVerifications.WithLabelValues(result).Inc()
	}
}

func (s *Service) incrementRateLimited() {
	if s.metrics != nil {
		s.metrics.RateLimited.Inc()
	}
}

func (s *Service) incrementLogins() {
	if s.metrics != nil {
		s.metrics.Logins.Inc()
	}
}

func (s *Service) incrementAuthFailure() {
	if s.metrics != nil {
		s.metrics.AuthFailures.Inc()
	}
}
