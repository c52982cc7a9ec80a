package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"folio/internal/auth/otp"
	dErrors "folio/pkg/domain-errors"
)

const adminEmail = "owner@example.com"

// fakeOTPStore records Save calls and returns a scripted Verify outcome.
type fakeOTPStore struct {
	savedIdentity string
	savedCode     string
	savedExpiry   time.Time
	saveErr       error

	verifyResult   otp.Result
	verifyErr      error
	verifiedCode   string
	verifyIdentity string
}

func (f *fakeOTPStore) Save(_ context.Context, identity, code string, expiresAt time.Time) error {
	f.savedIdentity = identity
	f.savedCode = code
	f.savedExpiry = expiresAt
	return f.saveErr
}

func (f *fakeOTPStore) Verify(_ context.Context, identity, suppliedCode string, _ time.Time) (otp.Result, error) {
	f.verifyIdentity = identity
	f.verifiedCode = suppliedCode
	return f.verifyResult, f.verifyErr
}

// fakeLimiter tracks which keys were presented to Allow.
type fakeLimiter struct {
	allow bool
	keys  []string
}

func (f *fakeLimiter) Allow(key string, _ time.Time) bool {
	f.keys = append(f.keys, key)
	return f.allow
}

type fakeIssuer struct {
	token string
	err   error
	email string
}

func (f *fakeIssuer) Issue(email string) (string, error) {
	f.email = email
	return f.token, f.err
}

type fakeMailer struct {
	to   string
	code string
	err  error
}

func (f *fakeMailer) SendOTP(_ context.Context, to, code string) error {
	f.to = to
	f.code = code
	return f.err
}

type ServiceSuite struct {
	suite.Suite
	otps    *fakeOTPStore
	limiter *fakeLimiter
	issuer  *fakeIssuer
	mailer  *fakeMailer
	now     time.Time
	service *Service
}

func (s *ServiceSuite) SetupTest() {
	s.otps = &fakeOTPStore{verifyResult: otp.ResultSuccess}
	s.limiter = &fakeLimiter{allow: true}
	s.issuer = &fakeIssuer{token: "signed-token"}
	s.mailer = &fakeMailer{}
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.otps, s.limiter, s.issuer, s.mailer, adminEmail,
		WithLogger(logger),
		WithOTPTTL(10*time.Minute),
		WithClock(func() time.Time { return s.now }),
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) TestStartLoginIssuesAndDelivers() {
	err := s.service.StartLogin(context.Background(), adminEmail, "203.0.113.7", "Mozilla/5.0")
	s.Require().NoError(err)

	s.Equal(adminEmail, s.otps.savedIdentity)
	s.Len(s.otps.savedCode, 6)
	s.Equal(s.now.Add(10*time.Minute), s.otps.savedExpiry)
	s.Equal(adminEmail, s.mailer.to)
	s.Equal(s.otps.savedCode, s.mailer.code)
	s.Equal([]string{"203.0.113.7"}, s.limiter.keys)
}

func (s *ServiceSuite) TestStartLoginNormalizesEmail() {
	err := s.service.StartLogin(context.Background(), "  Owner@Example.COM ", "203.0.113.7", "")
	s.Require().NoError(err)
	s.Equal(adminEmail, s.otps.savedIdentity)
}

func (s *ServiceSuite) TestStartLoginRejectsUnknownIdentityBeforeRateLimit() {
	err := s.service.StartLogin(context.Background(), "stranger@example.com", "203.0.113.7", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.Empty(s.limiter.keys, "rejected identity must not consume rate-limit quota")
	s.Empty(s.otps.savedCode)
	s.Empty(s.mailer.to)
}

func (s *ServiceSuite) TestStartLoginRateLimited() {
	s.limiter.allow = false
	err := s.service.StartLogin(context.Background(), adminEmail, "203.0.113.7", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
	s.Empty(s.otps.savedCode, "no code issued when rate limited")
	s.Empty(s.mailer.to)
}

func (s *ServiceSuite) TestStartLoginDeliveryFailure() {
	s.mailer.err = errors.New("smtp: connection refused")
	err := s.service.StartLogin(context.Background(), adminEmail, "203.0.113.7", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeDeliveryFailed))
}

func (s *ServiceSuite) TestStartLoginRequiresEmail() {
	err := s.service.StartLogin(context.Background(), "  ", "203.0.113.7", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCompleteLoginIssuesToken() {
	token, err := s.service.CompleteLogin(context.Background(), adminEmail, "123456")
	s.Require().NoError(err)
	s.Equal("signed-token", token)
	s.Equal(adminEmail, s.issuer.email)
	s.Equal("123456", s.otps.verifiedCode)
}

func (s *ServiceSuite) TestCompleteLoginRejectsUnknownIdentity() {
	_, err := s.service.CompleteLogin(context.Background(), "stranger@example.com", "123456")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.Empty(s.otps.verifiedCode, "unknown identity must not reach the store")
}

func (s *ServiceSuite) TestCompleteLoginVerificationOutcomes() {
	cases := []struct {
		result otp.Result
		code   dErrors.Code
	}{
		{otp.ResultNotFound, dErrors.CodeOTPNotFound},
		{otp.ResultExpired, dErrors.CodeOTPExpired},
		{otp.ResultMismatch, dErrors.CodeOTPMismatch},
		{otp.ResultTooManyAttempts, dErrors.CodeTooManyAttempts},
	}
	for _, tc := range cases {
		s.Run(tc.result.String(), func() {
			s.otps.verifyResult = tc.result
			token, err := s.service.CompleteLogin(context.Background(), adminEmail, "000000")
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, tc.code))
			s.Empty(token)
		})
	}
}

func (s *ServiceSuite) TestCompleteLoginStoreFailure() {
	s.otps.verifyErr = errors.New("redis: connection reset")
	_, err := s.service.CompleteLogin(context.Background(), adminEmail, "123456")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestCompleteLoginRequiresInput() {
	_, err := s.service.CompleteLogin(context.Background(), adminEmail, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}
