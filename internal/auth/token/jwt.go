// Package token mints and checks the admin session credential.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "folio/pkg/domain-errors"
)

// RoleAdmin is the only role this system issues.
const RoleAdmin = "admin"

// Claims are the JWT claims carried by an admin session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for every validation failure. Signature
// failures, malformed tokens, and expiry are deliberately not distinguished
// so callers cannot leak cryptographic diagnostics to clients.
var ErrInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")

// Service signs and validates session tokens. Validation is stateless: any
// process holding the signing key can validate any issued token until expiry.
type Service struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a token service with the given signing key and TTL.
func NewService(signingKey string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints a signed admin token for email. The caller is responsible for
// having verified the identity; no allow-list check happens here.
func (s *Service) Issue(email string) (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign token")
	}
	return signed, nil
}

// Validate parses and checks a token, returning its claims when the signature
// verifies and the token is unexpired, and ErrInvalidToken otherwise.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
