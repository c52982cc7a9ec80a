// Package otp generates and verifies the one-time codes used for admin login.
package otp

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// Codes are 6-digit decimal strings drawn from [100000, 999999]. The range
// excludes leading zeros so every code is exactly six characters wide.
const (
	codeMin = 100000
	codeMax = 999999
)

// DefaultMaxAttempts is the number of failed verifications that exhaust a code.
const DefaultMaxAttempts = 3

// Generate produces a 6-digit numeric code from a cryptographically secure source.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}

// Record is the ephemeral verification state kept per identity.
// At most one live record exists per identity; Save overwrites.
type Record struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// Result is the outcome of a verification attempt.
type Result int

const (
	ResultSuccess Result = iota
	ResultNotFound
	ResultExpired
	ResultMismatch
	ResultTooManyAttempts
)

// String returns the outcome name used in logs and metrics labels.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultNotFound:
		return "not_found"
	case ResultExpired:
		return "expired"
	case ResultMismatch:
		return "mismatch"
	case ResultTooManyAttempts:
		return "too_many_attempts"
	default:
		return "unknown"
	}
}

// Store holds OTP records keyed by identity.
//
// Verify performs the whole read-compare-increment-delete sequence for one
// identity atomically: two concurrent attempts for the same identity must
// never both observe the same attempt count. Implementations use a store-wide
// mutex (memory) or a server-side script (redis).
//
// Error contract: Verify reports business outcomes through Result; the error
// return is reserved for infrastructure failures.
type Store interface {
	// Save stores or overwrites the record for identity. Only the most
	// recently issued code is ever valid.
	Save(ctx context.Context, identity, code string, expiresAt time.Time) error

	// Verify checks suppliedCode against the stored record as of now.
	// Success, expiry, and attempt exhaustion all delete the record.
	Verify(ctx context.Context, identity, suppliedCode string, now time.Time) (Result, error)

	// DeleteExpired removes all records whose expiry has passed as of now.
	// The time parameter is injected for testability (no hidden time.Now() calls).
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
