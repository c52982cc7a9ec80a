package otp

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps OTP records in a mutex-guarded map. It is the default
// backend; RedisStore replaces it when REDIS_URL is configured.
type InMemoryStore struct {
	mu          sync.Mutex
	records     map[string]*Record
	maxAttempts int
}

// StoreOption configures an InMemoryStore.
type StoreOption func(*InMemoryStore)

// WithMaxAttempts overrides the failed-attempt limit when greater than zero.
func WithMaxAttempts(n int) StoreOption {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewInMemoryStore constructs an empty in-memory OTP store.
func NewInMemoryStore(opts ...StoreOption) *InMemoryStore {
	s := &InMemoryStore{
		records:     make(map[string]*Record),
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Save(_ context.Context, identity, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[identity] = &Record{Code: code, ExpiresAt: expiresAt}
	return nil
}

// Verify runs the full check under one lock so concurrent attempts for the
// same identity serialize and cannot both pass the attempt limit.
func (s *InMemoryStore) Verify(_ context.Context, identity, suppliedCode string, now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identity]
	if !ok {
		return ResultNotFound, nil
	}

	if now.After(rec.ExpiresAt) {
		delete(s.records, identity)
		return ResultExpired, nil
	}

	if rec.Attempts >= s.maxAttempts {
		delete(s.records, identity)
		return ResultTooManyAttempts, nil
	}

	if rec.Code != suppliedCode {
		rec.Attempts++
		// The attempt that reaches the limit locks out immediately; the
		// record does not linger for one more doomed verification.
		if rec.Attempts >= s.maxAttempts {
			delete(s.records, identity)
			return ResultTooManyAttempts, nil
		}
		return ResultMismatch, nil
	}

	delete(s.records, identity)
	return ResultSuccess, nil
}

func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for identity, rec := range s.records {
		if now.After(rec.ExpiresAt) {
			delete(s.records, identity)
			deleted++
		}
	}
	return deleted, nil
}

// Len reports the number of live records. Used by tests and the sweep worker's logging.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
