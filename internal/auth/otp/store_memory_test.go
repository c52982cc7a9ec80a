package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) save(identity, code string) {
	err := s.store.Save(context.Background(), identity, code, s.now.Add(10*time.Minute))
	s.Require().NoError(err)
}

func (s *InMemoryStoreSuite) TestVerify() {
	ctx := context.Background()

	s.Run("no record returns not found", func() {
		res, err := s.store.Verify(ctx, "admin@example.com", "123456", s.now)
		s.NoError(err)
		s.Equal(ResultNotFound, res)
	})

	s.Run("correct code succeeds exactly once", func() {
		s.save("admin@example.com", "482913")

		res, err := s.store.Verify(ctx, "admin@example.com", "482913", s.now)
		s.NoError(err)
		s.Equal(ResultSuccess, res)

		// The record is consumed on success.
		res, err = s.store.Verify(ctx, "admin@example.com", "482913", s.now)
		s.NoError(err)
		s.Equal(ResultNotFound, res)
	})

	s.Run("expired record is reported once then gone", func() {
		s.save("admin@example.com", "482913")
		late := s.now.Add(10*time.Minute + time.Second)

		res, err := s.store.Verify(ctx, "admin@example.com", "482913", late)
		s.NoError(err)
		s.Equal(ResultExpired, res)

		res, err = s.store.Verify(ctx, "admin@example.com", "482913", late)
		s.NoError(err)
		s.Equal(ResultNotFound, res)
	})

	s.Run("record is still valid at the expiry instant", func() {
		s.save("admin@example.com", "482913")
		atExpiry := s.now.Add(10 * time.Minute)

		res, err := s.store.Verify(ctx, "admin@example.com", "482913", atExpiry)
		s.NoError(err)
		s.Equal(ResultSuccess, res)
	})

	s.Run("third wrong guess locks out and removes the record", func() {
		s.save("admin@example.com", "482913")

		res, _ := s.store.Verify(ctx, "admin@example.com", "000001", s.now)
		s.Equal(ResultMismatch, res)
		res, _ = s.store.Verify(ctx, "admin@example.com", "000002", s.now)
		s.Equal(ResultMismatch, res)
		res, _ = s.store.Verify(ctx, "admin@example.com", "000003", s.now)
		s.Equal(ResultTooManyAttempts, res)

		// Even the correct code is dead after lockout.
		res, _ = s.store.Verify(ctx, "admin@example.com", "482913", s.now)
		s.Equal(ResultNotFound, res)
	})

	s.Run("mismatches do not consume the record before the limit", func() {
		s.save("admin@example.com", "482913")

		res, _ := s.store.Verify(ctx, "admin@example.com", "111111", s.now)
		s.Equal(ResultMismatch, res)
		res, _ = s.store.Verify(ctx, "admin@example.com", "482913", s.now)
		s.Equal(ResultSuccess, res)
	})
}

func (s *InMemoryStoreSuite) TestSaveOverwrites() {
	ctx := context.Background()
	s.save("admin@example.com", "111111")
	s.save("admin@example.com", "222222")

	res, err := s.store.Verify(ctx, "admin@example.com", "111111", s.now)
	s.NoError(err)
	s.Equal(ResultMismatch, res, "only the most recent code is valid")

	res, err = s.store.Verify(ctx, "admin@example.com", "222222", s.now)
	s.NoError(err)
	s.Equal(ResultSuccess, res)
}

func (s *InMemoryStoreSuite) TestSaveResetsAttempts() {
	ctx := context.Background()
	s.save("admin@example.com", "111111")

	res, _ := s.store.Verify(ctx, "admin@example.com", "999999", s.now)
	s.Equal(ResultMismatch, res)
	res, _ = s.store.Verify(ctx, "admin@example.com", "999999", s.now)
	s.Equal(ResultMismatch, res)

	// A fresh code starts with a clean attempt counter.
	s.save("admin@example.com", "222222")
	res, _ = s.store.Verify(ctx, "admin@example.com", "999999", s.now)
	s.Equal(ResultMismatch, res)
	res, _ = s.store.Verify(ctx, "admin@example.com", "222222", s.now)
	s.Equal(ResultSuccess, res)
}

func (s *InMemoryStoreSuite) TestDeleteExpired() {
	ctx := context.Background()
	s.save("stale@example.com", "111111")
	err := s.store.Save(ctx, "fresh@example.com", "222222", s.now.Add(time.Hour))
	s.Require().NoError(err)

	deleted, err := s.store.DeleteExpired(ctx, s.now.Add(30*time.Minute))
	s.NoError(err)
	s.Equal(1, deleted)
	s.Equal(1, s.store.Len())

	res, _ := s.store.Verify(ctx, "fresh@example.com", "222222", s.now.Add(30*time.Minute))
	s.Equal(ResultSuccess, res)
}

func TestVerifyConcurrentAttempts(t *testing.T) {
	store := NewInMemoryStore()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "admin@example.com", "482913", now.Add(10*time.Minute)))

	const attempts = 20
	results := make(chan Result, attempts)
	for range attempts {
		go func() {
			res, err := store.Verify(ctx, "admin@example.com", "000000", now)
			assert.NoError(t, err)
			results <- res
		}()
	}

	var mismatches, lockouts, notFound int
	for range attempts {
		switch <-results {
		case ResultMismatch:
			mismatches++
		case ResultTooManyAttempts:
			lockouts++
		case ResultNotFound:
			notFound++
		default:
			t.Fatal("unexpected verification result")
		}
	}

	// Exactly one goroutine trips the lockout; the rest see a mismatch
	// beforehand or no record afterwards.
	assert.Equal(t, 1, lockouts)
	assert.Equal(t, DefaultMaxAttempts-1, mismatches)
	assert.Equal(t, attempts-DefaultMaxAttempts, notFound)
	assert.Equal(t, 0, store.Len())
}

func TestGenerate(t *testing.T) {
	for range 200 {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6, "codes never carry a leading zero")
		require.GreaterOrEqual(t, code, "100000")
		require.LessOrEqual(t, code, "999999")
	}
}
