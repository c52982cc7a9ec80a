package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:"

// verifyScript performs the read-compare-increment-delete sequence server-side
// so concurrent verifications for one identity cannot race. Expiry is checked
// against the stored timestamp rather than the key TTL; the key TTL is only a
// backstop so abandoned records disappear without a sweep.
var verifyScript = redis.NewScript(`
local key = KEYS[1]
local supplied = ARGV[1]
local now = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
if redis.call('EXISTS', key) == 0 then
  return 'not_found'
end
local expires = tonumber(redis.call('HGET', key, 'expires_at'))
if now > expires then
  redis.call('DEL', key)
  return 'expired'
end
local attempts = tonumber(redis.call('HGET', key, 'attempts') or '0')
if attempts >= max then
  redis.call('DEL', key)
  return 'too_many_attempts'
end
if redis.call('HGET', key, 'code') ~= supplied then
  attempts = attempts + 1
  if attempts >= max then
    redis.call('DEL', key)
    return 'too_many_attempts'
  end
  redis.call('HSET', key, 'attempts', attempts)
  return 'mismatch'
end
redis.call('DEL', key)
return 'success'
`)

// RedisStore holds OTP records in Redis hashes. Any process sharing the Redis
// instance can verify codes issued by another, which the single-process memory
// store cannot offer.
type RedisStore struct {
	client      redis.UniversalClient
	maxAttempts int
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisMaxAttempts overrides the failed-attempt limit when greater than zero.
func WithRedisMaxAttempts(n int) RedisStoreOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewRedisStore constructs a Redis-backed OTP store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(identity string) string {
	return redisKeyPrefix + identity
}

func (s *RedisStore) Save(ctx context.Context, identity, code string, expiresAt time.Time) error {
	key := s.key(identity)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"code", code,
		"expires_at", expiresAt.Unix(),
		"attempts", 0,
	)
	// Backstop TTL past the logical expiry so Verify can still report
	// "expired" rather than "not found" for recently lapsed codes.
	pipe.Expire(ctx, key, time.Until(expiresAt)+10*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save otp record: %w", err)
	}
	return nil
}

func (s *RedisStore) Verify(ctx context.Context, identity, suppliedCode string, now time.Time) (Result, error) {
	raw, err := verifyScript.Run(ctx, s.client,
		[]string{s.key(identity)},
		suppliedCode,
		strconv.FormatInt(now.Unix(), 10),
		strconv.Itoa(s.maxAttempts),
	).Result()
	if err != nil {
		return ResultNotFound, fmt.Errorf("verify otp record: %w", err)
	}

	switch raw {
	case "success":
		return ResultSuccess, nil
	case "not_found":
		return ResultNotFound, nil
	case "expired":
		return ResultExpired, nil
	case "mismatch":
		return ResultMismatch, nil
	case "too_many_attempts":
		return ResultTooManyAttempts, nil
	default:
		return ResultNotFound, fmt.Errorf("unexpected verify result %q", raw)
	}
}

// DeleteExpired is a no-op for Redis: the per-key backstop TTL already reclaims
// abandoned records.
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
