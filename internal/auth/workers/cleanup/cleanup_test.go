package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOTPStore struct {
	deleted int
	err     error
	seenNow time.Time
}

func (f *fakeOTPStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	f.seenNow = now
	return f.deleted, f.err
}

type fakeLimiter struct {
	pruned  int
	seenNow time.Time
}

func (f *fakeLimiter) PruneIdle(now time.Time) int {
	f.seenNow = now
	return f.pruned
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	otps := &fakeOTPStore{deleted: 2}
	limiter := &fakeLimiter{pruned: 1}

	svc, err := New(otps, limiter, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	res, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.DeletedCodes)
	assert.Equal(t, 1, res.PrunedLedgers)
	assert.Equal(t, now, otps.seenNow)
	assert.Equal(t, now, limiter.seenNow)
}

func TestRunOnceStoreFailure(t *testing.T) {
	otps := &fakeOTPStore{err: errors.New("redis: connection reset")}
	svc, err := New(otps, &fakeLimiter{})
	require.NoError(t, err)

	_, err = svc.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestNewRequiresStores(t *testing.T) {
	_, err := New(nil, &fakeLimiter{})
	assert.Error(t, err)
	_, err = New(&fakeOTPStore{}, nil)
	assert.Error(t, err)
}

func TestStartStopsOnCancel(t *testing.T) {
	svc, err := New(&fakeOTPStore{}, &fakeLimiter{}, WithInterval(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
