package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New(CodeOTPExpired, "code expired, request a new one")
	assert.Equal(t, "code expired, request a new one", err.Error())

	bare := New(CodeRateLimited, "")
	assert.Equal(t, "rate_limited", bare.Error())
}

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeOTPMismatch, "wrong code")
	wrapped := Wrap(inner, CodeInternal, "verification failed")

	require.True(t, HasCode(wrapped, CodeOTPMismatch), "wrapping must not overwrite the domain code")
	assert.Equal(t, "verification failed", wrapped.Error())
	assert.True(t, errors.Is(wrapped, inner))
}

func TestWrapInfrastructureError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	wrapped := Wrap(cause, CodeDeliveryFailed, "could not send mail")

	assert.True(t, HasCode(wrapped, CodeDeliveryFailed))
	assert.ErrorIs(t, wrapped, cause)
}

func TestHasCode(t *testing.T) {
	assert.False(t, HasCode(nil, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.True(t, HasCode(New(CodeNotFound, "missing"), CodeNotFound))
	assert.False(t, HasCode(New(CodeNotFound, "missing"), CodeConflict))
}
