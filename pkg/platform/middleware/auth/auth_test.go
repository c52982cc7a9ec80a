package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okValidator(claims *Claims) Validator {
	return ValidatorFunc(func(string) (*Claims, error) {
		return claims, nil
	})
}

func failValidator() Validator {
	return ValidatorFunc(func(string) (*Claims, error) {
		return nil, errors.New("invalid or expired token")
	})
}

func newGuardedServer(t *testing.T, v Validator, opts ...Option) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		require.True(t, ok, "claims must be in context on admitted requests")
		w.Header().Set("X-Email", claims.Email)
		w.WriteHeader(http.StatusOK)
	})
	return RequireAdmin(v, logger, opts...)(next)
}

func TestRequireAdminAdmits(t *testing.T) {
	h := newGuardedServer(t, okValidator(&Claims{Email: "owner@example.com", Role: RoleAdmin}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@example.com", rec.Header().Get("X-Email"))
}

func TestRequireAdminRejectsUniformly(t *testing.T) {
	cases := []struct {
		name      string
		validator Validator
		header    string
	}{
		{"no header", okValidator(&Claims{Role: RoleAdmin}), ""},
		{"not bearer", okValidator(&Claims{Role: RoleAdmin}), "Basic abc"},
		{"empty token", okValidator(&Claims{Role: RoleAdmin}), "Bearer "},
		{"invalid token", failValidator(), "Bearer junk"},
		{"wrong role", okValidator(&Claims{Email: "x@example.com", Role: "viewer"}), "Bearer some-token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var failures int
			h := newGuardedServer(t, tc.validator, WithFailureHook(func() { failures++ }))

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized","error_description":"Missing or invalid token"}`, rec.Body.String())
			assert.Equal(t, 1, failures)
		})
	}
}

func TestGetClaimsAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetClaims(req.Context())
	assert.False(t, ok)
}
