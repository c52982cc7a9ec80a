package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "folio/pkg/domain-errors"
)

type stubService struct {
	startErr    error
	startEmail  string
	startIP     string
	token       string
	completeErr error
}

func (s *stubService) StartLogin(_ context.Context, email, clientIP, _ string) error {
	s.startEmail = email
	s.startIP = clientIP
	return s.startErr
}

func (s *stubService) CompleteLogin(_ context.Context, email, code string) (string, error) {
	if s.completeErr != nil {
		return "", s.completeErr
	}
	return s.token, nil
}

func newTestRouter(svc *stubService) chi.Router {
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Route("/api/auth", h.Register)
	return r
}

func TestHandleRequestOTP(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		startErr   error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"email":"owner@example.com"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown identity",
			body:       `{"email":"stranger@example.com"}`,
			startErr:   dErrors.New(dErrors.CodeForbidden, "email not recognized"),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "rate limited",
			body:       `{"email":"owner@example.com"}`,
			startErr:   dErrors.New(dErrors.CodeRateLimited, "too many code requests"),
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "delivery failed",
			body:       `{"email":"owner@example.com"}`,
			startErr:   dErrors.New(dErrors.CodeDeliveryFailed, "smtp unavailable"),
			wantStatus: http.StatusBadGateway,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{startErr: tc.startErr}
			router := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/request-otp", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestHandleVerifyOTP(t *testing.T) {
	svc := &stubService{token: "signed-token"}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
		strings.NewReader(`{"email":"owner@example.com","otp":" 123456 "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp["token"])
}

func TestHandleVerifyOTPErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", dErrors.New(dErrors.CodeOTPNotFound, "no active code"), http.StatusBadRequest},
		{"expired", dErrors.New(dErrors.CodeOTPExpired, "code expired"), http.StatusBadRequest},
		{"mismatch", dErrors.New(dErrors.CodeOTPMismatch, "incorrect code"), http.StatusBadRequest},
		{"too many attempts", dErrors.New(dErrors.CodeTooManyAttempts, "attempt limit"), http.StatusBadRequest},
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "email not recognized"), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{completeErr: tc.err}
			router := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp",
				strings.NewReader(`{"email":"owner@example.com","otp":"000000"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestClientIP(t *testing.T) {
	t.Run("from remote addr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "203.0.113.7:54321"
		assert.Equal(t, "203.0.113.7", ClientIP(r))
	})

	t.Run("forwarded header wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "10.0.0.1:80"
		r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
		assert.Equal(t, "198.51.100.4", ClientIP(r))
	})

	t.Run("single forwarded entry", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.Header.Set("X-Forwarded-For", "198.51.100.4")
		assert.Equal(t, "198.51.100.4", ClientIP(r))
	})
}
