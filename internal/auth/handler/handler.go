// Package handler exposes the login flow over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/platform/middleware"
	dErrors "folio/pkg/domain-errors"
	"folio/pkg/platform/httputil"
)

// Service defines the login operations the handler depends on.
type Service interface {
	StartLogin(ctx context.Context, email, clientIP, userAgent string) error
	CompleteLogin(ctx context.Context, email, code string) (string, error)
}

type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register mounts the login routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/request-otp", h.HandleRequestOTP)
	r.Post("/verify-otp", h.HandleVerifyOTP)
}

// HandleRequestOTP implements POST /api/auth/request-otp.
//
// Input: { "email": "owner@example.com" }
// Output: { "message": "..." } on 200; error taxonomy status otherwise.
func (h *Handler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode request-otp body",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}

	clientIP := ClientIP(r)
	if err := h.auth.StartLogin(ctx, req.Email, clientIP, r.UserAgent()); err != nil {
		h.logger.WarnContext(ctx, "request-otp rejected",
			"error", err,
			"client_ip", clientIP,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "verification code sent",
	})
}

// HandleVerifyOTP implements POST /api/auth/verify-otp.
//
// Input: { "email": "owner@example.com", "otp": "123456" }
// Output: { "token": "..." } on 200; error taxonomy status otherwise.
func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode verify-otp body",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}

	token, err := h.auth.CompleteLogin(ctx, req.Email, strings.TrimSpace(req.OTP))
	if err != nil {
		h.logger.WarnContext(ctx, "verify-otp rejected",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
	})
}

// ClientIP resolves the originating client address, trusting the leftmost
// X-Forwarded-For entry when the proxy sets one.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
