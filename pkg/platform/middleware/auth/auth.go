// Package auth provides the route guard for admin endpoints. Every rejection
// is a uniform 401 so callers cannot distinguish missing, malformed, expired,
// or under-privileged tokens.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Claims carries the identity asserted by a validated session token.
type Claims struct {
	Email string
	Role  string
}

// Validator checks a bearer token and returns its claims.
type Validator interface {
	Validate(token string) (*Claims, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(token string) (*Claims, error)

func (f ValidatorFunc) Validate(token string) (*Claims, error) { return f(token) }

// RoleAdmin is the only role the guard admits.
const RoleAdmin = "admin"

type contextKey struct{}

// GetClaims returns the claims stored by RequireAdmin, if any.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}

// Option configures the guard.
type Option func(*guard)

// WithFailureHook registers a callback invoked on every rejected request.
func WithFailureHook(hook func()) Option {
	return func(g *guard) {
		g.onFailure = hook
	}
}

type guard struct {
	validator Validator
	logger    *slog.Logger
	onFailure func()
}

// RequireAdmin returns middleware that admits only requests carrying a valid
// admin bearer token, storing the claims in the request context.
func RequireAdmin(validator Validator, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	g := &guard{validator: validator, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				g.reject(ctx, w, "missing bearer token")
				return
			}

			claims, err := g.validator.Validate(token)
			if err != nil {
				g.reject(ctx, w, "invalid token")
				return
			}
			if claims.Role != RoleAdmin {
				g.reject(ctx, w, "insufficient role")
				return
			}

			ctx = context.WithValue(ctx, contextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *guard) reject(ctx context.Context, w http.ResponseWriter, reason string) {
	if g.logger != nil {
		g.logger.WarnContext(ctx, "unauthorized access", "reason", reason)
	}
	if g.onFailure != nil {
		g.onFailure()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid token"}`))
}
