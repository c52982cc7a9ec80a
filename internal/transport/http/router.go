// Package httptransport assembles the HTTP surface: middleware stack, public
// reads, login endpoints, guarded admin routes, and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "folio/internal/auth/handler"
	contacthandler "folio/internal/contact"
	contenthandler "folio/internal/content/handler"
	githubhandler "folio/internal/github"
	"folio/internal/platform/health"
	"folio/internal/platform/metrics"
	"folio/internal/platform/middleware"
	"folio/internal/settings"
)

// Deps carries everything the router mounts.
type Deps struct {
	Auth     *authhandler.Handler
	Content  *contenthandler.Handler
	Settings *settings.Handler
	GitHub   *githubhandler.Handler
	Contact  *contacthandler.Handler
	Health   *health.Handler
	Guard    func(http.Handler) http.Handler
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewRouter wires all endpoints with the shared middleware stack.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS)
	if d.Metrics != nil {
		r.Use(latency(d.Metrics))
	}

	d.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", d.Auth.Register)

		r.Route("/public", func(r chi.Router) {
			d.Content.RegisterPublic(r)
			d.Settings.RegisterPublic(r)
		})

		d.Contact.Register(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(d.Guard)
			d.Content.RegisterAdmin(r)
			d.Settings.RegisterAdmin(r)
			d.GitHub.Register(r)
		})
	})

	return r
}

// latency records per-route response time using the chi route pattern as the
// label, so path parameters do not explode metric cardinality.
func latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.EndpointLatency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
		})
	}
}
