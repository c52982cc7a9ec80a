// Package contact relays visitor messages from the public contact form to
// the site owner's mailbox.
package contact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/mail"
	"folio/internal/platform/metrics"
	dErrors "folio/pkg/domain-errors"
	"folio/pkg/platform/httputil"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Message is a validated contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (m *Message) validate() error {
	if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return dErrors.New(dErrors.CodeValidation, "name, email, and message are required")
	}
	if !emailPattern.MatchString(m.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	return nil
}

type Handler struct {
	sender  mail.Sender
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Handler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func NewHandler(sender mail.Sender, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{sender: sender, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/contact", h.HandleContact)
}

// HandleContact implements POST /api/contact.
//
// Input: { "name": "...", "email": "...", "message": "..." }
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	if err := msg.validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	subject := fmt.Sprintf("Portfolio contact from %s", msg.Name)
	if err := h.sender.SendContact(ctx, msg.Name, msg.Email, subject, msg.Message); err != nil {
		h.logger.ErrorContext(ctx, "failed to relay contact message", "error", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "contact message relayed",
		"event", "contact_relayed",
		"log_type", "audit",
	)
	if h.metrics != nil {
		h.metrics.ContactMessages.Inc()
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Message sent successfully",
	})
}
