package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folio/internal/sentinel"
	dErrors "folio/pkg/domain-errors"
	"folio/pkg/platform/httputil"
)

// Handler serves the settings document and the asset upload endpoints.
type Handler struct {
	store    Store
	uploader *Uploader
	logger   *slog.Logger
}

func NewHandler(store Store, uploader *Uploader, logger *slog.Logger) *Handler {
	return &Handler{store: store, uploader: uploader, logger: logger}
}

// RegisterPublic mounts the unauthenticated read route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/settings", h.HandleGet)
}

// RegisterAdmin mounts the guarded routes.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/settings", h.HandleGet)
	r.Put("/settings", h.HandleUpdate)
	r.Post("/settings/upload-cv", h.uploadHandler(UploadCV))
	r.Post("/settings/upload-avatar", h.uploadHandler(UploadAvatar))
	r.Post("/settings/upload-3d-model", h.uploadHandler(UploadModel))
	r.Post("/settings/upload-profile-image", h.uploadHandler(UploadProfileImage))
}

// Get returns the saved document, or defaults when nothing is saved yet.
func (h *Handler) Get(ctx context.Context) (*Settings, error) {
	doc, err := h.store.Get(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Defaults(), nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return doc, nil
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var doc Settings
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	if err := h.store.Save(r.Context(), &doc); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save settings"))
		return
	}
	h.logger.InfoContext(r.Context(), "settings updated", "event", "settings_updated", "log_type", "audit")
	httputil.WriteJSON(w, http.StatusOK, &doc)
}

// uploadHandler builds the multipart endpoint for one asset kind. The form
// field name matches the kind.
func (h *Handler) uploadHandler(kind UploadKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid or oversized multipart body"))
			return
		}
		file, header, err := r.FormFile(string(kind))
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "no file uploaded"))
			return
		}
		defer file.Close()

		stored, err := h.uploader.Save(kind, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		h.logger.InfoContext(r.Context(), "asset uploaded",
			"event", "asset_uploaded",
			"kind", string(kind),
			"filename", stored,
			"log_type", "audit",
		)
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"filename": stored,
		})
	}
}
