// Package handler exposes the content collections over HTTP: public reads
// and guarded admin CRUD.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/content/models"
	"folio/internal/content/service"
	dErrors "folio/pkg/domain-errors"
	"folio/pkg/platform/httputil"
)

type Handler struct {
	content *service.Service
	logger  *slog.Logger
}

func New(content *service.Service, logger *slog.Logger) *Handler {
	return &Handler{content: content, logger: logger}
}

// RegisterPublic mounts the unauthenticated read routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/projects", h.HandlePublicProjects)
	r.Get("/experience", h.HandleListExperience)
	r.Get("/skills", h.HandleListSkills)
	r.Get("/education", h.HandleListEducation)
}

// RegisterAdmin mounts the CRUD routes. The caller applies the admin guard.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.HandleListProjects)
		r.Post("/", h.HandleCreateProject)
		r.Put("/{id}", h.HandleUpdateProject)
		r.Delete("/{id}", h.HandleDeleteProject)
	})
	r.Route("/experience", func(r chi.Router) {
		r.Get("/", h.HandleListExperience)
		r.Post("/", h.HandleCreateExperience)
		r.Put("/{id}", h.HandleUpdateExperience)
		r.Delete("/{id}", h.HandleDeleteExperience)
	})
	r.Route("/skills", func(r chi.Router) {
		r.Get("/", h.HandleListSkills)
		r.Post("/", h.HandleCreateSkill)
		r.Put("/{id}", h.HandleUpdateSkill)
		r.Delete("/{id}", h.HandleDeleteSkill)
	})
	r.Route("/education", func(r chi.Router) {
		r.Get("/", h.HandleListEducation)
		r.Post("/", h.HandleCreateEducation)
		r.Put("/{id}", h.HandleUpdateEducation)
		r.Delete("/{id}", h.HandleDeleteEducation)
	})
}

// decode parses a JSON body into dst, reporting a bad_request domain error.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body")
	}
	return nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) HandlePublicProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.content.PublicProjects(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, projects)
}

func (h *Handler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.content.ListProjects(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, projects)
}

func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := decode(r, &p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := h.content.CreateProject(r.Context(), &p)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var p models.Project
	if err := decode(r, &p); err != nil {
		httputil.WriteError(w, err)
		return
	}
	updated, err := h.content.UpdateProject(r.Context(), id, &p)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.content.DeleteProject(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListExperience(w http.ResponseWriter, r *http.Request) {
	entries, err := h.content.ListExperience(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) HandleCreateExperience(w http.ResponseWriter, r *http.Request) {
	var e models.Experience
	if err := decode(r, &e); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := h.content.CreateExperience(r.Context(), &e)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var e models.Experience
	if err := decode(r, &e); err != nil {
		httputil.WriteError(w, err)
		return
	}
	updated, err := h.content.UpdateExperience(r.Context(), id, &e)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.content.DeleteExperience(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.content.ListSkills(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, skills)
}

func (h *Handler) HandleCreateSkill(w http.ResponseWriter, r *http.Request) {
	var sk models.Skill
	if err := decode(r, &sk); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := h.content.CreateSkill(r.Context(), &sk)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleUpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var sk models.Skill
	if err := decode(r, &sk); err != nil {
		httputil.WriteError(w, err)
		return
	}
	updated, err := h.content.UpdateSkill(r.Context(), id, &sk)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.content.DeleteSkill(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListEducation(w http.ResponseWriter, r *http.Request) {
	entries, err := h.content.ListEducation(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) HandleCreateEducation(w http.ResponseWriter, r *http.Request) {
	var e models.Education
	if err := decode(r, &e); err != nil {
		httputil.WriteError(w, err)
		return
	}
	created, err := h.content.CreateEducation(r.Context(), &e)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) HandleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var e models.Education
	if err := decode(r, &e); err != nil {
		httputil.WriteError(w, err)
		return
	}
	updated, err := h.content.UpdateEducation(r.Context(), id, &e)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.content.DeleteEducation(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
