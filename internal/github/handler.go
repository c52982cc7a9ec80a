package github

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	contentservice "folio/internal/content/service"
	dErrors "folio/pkg/domain-errors"
	"folio/pkg/platform/httputil"
)

// Handler exposes the GitHub dashboard endpoints. All routes sit behind the
// admin guard.
type Handler struct {
	client   *Client
	content  *contentservice.Service
	username string
	logger   *slog.Logger
}

func NewHandler(client *Client, content *contentservice.Service, username string, logger *slog.Logger) *Handler {
	return &Handler{client: client, content: content, username: username, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/github-repos", h.HandleListRepos)
	r.Get("/github-repos/{owner}/{repo}/languages", h.HandleLanguages)
	r.Post("/bulk-update", h.HandleBulkUpdate)
	r.Get("/analytics", h.HandleAnalytics)
}

func (h *Handler) HandleListRepos(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.client.ListRepos(r.Context(), h.username)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list GitHub repos", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, drafts)
}

func (h *Handler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repoName := chi.URLParam(r, "repo")
	languages, err := h.client.Languages(r.Context(), owner, repoName)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch repo languages",
			"error", err,
			"owner", owner,
			"repo", repoName,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, languages)
}

// HandleBulkUpdate applies visibility and feature toggles to stored projects,
// keyed by repository URL.
//
// Input: { "updates": [ { "repo_url": "...", "visible": true, "featured": false } ] }
func (h *Handler) HandleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Updates []struct {
			RepoURL  string `json:"repo_url"`
			Visible  bool   `json:"visible"`
			Featured bool   `json:"featured"`
		} `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON in request body"))
		return
	}
	if len(req.Updates) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "updates are required"))
		return
	}

	changes := make(map[string]contentservice.ProjectFlags, len(req.Updates))
	for _, u := range req.Updates {
		if u.RepoURL == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "repo_url is required on every update"))
			return
		}
		changes[u.RepoURL] = contentservice.ProjectFlags{Visible: u.Visible, Featured: u.Featured}
	}

	count, err := h.content.BulkUpdateProjects(r.Context(), changes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"updated": count,
	})
}

// Analytics is the dashboard summary payload.
type Analytics struct {
	TotalProjects   int `json:"total_projects"`
	VisibleProjects int `json:"visible_projects"`
	TotalStars      int `json:"total_stars"`
	TotalExperience int `json:"total_experience"`
	TotalSkills     int `json:"total_skills"`
}

func (h *Handler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projects, err := h.content.ListProjects(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	experience, err := h.content.ListExperience(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	skills, err := h.content.ListSkills(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stats := Analytics{
		TotalProjects:   len(projects),
		TotalExperience: len(experience),
		TotalSkills:     len(skills),
	}
	for _, p := range projects {
		if p.Visible {
			stats.VisibleProjects++
		}
		stats.TotalStars += p.Stars
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
