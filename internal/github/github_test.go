package github

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

	"folio/internal/content/models"
	contentservice "folio/internal/content/service"
	contentstore "folio/internal/content/store"
	dErrors "folio/pkg/domain-errors"
)

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"spoon-knife","description":"demo","html_url":"https://github.com/octocat/spoon-knife","stargazers_count":12,"forks_count":3,"language":"Go"},
			{"name":"empty","description":null,"html_url":"https://github.com/octocat/empty","stargazers_count":0,"forks_count":0}
		]`))
	})
	mux.HandleFunc("/repos/octocat/spoon-knife/languages", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Go":5000,"Makefile":100,"Shell":100}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListReposMapsToHiddenDrafts(t *testing.T) {
	srv := fakeGitHub(t)
	client := NewClient(WithBaseURL(srv.URL))

	drafts, err := client.ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "spoon-knife", drafts[0].Title)
	assert.Equal(t, 12, drafts[0].Stars)
	assert.False(t, drafts[0].Visible, "imported drafts start hidden")
	assert.Equal(t, "No description available", drafts[1].Description)
}

func TestLanguagesSortedByShare(t *testing.T) {
	srv := fakeGitHub(t)
	client := NewClient(WithBaseURL(srv.URL))

	languages, err := client.Languages(context.Background(), "octocat", "spoon-knife")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Makefile", "Shell"}, languages)
}

func TestUpstreamFailureIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"API rate limit exceeded for 1.2.3.4"}`, http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(WithBaseURL(srv.URL))

	_, err := client.ListRepos(context.Background(), "octocat")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstreamFailed))
	assert.NotContains(t, err.Error(), "rate limit", "upstream details must not leak")
}

func newDashboard(t *testing.T) (chi.Router, *contentservice.Service) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	content := contentservice.NewService(contentstore.NewMemoryStores(), contentservice.WithLogger(logger))
	h := NewHandler(NewClient(), content, "octocat", logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, content
}

func TestBulkUpdateOverHTTP(t *testing.T) {
	router, content := newDashboard(t)
	ctx := context.Background()

	_, err := content.CreateProject(ctx, &models.Project{Title: "a", RepoURL: "https://github.com/octocat/a"})
	require.NoError(t, err)

	body := `{"updates":[{"repo_url":"https://github.com/octocat/a","visible":true,"featured":true}]}`
	req := httptest.NewRequest(http.MethodPost, "/bulk-update", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())
}

func TestBulkUpdateValidation(t *testing.T) {
	router, _ := newDashboard(t)

	for name, body := range map[string]string{
		"empty updates":    `{"updates":[]}`,
		"missing repo_url": `{"updates":[{"visible":true}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/bulk-update", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalytics(t *testing.T) {
	router, content := newDashboard(t)
	ctx := context.Background()

	_, err := content.CreateProject(ctx, &models.Project{Title: "a", Visible: true, Stars: 10})
	require.NoError(t, err)
	_, err = content.CreateProject(ctx, &models.Project{Title: "b", Stars: 5})
	require.NoError(t, err)
	_, err = content.CreateSkill(ctx, &models.Skill{Name: "Go", Category: "backend"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats Analytics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 1, stats.VisibleProjects)
	assert.Equal(t, 15, stats.TotalStars)
	assert.Equal(t, 1, stats.TotalSkills)
}
