// Package github proxies the public GitHub API for the admin dashboard:
// repository import, language lookup, and portfolio analytics.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"folio/internal/content/models"
	dErrors "folio/pkg/domain-errors"
)

const defaultBaseURL = "https://api.github.com"

// Client is a thin read-only client for api.github.com. Unauthenticated:
// the portfolio only reads public repository metadata.
type Client struct {
	baseURL string
	http    *http.Client
}

type ClientOption func(*Client)

// WithBaseURL points the client at a different API host. Used by tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// repo is the subset of the GitHub repository payload the dashboard uses.
type repo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Homepage    string `json:"homepage"`
	Stargazers  int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	Language    string `json:"language"`
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build GitHub request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstreamFailed, "GitHub request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Do not leak upstream response details to the caller.
		return dErrors.New(dErrors.CodeUpstreamFailed, fmt.Sprintf("GitHub returned status %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstreamFailed, "failed to decode GitHub response")
	}
	return nil
}

// ListRepos fetches the user's repositories mapped to hidden project drafts,
// ready for the admin to review and publish.
func (c *Client) ListRepos(ctx context.Context, username string) ([]*models.Project, error) {
	var repos []repo
	path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=100", username)
	if err := c.get(ctx, path, &repos); err != nil {
		return nil, err
	}

	drafts := make([]*models.Project, 0, len(repos))
	for _, r := range repos {
		desc := r.Description
		if desc == "" {
			desc = "No description available"
		}
		drafts = append(drafts, &models.Project{
			Title:       r.Name,
			Description: desc,
			RepoURL:     r.HTMLURL,
			DemoURL:     r.Homepage,
			Visible:     false,
			Stars:       r.Stargazers,
			Forks:       r.Forks,
			Language:    r.Language,
		})
	}
	return drafts, nil
}

// Languages returns the language names used in a repository, largest share first.
func (c *Client) Languages(ctx context.Context, owner, repoName string) ([]string, error) {
	var byBytes map[string]int64
	path := fmt.Sprintf("/repos/%s/%s/languages", owner, repoName)
	if err := c.get(ctx, path, &byBytes); err != nil {
		return nil, err
	}

	languages := make([]string, 0, len(byBytes))
	for name := range byBytes {
		languages = append(languages, name)
	}
	sort.Slice(languages, func(i, j int) bool {
		if byBytes[languages[i]] != byBytes[languages[j]] {
			return byBytes[languages[i]] > byBytes[languages[j]]
		}
		return languages[i] < languages[j]
	})
	return languages, nil
}
