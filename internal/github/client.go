package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pullquest/backend/internal/apperr"
	"github.com/pullquest/backend/internal/models"
)

// Client is a minimal wrapper around GitHub's REST API v3.
// It is intentionally light—just the endpoints our services require.
type Client struct {
	http  *http.Client
	token string
}

// NewClient returns a ready-to-use GitHub API client.
// token may be an empty string, but you will be subject to very low rate-limits.
func NewClient(token string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		token: token,
	}
}

// ListUserRepos fetches a user's public repositories, most recently updated
// first.
func (c *Client) ListUserRepos(ctx context.Context, username string) ([]models.Repository, error) {
	u := fmt.Sprintf("https://api.github.com/users/%s/repos", url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("type", "public")
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("per_page", "100")
	req.URL.RawQuery = q.Encode()

	var repos []models.Repository
	if err := c.do(req, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetRepoLanguages returns the byte count per language for one repository.
func (c *Client) GetRepoLanguages(ctx context.Context, owner, name string) (map[string]int, error) {
	u := fmt.Sprintf("https://api.github.com/repos/%s/%s/languages", url.PathEscape(owner), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	langs := map[string]int{}
	if err := c.do(req, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// searchIssueItem is the shape of one hit from the issue search endpoint.
// The search API does not embed the repository, only its API URL, so the
// repository sub-document is reconstructed from repository_url.
type searchIssueItem struct {
	models.Issue
	RepositoryURL string `json:"repository_url"`
}

// SearchIssues finds open, starter-labelled issues in the given languages
// (at most five are used, mirroring GitHub's query limits).
func (c *Client) SearchIssues(ctx context.Context, languages []string) ([]models.Issue, error) {
	parts := []string{"state:open", "type:issue"}
	if len(languages) > 5 {
		languages = languages[:5]
	}
	if len(languages) > 0 {
		var langQ []string
		for _, l := range languages {
			langQ = append(langQ, fmt.Sprintf("language:%q", l))
		}
		parts = append(parts, "("+strings.Join(langQ, " OR ")+")")
	}
	parts = append(parts, `label:"good first issue" OR label:"help wanted" OR label:"beginner-friendly"`)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.github.com/search/issues", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("q", strings.Join(parts, " "))
	q.Set("sort", "updated")
	q.Set("order", "desc")
	q.Set("per_page", "50")
	req.URL.RawQuery = q.Encode()

	var body struct {
		Items []searchIssueItem `json:"items"`
	}
	if err := c.do(req, &body); err != nil {
		return nil, err
	}

	issues := make([]models.Issue, 0, len(body.Items))
	for _, item := range body.Items {
		issue := item.Issue
		if full := strings.TrimPrefix(item.RepositoryURL, "https://api.github.com/repos/"); full != item.RepositoryURL {
			issue.Repository.FullName = full
			if _, name, ok := strings.Cut(full, "/"); ok {
				issue.Repository.Name = name
			}
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// GetRepoDetails retrieves one repository's metadata, used to backfill the
// star count that the search API does not return.
func (c *Client) GetRepoDetails(ctx context.Context, owner, name string) (models.Repository, error) {
	u := fmt.Sprintf("https://api.github.com/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.Repository{}, err
	}

	var repo models.Repository
	if err := c.do(req, &repo); err != nil {
		return models.Repository{}, err
	}
	return repo, nil
}

// ListRepoIssues fetches issues for a repo.
//
//	owner – repository owner (e.g., "torvalds")
//	repo  – repository name  (e.g., "linux")
//	state – "open" | "closed" | "all"
//	perPage – max items per page (1–100)
func (c *Client) ListRepoIssues(ctx context.Context, owner, repo, state string, perPage int) ([]models.Issue, error) {
	u := fmt.Sprintf("https://api.github.com/repos/%s/%s/issues", url.PathEscape(owner), url.PathEscape(repo))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	if state != "" {
		q.Set("state", state)
	}
	if perPage > 0 {
		q.Set("per_page", fmt.Sprint(perPage))
	}
	req.URL.RawQuery = q.Encode()

	var issues []models.Issue
	if err := c.do(req, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// addHeaders sets authentication and Accept headers.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", "pullquest-backend")
}

// do executes the HTTP request and decodes JSON into v. Non-2xx responses
// surface as upstream_unavailable so the infrastructure layer can retry.
func (c *Client) do(req *http.Request, v interface{}) error {
	c.addHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.UpstreamUnavailable, err, "github request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return apperr.New(apperr.UpstreamUnavailable, "github: unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
