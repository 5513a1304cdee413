package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnicornXOS/bl1nk-web-portal/services/cache"
)

const (
	DefaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github.v3+json"
	perPage        = 30
)

// ExternalAPIError is a non-2xx answer from the GitHub API.
type ExternalAPIError struct {
	Status     int
	StatusText string
}

func (e *ExternalAPIError) Error() string {
	return "GitHub API error: " + e.StatusText
}

// Repo is the subset of repository fields the portal uses.
type Repo struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	URL         string   `json:"url"`
	Stars       int      `json:"stars"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updatedAt"`
}

type UserInfo struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	AvatarURL   string  `json:"avatar_url"`
	Bio         *string `json:"bio"`
	PublicRepos int     `json:"public_repos"`
}

type SearchResult struct {
	Items      []Repo `json:"items"`
	TotalCount int    `json:"total_count"`
}

// apiRepo mirrors the GitHub response shape.
type apiRepo struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     *string  `json:"description"`
	HTMLURL         string   `json:"html_url"`
	StargazersCount int      `json:"stargazers_count"`
	Language        *string  `json:"language"`
	Topics          []string `json:"topics"`
	UpdatedAt       string   `json:"updated_at"`
}

func (r apiRepo) toRepo() Repo {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return Repo{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		URL:         r.HTMLURL,
		Stars:       r.StargazersCount,
		Language:    r.Language,
		Topics:      topics,
		UpdatedAt:   r.UpdatedAt,
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
}

func NewClient(baseURL string, timeout time.Duration, c *cache.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
	}
}

// ListRepos returns a user's repositories, most recently updated first.
// Token-authenticated calls bypass the shared cache.
func (c *Client) ListRepos(ctx context.Context, username, token string) ([]Repo, error) {
	load := func(ctx context.Context) ([]Repo, error) {
		var raw []apiRepo
		endpoint := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=%d", url.PathEscape(username), perPage)
		if err := c.get(ctx, endpoint, token, &raw); err != nil {
			return nil, err
		}
		repos := make([]Repo, 0, len(raw))
		for _, r := range raw {
			repos = append(repos, r.toRepo())
		}
		return repos, nil
	}
	if token != "" {
		return load(ctx)
	}
	return cache.Fetch(ctx, c.cache, "github:repos:"+strings.ToLower(username), load)
}

// InvalidateRepos drops the cached listing for username.
func (c *Client) InvalidateRepos(ctx context.Context, username string) error {
	return c.cache.Invalidate(ctx, "github:repos:"+strings.ToLower(username))
}

func (c *Client) GetUser(ctx context.Context, username, token string) (*UserInfo, error) {
	var u UserInfo
	if err := c.get(ctx, "/users/"+url.PathEscape(username), token, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SearchRepositories queries repositories; language is appended as a qualifier.
// sort is one of stars, forks, updated and defaults to stars.
func (c *Client) SearchRepositories(ctx context.Context, query, language, sort, token string) (*SearchResult, error) {
	q := query
	if language != "" {
		q += " language:" + language
	}
	switch sort {
	case "stars", "forks", "updated":
	default:
		sort = "stars"
	}

	var raw struct {
		TotalCount int       `json:"total_count"`
		Items      []apiRepo `json:"items"`
	}
	endpoint := fmt.Sprintf("/search/repositories?q=%s&sort=%s&per_page=%d", url.QueryEscape(q), sort, perPage)
	if err := c.get(ctx, endpoint, token, &raw); err != nil {
		return nil, err
	}
	out := &SearchResult{TotalCount: raw.TotalCount, Items: make([]Repo, 0, len(raw.Items))}
	for _, r := range raw.Items {
		out.Items = append(out.Items, r.toRepo())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &ExternalAPIError{Status: resp.StatusCode, StatusText: statusText(resp)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusText returns the reason phrase, e.g. "Not Found" for "404 Not Found".
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
