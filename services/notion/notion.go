package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/UnicornXOS/bl1nk-web-portal/services/cache"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	Version        = "2022-06-28"
)

var (
	ErrNotConfigured         = errors.New("Notion token not configured")
	ErrDatabaseNotConfigured = errors.New("Notion database ID not configured")
)

// APIError is a non-2xx answer from the Notion API.
type APIError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Notion API error: %d %s - %s", e.Status, e.StatusText, e.Body)
}

// Page is a database row reduced to what listings need.
type Page struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	CreatedTime    string `json:"created_time"`
	LastEditedTime string `json:"last_edited_time"`
	URL            string `json:"url"`
	Archived       bool   `json:"archived"`
}

type Block struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Text        string `json:"text"`
	HasChildren bool   `json:"has_children"`
}

type DatabaseInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	CreatedTime    string `json:"created_time"`
	LastEditedTime string `json:"last_edited_time"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type apiPage struct {
	ID             string          `json:"id"`
	CreatedTime    string          `json:"created_time"`
	LastEditedTime string          `json:"last_edited_time"`
	Archived       bool            `json:"archived"`
	URL            string          `json:"url"`
	Properties     json.RawMessage `json:"properties"`
}

type queryResponse struct {
	Results []apiPage `json:"results"`
}

type Client struct {
	baseURL    string
	token      string
	databaseID string
	httpClient *http.Client
	cache      *cache.Cache
}

func NewClient(baseURL, token, databaseID string, timeout time.Duration, c *cache.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		databaseID: databaseID,
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
	}
}

// Configured reports whether a token is set.
func (c *Client) Configured() bool {
	return c.token != ""
}

// GetPages lists every page of the configured database (first 100).
func (c *Client) GetPages(ctx context.Context) ([]Page, error) {
	if err := c.requireDatabase(); err != nil {
		return nil, err
	}
	return cache.Fetch(ctx, c.cache, "notion:pages:"+c.databaseID, func(ctx context.Context) ([]Page, error) {
		return c.queryDatabase(ctx, map[string]interface{}{"page_size": 100})
	})
}

// InvalidatePages drops the cached database listing.
func (c *Client) InvalidatePages(ctx context.Context) error {
	return c.cache.Invalidate(ctx, "notion:pages:"+c.databaseID)
}

// SearchPages filters the database by a "Name" rich_text contains match.
func (c *Client) SearchPages(ctx context.Context, query string) ([]Page, error) {
	if err := c.requireDatabase(); err != nil {
		return nil, err
	}
	return c.queryDatabase(ctx, map[string]interface{}{
		"filter": map[string]interface{}{
			"property":  "Name",
			"rich_text": map[string]string{"contains": query},
		},
		"page_size": 50,
	})
}

// GetPageContent returns the first 100 child blocks of a page as plain text.
func (c *Client) GetPageContent(ctx context.Context, pageID string) ([]Block, error) {
	var resp struct {
		Results []map[string]json.RawMessage `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/blocks/"+pageID+"/children?page_size=100", nil, &resp); err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(resp.Results))
	for _, raw := range resp.Results {
		blocks = append(blocks, decodeBlock(raw))
	}
	return blocks, nil
}

func (c *Client) GetDatabaseInfo(ctx context.Context) (*DatabaseInfo, error) {
	if err := c.requireDatabase(); err != nil {
		return nil, err
	}
	var resp struct {
		ID             string `json:"id"`
		URL            string `json:"url"`
		CreatedTime    string `json:"created_time"`
		LastEditedTime string `json:"last_edited_time"`
		Title          []struct {
			Type string `json:"type"`
			Text struct {
				Content string `json:"content"`
			} `json:"text"`
		} `json:"title"`
	}
	if err := c.do(ctx, http.MethodGet, "/databases/"+c.databaseID, nil, &resp); err != nil {
		return nil, err
	}
	var title strings.Builder
	for _, t := range resp.Title {
		if t.Type == "text" {
			title.WriteString(t.Text.Content)
		}
	}
	return &DatabaseInfo{
		ID:             resp.ID,
		Title:          title.String(),
		URL:            resp.URL,
		CreatedTime:    resp.CreatedTime,
		LastEditedTime: resp.LastEditedTime,
	}, nil
}

func (c *Client) requireDatabase() error {
	switch {
	case c.token == "":
		return ErrNotConfigured
	case c.databaseID == "":
		return ErrDatabaseNotConfigured
	}
	return nil
}

func (c *Client) queryDatabase(ctx context.Context, body interface{}) ([]Page, error) {
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+c.databaseID+"/query", body, &resp); err != nil {
		return nil, err
	}
	pages := make([]Page, 0, len(resp.Results))
	for _, p := range resp.Results {
		pages = append(pages, Page{
			ID:             p.ID,
			Title:          ExtractTitle(p.Properties),
			CreatedTime:    p.CreatedTime,
			LastEditedTime: p.LastEditedTime,
			URL:            p.URL,
			Archived:       p.Archived,
		})
	}
	return pages, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	if c.token == "" {
		return ErrNotConfigured
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", Version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode), Body: string(msg)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
