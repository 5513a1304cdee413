package craft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/UnicornXOS/bl1nk-web-portal/services/cache"
)

const DefaultBaseURL = "https://connect.craft.do/links/2McInshMfLC/api/v1"

// Document filter modes for search and collection listing.
const (
	FilterInclude = "include"
	FilterExclude = "exclude"
)

type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	IsDeleted bool   `json:"isDeleted"`
}

// Block is a node of a document tree. Content holds child blocks.
type Block struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	TextStyle string  `json:"textStyle,omitempty"`
	Markdown  string  `json:"markdown,omitempty"`
	Content   []Block `json:"content,omitempty"`
}

type Collection struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	DocumentID string `json:"documentId"`
	Schema     struct {
		Name       string            `json:"name"`
		Properties []json.RawMessage `json:"properties"`
	} `json:"schema"`
}

type PathEntry struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type SearchResult struct {
	DocumentID    string      `json:"documentId"`
	Markdown      string      `json:"markdown"`
	BlockID       string      `json:"blockId,omitempty"`
	PageBlockPath []PathEntry `json:"pageBlockPath,omitempty"`
}

type BlocksQuery struct {
	ID            string
	MaxDepth      int
	FetchMetadata bool
}

type SearchBlocksQuery struct {
	DocumentID       string
	Pattern          string
	CaseSensitive    bool
	BeforeBlockCount int
	AfterBlockCount  int
}

// Client talks to a public Craft multi-document API link. It needs no credentials.
// Every method degrades to an empty result on failure and logs the cause.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	log        *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, c *cache.Cache, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		log:        log.Named("craft"),
	}
}

// GetDocuments lists every document of the link.
func (c *Client) GetDocuments(ctx context.Context) []Document {
	docs, err := cache.Fetch(ctx, c.cache, "craft:documents", func(ctx context.Context) ([]Document, error) {
		var resp struct {
			Items []Document `json:"items"`
		}
		if err := c.get(ctx, "/documents", &resp); err != nil {
			return nil, err
		}
		return resp.Items, nil
	})
	if err != nil {
		c.log.Warn("failed to fetch documents", zap.Error(err))
		return []Document{}
	}
	if docs == nil {
		return []Document{}
	}
	return docs
}

// InvalidateDocuments drops the cached document listing.
func (c *Client) InvalidateDocuments(ctx context.Context) error {
	return c.cache.Invalidate(ctx, "craft:documents")
}

// BaseURL is the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetBlocks returns the block tree rooted at q.ID; -1 depth means unlimited. Nil on failure.
func (c *Client) GetBlocks(ctx context.Context, q BlocksQuery) *Block {
	params := url.Values{}
	params.Set("id", q.ID)
	params.Set("maxDepth", strconv.Itoa(q.MaxDepth))
	params.Set("fetchMetadata", strconv.FormatBool(q.FetchMetadata))

	var block Block
	if err := c.get(ctx, "/blocks?"+params.Encode(), &block); err != nil {
		c.log.Warn("failed to fetch blocks", zap.String("id", q.ID), zap.Error(err))
		return nil
	}
	return &block
}

// SearchDocuments searches across documents, optionally restricted to (or excluding) documentIDs.
func (c *Client) SearchDocuments(ctx context.Context, query string, documentIDs []string, mode string) []SearchResult {
	params := url.Values{}
	params.Set("include", query)
	params.Set("documentFilterMode", filterMode(mode))
	for _, id := range documentIDs {
		params.Add("documentIds", id)
	}

	var resp struct {
		Items []SearchResult `json:"items"`
	}
	if err := c.get(ctx, "/documents/search?"+params.Encode(), &resp); err != nil {
		c.log.Warn("failed to search documents", zap.Error(err))
		return []SearchResult{}
	}
	return nonNil(resp.Items)
}

// SearchBlocks searches within one document and returns matches with surrounding context.
func (c *Client) SearchBlocks(ctx context.Context, q SearchBlocksQuery) []SearchResult {
	params := url.Values{}
	params.Set("documentId", q.DocumentID)
	params.Set("pattern", q.Pattern)
	params.Set("caseSensitive", strconv.FormatBool(q.CaseSensitive))
	params.Set("beforeBlockCount", strconv.Itoa(q.BeforeBlockCount))
	params.Set("afterBlockCount", strconv.Itoa(q.AfterBlockCount))

	var resp struct {
		Items []SearchResult `json:"items"`
	}
	if err := c.get(ctx, "/blocks/search?"+params.Encode(), &resp); err != nil {
		c.log.Warn("failed to search blocks", zap.String("documentId", q.DocumentID), zap.Error(err))
		return []SearchResult{}
	}
	return nonNil(resp.Items)
}

func (c *Client) GetCollections(ctx context.Context, documentIDs []string, mode string) []Collection {
	params := url.Values{}
	params.Set("documentFilterMode", filterMode(mode))
	for _, id := range documentIDs {
		params.Add("documentIds", id)
	}

	var resp struct {
		Items []Collection `json:"items"`
	}
	if err := c.get(ctx, "/collections?"+params.Encode(), &resp); err != nil {
		c.log.Warn("failed to fetch collections", zap.Error(err))
		return []Collection{}
	}
	if resp.Items == nil {
		return []Collection{}
	}
	return resp.Items
}

// GetCollectionSchema returns the raw schema document; format is json-schema-items (default) or schema.
func (c *Client) GetCollectionSchema(ctx context.Context, collectionID, format string) json.RawMessage {
	if format != "schema" {
		format = "json-schema-items"
	}
	var raw json.RawMessage
	endpoint := fmt.Sprintf("/collections/%s/schema?format=%s", url.PathEscape(collectionID), format)
	if err := c.get(ctx, endpoint, &raw); err != nil {
		c.log.Warn("failed to fetch collection schema", zap.String("collection", collectionID), zap.Error(err))
		return nil
	}
	return raw
}

func (c *Client) GetCollectionItems(ctx context.Context, collectionID string, maxDepth int) []json.RawMessage {
	var resp struct {
		Items []json.RawMessage `json:"items"`
	}
	endpoint := fmt.Sprintf("/collections/%s/items?maxDepth=%d", url.PathEscape(collectionID), maxDepth)
	if err := c.get(ctx, endpoint, &resp); err != nil {
		c.log.Warn("failed to fetch collection items", zap.String("collection", collectionID), zap.Error(err))
		return []json.RawMessage{}
	}
	if resp.Items == nil {
		return []json.RawMessage{}
	}
	return resp.Items
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("Craft API error: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func filterMode(mode string) string {
	if mode == FilterExclude {
		return FilterExclude
	}
	return FilterInclude
}

func nonNil(items []SearchResult) []SearchResult {
	if items == nil {
		return []SearchResult{}
	}
	return items
}
