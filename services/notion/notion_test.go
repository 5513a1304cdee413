package notion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name  string
		props string
		want  string
	}{
		{"title property", `{"Name": {"type": "title", "title": [{"plain_text": "Road"}, {"plain_text": "map"}]}}`, "Roadmap"},
		{"rich text fallback", `{"Notes": {"type": "rich_text", "rich_text": [{"plain_text": "Fallback"}]}, "Name": {"type": "title", "title": []}}`, "Fallback"},
		{"title wins over earlier rich text", `{"A": {"type": "rich_text", "rich_text": [{"plain_text": "rt"}]}, "B": {"type": "title", "title": [{"plain_text": "T"}]}}`, "T"},
		{"first rich text in key order", `{"Z": {"type": "rich_text", "rich_text": [{"plain_text": "z"}]}, "A": {"type": "rich_text", "rich_text": [{"plain_text": "a"}]}}`, "z"},
		{"nothing usable", `{"Tags": {"type": "multi_select", "multi_select": []}}`, "Untitled"},
		{"empty", `{}`, "Untitled"},
		{"garbage", `[]`, "Untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(json.RawMessage(tt.props)))
		})
	}
}

func TestMissingConfiguration(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient("", "", "db", time.Second, nil).GetPages(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, "Notion token not configured", err.Error())

	_, err = NewClient("", "tok", "", time.Second, nil).GetPages(ctx)
	assert.ErrorIs(t, err, ErrDatabaseNotConfigured)

	_, err = NewClient("", "", "", time.Second, nil).GetPageContent(ctx, "p")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGetPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db1/query", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"page_size": 100}`, string(body))
		_, _ = w.Write([]byte(`{"results": [
			{"id": "p1", "created_time": "2024-01-01T00:00:00.000Z", "last_edited_time": "2024-02-01T00:00:00.000Z",
			 "archived": false, "url": "https://notion.so/p1",
			 "properties": {"Name": {"type": "title", "title": [{"plain_text": "Roadmap"}]}}}
		], "has_more": false}`))
	}))
	defer srv.Close()

	pages, err := NewClient(srv.URL, "secret", "db1", time.Second, nil).GetPages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, Page{
		ID:             "p1",
		Title:          "Roadmap",
		CreatedTime:    "2024-01-01T00:00:00.000Z",
		LastEditedTime: "2024-02-01T00:00:00.000Z",
		URL:            "https://notion.so/p1",
	}, pages[0])
}

func TestSearchPagesSendsNameFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"filter": {"property": "Name", "rich_text": {"contains": "road"}}, "page_size": 50}`, string(body))
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	pages, err := NewClient(srv.URL, "secret", "db1", time.Second, nil).SearchPages(context.Background(), "road")
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestGetPageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blocks/p1/children", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("page_size"))
		_, _ = w.Write([]byte(`{"results": [
			{"id": "b1", "type": "heading_1", "has_children": false, "heading_1": {"rich_text": [{"plain_text": "Intro"}]}},
			{"id": "b2", "type": "paragraph", "has_children": true, "paragraph": {"rich_text": [{"plain_text": "Hello "}, {"plain_text": "world"}]}},
			{"id": "b3", "type": "image", "has_children": false, "image": {}}
		]}`))
	}))
	defer srv.Close()

	blocks, err := NewClient(srv.URL, "secret", "db1", time.Second, nil).GetPageContent(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []Block{
		{ID: "b1", Type: "heading_1", Text: "Intro"},
		{ID: "b2", Type: "paragraph", Text: "Hello world", HasChildren: true},
		{ID: "b3", Type: "image", Text: ""},
	}, blocks)
}

func TestGetDatabaseInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "db1", "url": "https://notion.so/db1", "created_time": "c", "last_edited_time": "e",
			"title": [{"type": "text", "text": {"content": "Company "}}, {"type": "mention", "text": {"content": "x"}}, {"type": "text", "text": {"content": "Docs"}}]}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL, "secret", "db1", time.Second, nil).GetDatabaseInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Company Docs", info.Title)
	assert.Equal(t, "db1", info.ID)
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"API token is invalid."}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", "db1", time.Second, nil).GetPages(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, err.Error(), "Notion API error: 401 Unauthorized")
}
