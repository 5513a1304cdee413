package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnicornXOS/bl1nk-web-portal/services/cache"
)

const reposJSON = `[
  {"id": 1, "name": "portal", "description": "web portal", "html_url": "https://github.com/octo/portal",
   "stargazers_count": 150, "language": "Go", "topics": null, "updated_at": "2024-03-04T10:00:00Z"},
  {"id": 2, "name": "notes", "description": null, "html_url": "https://github.com/octo/notes",
   "stargazers_count": 3, "language": null, "topics": ["md"], "updated_at": "2024-01-01T00:00:00Z"}
]`

func TestListReposMapsFieldsAndHeaders(t *testing.T) {
	var gotPath, gotQuery, gotAccept, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		gotAccept, gotAuth = r.Header.Get("Accept"), r.Header.Get("Authorization")
		_, _ = w.Write([]byte(reposJSON))
	}))
	defer srv.Close()

	repos, err := NewClient(srv.URL, time.Second, nil).ListRepos(context.Background(), "octo", "tok")
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "/users/octo/repos", gotPath)
	assert.Equal(t, "sort=updated&per_page=30", gotQuery)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
	assert.Equal(t, "token tok", gotAuth)

	assert.Equal(t, int64(1), repos[0].ID)
	assert.Equal(t, "https://github.com/octo/portal", repos[0].URL)
	assert.Equal(t, 150, repos[0].Stars)
	assert.Equal(t, []string{}, repos[0].Topics)
	assert.Nil(t, repos[1].Description)
	assert.Nil(t, repos[1].Language)
}

func TestListReposNoTokenNoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	repos, err := NewClient(srv.URL, time.Second, nil).ListRepos(context.Background(), "octo", "")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestListReposErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).ListRepos(context.Background(), "ghost", "")
	require.Error(t, err)
	assert.Equal(t, "GitHub API error: Not Found", err.Error())

	var apiErr *ExternalAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestListReposUsesCacheWithoutToken(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(reposJSON))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	c := cache.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, nil)
	client := NewClient(srv.URL, time.Second, c)

	for i := 0; i < 3; i++ {
		repos, err := client.ListRepos(context.Background(), "Octo", "")
		require.NoError(t, err)
		assert.Len(t, repos, 2)
	}
	assert.Equal(t, 1, hits)

	_, err := client.ListRepos(context.Background(), "Octo", "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, hits, "token calls bypass the cache")
}

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octo", r.URL.Path)
		_, _ = w.Write([]byte(`{"login":"octo","name":null,"avatar_url":"https://a/x.png","bio":"hi","public_repos":8}`))
	}))
	defer srv.Close()

	u, err := NewClient(srv.URL, time.Second, nil).GetUser(context.Background(), "octo", "")
	require.NoError(t, err)
	assert.Equal(t, "octo", u.Login)
	assert.Nil(t, u.Name)
	assert.Equal(t, 8, u.PublicRepos)
}

func TestSearchRepositoriesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "cli language:go", r.URL.Query().Get("q"))
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`{"total_count": 1, "items": [{"id": 9, "name": "cobra", "html_url": "https://github.com/spf13/cobra", "stargazers_count": 9000}]}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second, nil).SearchRepositories(context.Background(), "cli", "go", "bogus", "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "cobra", res.Items[0].Name)
}

func TestRequestHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL, 5*time.Second, nil).ListRepos(ctx, "octo", "tok")
	assert.Error(t, err)
}
