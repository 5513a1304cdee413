package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/UnicornXOS/bl1nk-web-portal/config"
	"github.com/UnicornXOS/bl1nk-web-portal/controllers"
	"github.com/UnicornXOS/bl1nk-web-portal/database"
	"github.com/UnicornXOS/bl1nk-web-portal/database/dbtest"
	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/users"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

const testSecret = "test-secret"

type testEnv struct {
	app *App
	db  *gorm.DB
	mr  *miniredis.Miniredis
	cfg *config.Config
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config), opts Options) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db := dbtest.Open(t)
	require.NoError(t, database.SeedAgents(db, ""))
	require.NoError(t, database.SeedAgentProfiles(db))

	cfg := &config.Config{
		JWTSecret:         testSecret,
		JWTTTL:            time.Hour,
		EncryptionSecret:  "enc-secret",
		CacheTTL:          time.Minute,
		HTTPTimeout:       2 * time.Second,
		CraftAPIURL:       "http://127.0.0.1:1",
		GitHubAPIURL:      "http://127.0.0.1:1",
		NotionAPIURL:      "http://127.0.0.1:1",
		ChatRatePerMinute: 5,
		CORSOrigins:       []string{"http://localhost:3000"},
	}
	if mutate != nil {
		mutate(cfg)
	}
	a, err := New(cfg, db, rdb, nil, opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		a.Stop()
		utils.SetRedis(nil)
	})
	return &testEnv{app: a, db: db, mr: mr, cfg: cfg}
}

func (e *testEnv) token(t *testing.T, openID, role string) string {
	t.Helper()
	u := dbtest.CreateUser(t, e.db, openID, role)
	tok, err := utils.GenerateJWT(u.ID, u.Role, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	w := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestFavoritesRequireAuth(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	w := e.do(t, http.MethodGet, "/api/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/api/favorites", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoritesFlow(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	tok := e.token(t, "github:1", models.RoleUser)

	fav := map[string]interface{}{
		"contentId":    "github-42",
		"contentType":  "github",
		"contentTitle": "kit",
		"contentUrl":   "https://github.com/acme/kit",
		"tags":         []string{"go"},
	}
	w := e.do(t, http.MethodPost, "/api/favorites", tok, fav)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	w = e.do(t, http.MethodPost, "/api/favorites", tok, fav)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Already added to favorites", body["error"])

	w = e.do(t, http.MethodGet, "/api/favorites/count", tok, nil)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = e.do(t, http.MethodGet, "/api/favorites/github-42/status", tok, nil)
	assert.Equal(t, true, decode(t, w)["isFavorited"])

	w = e.do(t, http.MethodDelete, "/api/favorites/github-42", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodDelete, "/api/favorites/github-42", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/favorites/github-42/status", tok, nil)
	assert.Equal(t, false, decode(t, w)["isFavorited"])
}

func TestFavoriteAddRejectsInvalidBody(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	tok := e.token(t, "github:1", models.RoleUser)

	w := e.do(t, http.MethodPost, "/api/favorites", tok, map[string]interface{}{
		"contentId":    "x",
		"contentTitle": "x",
		"contentUrl":   "not a url",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "contentUrl")
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	tok := e.token(t, "google:7", models.RoleUser)

	w := e.do(t, http.MethodGet, "/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, e.mr.Exists("blacklist:"+tok))

	w = e.do(t, http.MethodGet, "/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAgentsList(t *testing.T) {
	e := newTestEnv(t, nil, Options{})

	w := e.do(t, http.MethodGet, "/api/agents?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Agents []models.Agent `json:"agents"`
		Total  int64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.EqualValues(t, 6, res.Total)
	require.Len(t, res.Agents, 2)
	assert.Equal(t, "React Component Library", res.Agents[0].Name)

	w = e.do(t, http.MethodGet, "/api/agents?limit=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/agents/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAgentDownloadCounter(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	var a models.Agent
	require.NoError(t, e.db.Where("name = ?", "YAML Config Parser").First(&a).Error)

	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/agents/%d/downloads", a.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, e.db.First(&a, a.ID).Error)
	assert.Equal(t, 99, a.DownloadCount)
}

func TestAdminOnlyMutations(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	userTok := e.token(t, "github:2", models.RoleUser)
	adminTok := e.token(t, "github:3", models.RoleAdmin)

	agent := map[string]interface{}{
		"name":        "Go Linter",
		"description": "Runs vet and staticcheck",
		"language":    "ts",
		"endpoint":    "/agents/go-linter",
		"tags":        []string{"go"},
		"author":      "bl1nk",
		"isPublic":    true,
	}
	w := e.do(t, http.MethodPost, "/api/agents", userTok, agent)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, "/api/agents", adminTok, agent)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	card := map[string]interface{}{
		"title":       "Runbook",
		"description": "On-call notes",
		"source":      "gitbook",
		"url":         "https://docs.example.com/runbook",
	}
	w = e.do(t, http.MethodPost, "/api/content/cards", userTok, card)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Admin access required")

	w = e.do(t, http.MethodPost, "/api/content/cards", adminTok, card)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestContentValidate(t *testing.T) {
	e := newTestEnv(t, nil, Options{})

	w := e.do(t, http.MethodPost, "/api/content/validate", "", map[string]interface{}{
		"id":          "c1",
		"title":       "",
		"description": "ok",
		"source":      "dropbox",
		"url":         "https://example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]interface{})
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "source")

	w = e.do(t, http.MethodPost, "/api/content/validate", "", map[string]interface{}{
		"id":          "c1",
		"title":       "Guide",
		"description": "ok",
		"source":      "notion",
		"url":         "https://example.com",
		"tags":        []string{"a"},
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAggregateMergesSourcesAndFavorites(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/users/octo/repos") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"id":7,"name":"cli-kit","description":"Terminal toolkit","html_url":"https://github.com/octo/cli-kit","stargazers_count":150,"language":"Go","topics":["cli"],"updated_at":"2024-02-01T00:00:00Z"}]`)
	}))
	defer gh.Close()
	craft := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"id":"d1","title":"Team Dashboard"}]}`)
	}))
	defer craft.Close()

	e := newTestEnv(t, func(cfg *config.Config) {
		cfg.GitHubAPIURL = gh.URL
		cfg.GitHubUsername = "octo"
		cfg.CraftAPIURL = craft.URL
	}, Options{})
	tok := e.token(t, "github:9", models.RoleUser)

	w := e.do(t, http.MethodPost, "/api/favorites", tok, map[string]interface{}{
		"contentId":    "github-7",
		"contentType":  "github",
		"contentTitle": "cli-kit",
		"contentUrl":   "https://github.com/octo/cli-kit",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, "/api/content", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Featured  []models.ContentItem `json:"featured"`
		Regular   []models.ContentItem `json:"regular"`
		Favorites []models.ContentItem `json:"favorites"`
		Total     int                  `json:"total"`
		Sources   []struct {
			Name    string `json:"name"`
			Count   int    `json:"count"`
			Skipped bool   `json:"skipped"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	names := []string{}
	for _, s := range res.Sources {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"github", "catalog", "notion", "craft"}, names)
	assert.True(t, res.Sources[2].Skipped)
	assert.Equal(t, 1, res.Sources[0].Count)
	assert.Equal(t, 1, res.Sources[3].Count)

	require.NotEmpty(t, res.Featured)
	assert.Equal(t, "github-7", res.Featured[0].ID)
	require.Len(t, res.Favorites, 1)
	assert.Equal(t, "github-7", res.Favorites[0].ID)
	assert.Equal(t, len(res.Featured)+len(res.Regular), res.Total)

	w = e.do(t, http.MethodGet, "/api/content?filters=favorite", tok, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Total)

	// Anonymous callers see the same items without favorite state.
	w = e.do(t, http.MethodGet, "/api/content?search=dashboard", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "craft-d1", res.Regular[0].ID)
	assert.Empty(t, res.Favorites)
}

func TestOAuthCallbackSignsInAndPromotesAdmin(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"at-1","token_type":"bearer"}`)
		case "/user":
			if r.Header.Get("Authorization") != "Bearer at-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"id":"55","name":"Sam","email":"sam@example.com"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer idp.Close()

	provider := &controllers.OAuthProvider{
		Config: &oauth2.Config{
			ClientID:     "cid",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost/auth/fake/callback",
			Endpoint:     oauth2.Endpoint{AuthURL: idp.URL + "/authorize", TokenURL: idp.URL + "/token"},
		},
		UserInfoURL: idp.URL + "/user",
		Decode: func(body []byte) (users.Profile, error) {
			var p struct{ ID, Name, Email string }
			err := json.Unmarshal(body, &p)
			return users.Profile{Provider: "fake", ID: p.ID, Name: p.Name, Email: p.Email}, err
		},
	}
	e := newTestEnv(t, func(cfg *config.Config) {
		cfg.AdminOpenIDs = []string{"fake:55"}
	}, Options{Providers: map[string]*controllers.OAuthProvider{"fake": provider}})

	w := e.do(t, http.MethodGet, "/auth/fake/login", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	var stateCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)

	req := httptest.NewRequest(http.MethodGet, "/auth/fake/callback?code=abc&state=wrong", nil)
	req.AddCookie(stateCookie)
	w = httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/fake/callback?code=abc&state="+state, nil)
	req.AddCookie(stateCookie)
	w = httptest.NewRecorder()
	e.app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Result struct {
			Token     string      `json:"token"`
			User      models.User `json:"user"`
			IsNewUser bool        `json:"isNewUser"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Result.IsNewUser)
	assert.Equal(t, models.RoleAdmin, res.Result.User.Role)

	w = e.do(t, http.MethodGet, "/auth/me", res.Result.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fake:55")

	w = e.do(t, http.MethodGet, "/auth/nope/login", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatRateLimited(t *testing.T) {
	e := newTestEnv(t, func(cfg *config.Config) { cfg.ChatRatePerMinute = 2 }, Options{})
	tok := e.token(t, "github:4", models.RoleUser)

	msg := map[string]interface{}{"provider": "vercel", "message": "hello"}
	for i := 0; i < 2; i++ {
		w := e.do(t, http.MethodPost, "/api/chat", tok, msg)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := e.do(t, http.MethodPost, "/api/chat", tok, msg)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAggregateSurvivesFavoritesFailure(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	tok := e.token(t, "github:10", models.RoleUser)
	require.NoError(t, e.db.Migrator().DropTable(&models.UserFavorite{}))

	w := e.do(t, http.MethodGet, "/api/content", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["regular"])
	assert.Empty(t, body["favorites"])
}

func TestPreviewRequiresAuthAndPublicHost(t *testing.T) {
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>INTERNAL-ADMIN-SECRET</title></head></html>`)
	}))
	defer internal.Close()

	e := newTestEnv(t, nil, Options{})
	path := "/api/content/preview?url=" + url.QueryEscape(internal.URL)

	w := e.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok := e.token(t, "github:11", models.RoleUser)
	w = e.do(t, http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "INTERNAL-ADMIN-SECRET")

	w = e.do(t, http.MethodGet, "/api/content/preview?url="+url.QueryEscape("http://169.254.169.254/latest/meta-data/"), tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoritesRejectMissingTypeAndZeroLimit(t *testing.T) {
	e := newTestEnv(t, nil, Options{})
	tok := e.token(t, "github:1", models.RoleUser)

	w := e.do(t, http.MethodPost, "/api/favorites", tok, map[string]interface{}{
		"contentId":    "github-7",
		"contentTitle": "repo",
		"contentUrl":   "https://github.com/octo/repo",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"].(map[string]interface{}), "contentType")

	w = e.do(t, http.MethodGet, "/api/favorites?limit=0", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodGet, "/api/favorites", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
