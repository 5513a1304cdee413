package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/UnicornXOS/bl1nk-web-portal/services/github"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

// GitHubController proxies the GitHub adapter. Upstream failures are reported in the
// body with status 200 so the portal keeps rendering.
type GitHubController struct {
	client          *github.Client
	defaultUsername string
	defaultToken    string
}

func NewGitHubController(client *github.Client, defaultUsername, defaultToken string) *GitHubController {
	return &GitHubController{client: client, defaultUsername: defaultUsername, defaultToken: defaultToken}
}

func (gc *GitHubController) credentials(c *gin.Context) (string, string) {
	username := strings.TrimSpace(c.Query("username"))
	token := c.Query("token")
	if username == "" {
		return gc.defaultUsername, gc.defaultToken
	}
	return username, token
}

// GET /api/github/repos?username=&token=
func (gc *GitHubController) Repos(c *gin.Context) {
	username, token := gc.credentials(c)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username is required", "data": []github.Repo{}, "count": 0})
		return
	}
	repos, err := gc.client.ListRepos(c.Request.Context(), username, token)
	if err != nil {
		utils.Log.Warn("github repos failed", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error(), "data": []github.Repo{}, "count": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": repos, "count": len(repos)})
}

// GET /api/github/user?username=&token=
func (gc *GitHubController) User(c *gin.Context) {
	username, token := gc.credentials(c)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username is required", "data": nil})
		return
	}
	user, err := gc.client.GetUser(c.Request.Context(), username, token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error(), "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// GET /api/github/search?query=&language=&sort=&token=
func (gc *GitHubController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "query is required", "data": []github.Repo{}, "count": 0})
		return
	}
	res, err := gc.client.SearchRepositories(c.Request.Context(), query, c.Query("language"), c.Query("sort"), c.Query("token"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error(), "data": []github.Repo{}, "count": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res.Items, "count": res.TotalCount})
}
