package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/UnicornXOS/bl1nk-web-portal/config"
	"github.com/UnicornXOS/bl1nk-web-portal/middleware"
	"github.com/UnicornXOS/bl1nk-web-portal/services/users"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

const stateCookie = "oauth_state"

// OAuthProvider is one sign-in option: the oauth2 config plus how to read the profile.
type OAuthProvider struct {
	Config      *oauth2.Config
	UserInfoURL string
	Decode      func(body []byte) (users.Profile, error)
}

type AuthController struct {
	users     *users.UserService
	providers map[string]*OAuthProvider
	cfg       *config.Config
}

func NewAuthController(svc *users.UserService, cfg *config.Config, providers map[string]*OAuthProvider) *AuthController {
	return &AuthController{users: svc, providers: providers, cfg: cfg}
}

// DefaultProviders builds Google and GitHub sign-in from config. Providers without a
// client id are left out.
func DefaultProviders(cfg *config.Config) map[string]*OAuthProvider {
	out := map[string]*OAuthProvider{}
	if cfg.GoogleClientID != "" {
		out["google"] = &OAuthProvider{
			Config: &oauth2.Config{
				RedirectURL:  cfg.GoogleRedirect,
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleSecret,
				Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
				Endpoint:     google.Endpoint,
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo?alt=json",
			Decode:      decodeGoogleProfile,
		}
	}
	if cfg.GitHubClientID != "" {
		out["github"] = &OAuthProvider{
			Config: &oauth2.Config{
				RedirectURL:  cfg.GitHubRedirect,
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			UserInfoURL: "https://api.github.com/user",
			Decode:      decodeGitHubProfile,
		}
	}
	return out
}

func decodeGoogleProfile(body []byte) (users.Profile, error) {
	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return users.Profile{}, err
	}
	if info.ID == "" {
		return users.Profile{}, errors.New("id not found in Google profile")
	}
	return users.Profile{Provider: "google", ID: info.ID, Name: info.Name, Email: info.Email}, nil
}

func decodeGitHubProfile(body []byte) (users.Profile, error) {
	var info struct {
		ID    int64   `json:"id"`
		Login string  `json:"login"`
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return users.Profile{}, err
	}
	if info.ID == 0 {
		return users.Profile{}, errors.New("id not found in GitHub profile")
	}
	p := users.Profile{Provider: "github", ID: strconv.FormatInt(info.ID, 10), Name: info.Login}
	if info.Name != nil && *info.Name != "" {
		p.Name = *info.Name
	}
	if info.Email != nil {
		p.Email = *info.Email
	}
	return p, nil
}

func (ac *AuthController) provider(c *gin.Context) (*OAuthProvider, bool) {
	p, ok := ac.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown sign-in provider"})
	}
	return p, ok
}

// GET /auth/:provider/login
func (ac *AuthController) Login(c *gin.Context) {
	p, ok := ac.provider(c)
	if !ok {
		return
	}
	state := utils.GenerateSessionID()
	c.SetCookie(stateCookie, state, int((10 * time.Minute).Seconds()), "/auth", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, p.Config.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/:provider/callback
func (ac *AuthController) Callback(c *gin.Context) {
	p, ok := ac.provider(c)
	if !ok {
		return
	}
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth", "", c.Request.TLS != nil, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "code not found"})
		return
	}
	ctx := c.Request.Context()
	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		utils.Log.Warn("oauth token exchange failed", zap.String("provider", c.Param("provider")), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "token exchange failed"})
		return
	}
	profile, err := fetchProfile(ctx, p, token)
	if err != nil {
		utils.Log.Warn("oauth profile fetch failed", zap.String("provider", c.Param("provider")), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to get user info"})
		return
	}

	user, created, err := ac.users.SignIn(ctx, profile, ac.cfg.IsAdminOpenID(profile.OpenID()))
	if err != nil {
		respondInternal(c, err, "oauth sign in")
		return
	}
	jwt, err := utils.GenerateJWT(user.ID, user.Role, ac.cfg.JWTSecret, ac.cfg.JWTTTL)
	if err != nil {
		respondInternal(c, err, "generate jwt")
		return
	}
	if created && user.Email != nil {
		go ac.sendWelcome(*user.Email, profile.Name)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"token": jwt, "user": user, "isNewUser": created}})
}

func fetchProfile(ctx context.Context, p *OAuthProvider, token *oauth2.Token) (users.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return users.Profile{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := p.Config.Client(ctx, token).Do(req)
	if err != nil {
		return users.Profile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return users.Profile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return users.Profile{}, err
	}
	return p.Decode(body)
}

func (ac *AuthController) sendWelcome(email, name string) {
	if ac.cfg.SMTPHost == "" {
		return
	}
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s,\n\nWelcome to bl1nk. Your workspace is ready at %s.\n", name, ac.cfg.AppURL)
	if err := utils.SendEmail(email, "Welcome to bl1nk", body, ac.cfg.SMTPHost, ac.cfg.SMTPPort, ac.cfg.SMTPUser, ac.cfg.SMTPPass); err != nil {
		utils.LogError(err, "welcome email")
	}
}

// GET /auth/me
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.users.Get(c.Request.Context(), currentUserID(c))
	if errors.Is(err, users.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		respondInternal(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": user})
}

// POST /auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString(middleware.CtxToken)
	claims, err := utils.ParseJWT(token, ac.cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid token"})
		return
	}
	if err := ac.users.Revoke(c.Request.Context(), middleware.BlacklistKey(token), utils.TokenTTL(claims)); err != nil {
		respondInternal(c, err, "logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"status": "logged out"}})
}
