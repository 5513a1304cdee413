package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/UnicornXOS/bl1nk-web-portal/config"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxToken  = "token"
)

// BlacklistKey is the Redis key marking a revoked token.
func BlacklistKey(token string) string {
	return "blacklist:" + token
}

func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Missing or invalid Authorization header"})
			return
		}
		if msg := authenticate(c, token); msg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
			return
		}
		c.Next()
	}
}

// OptionalJWTMiddleware sets the user when a valid token is sent and lets anonymous requests through.
func OptionalJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			authenticate(c, token)
		}
		c.Next()
	}
}

// authenticate validates token and stores its claims on the context.
// It returns a client-facing message when the token is rejected.
func authenticate(c *gin.Context, token string) string {
	if rdb := utils.GetRedis(); rdb != nil {
		_, err := rdb.Get(c.Request.Context(), BlacklistKey(token)).Result()
		if err == nil {
			return "Token has been revoked"
		}
		if err != redis.Nil {
			utils.LogError(err, "JWT blacklist lookup")
		}
	}

	claims, err := utils.ParseJWT(token, config.Get().JWTSecret)
	if err != nil {
		return "Invalid or expired token"
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return "Invalid token payload"
	}
	role, _ := claims["role"].(string)

	c.Set(CtxUserID, int(userID))
	c.Set(CtxRole, role)
	c.Set(CtxToken, token)
	return ""
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
