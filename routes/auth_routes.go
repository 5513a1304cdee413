package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/middleware"
)

func SetupAuthRoutes(r *gin.Engine, h Handlers) {
	authed := r.Group("/auth", middleware.JWTAuthMiddleware())
	{
		authed.GET("/me", h.Auth.Me)
		authed.POST("/logout", h.Auth.Logout)
	}
	grp := r.Group("/auth")
	{
		grp.GET("/:provider/login", h.Auth.Login)
		grp.GET("/:provider/callback", h.Auth.Callback)
	}
}
