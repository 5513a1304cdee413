package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/middleware"
)

// SetupUserRoutes mounts everything scoped to the signed-in user.
func SetupUserRoutes(api *gin.RouterGroup, h Handlers) {
	user := api.Group("", middleware.JWTAuthMiddleware())

	fav := user.Group("/favorites")
	{
		fav.GET("", h.Favorites.List)
		fav.POST("", h.Favorites.Add)
		fav.POST("/toggle", h.Favorites.Toggle)
		fav.GET("/count", h.Favorites.Count)
		fav.PUT("/order", h.Favorites.Reorder)
		fav.GET("/:contentId/status", h.Favorites.Status)
		fav.PATCH("/:contentId", h.Favorites.UpdateDetails)
		fav.DELETE("/:contentId", h.Favorites.Remove)
	}

	user.GET("/preferences", h.Preferences.Get)
	user.PUT("/preferences", h.Preferences.Update)

	keys := user.Group("/api-keys")
	{
		keys.GET("", h.APIKeys.List)
		keys.POST("", h.APIKeys.Create)
		keys.DELETE("/:id", h.APIKeys.Delete)
		keys.PATCH("/:id/active", h.APIKeys.SetActive)
	}

	user.POST("/chat", h.Chat.Send)
	user.GET("/chat/:sessionId/history", h.Chat.History)
}
