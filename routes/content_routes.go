package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/middleware"
)

func SetupContentRoutes(api *gin.RouterGroup, h Handlers) {
	grp := api.Group("/content")
	{
		grp.GET("", middleware.OptionalJWTMiddleware(), h.Content.Aggregate)
		grp.GET("/categories", h.Content.Categories)
		grp.POST("/validate", h.Content.Validate)
		grp.GET("/preview", middleware.JWTAuthMiddleware(), h.Content.Preview)
		grp.GET("/cards", h.Content.ListCards)
	}
	admin := api.Group("/content/cards", middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
	{
		admin.POST("", h.Content.CreateCard)
		admin.PUT("/:id", h.Content.UpdateCard)
		admin.DELETE("/:id", h.Content.DeleteCard)
	}
}
