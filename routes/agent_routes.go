package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/middleware"
)

// SetupAgentRoutes mounts the agent catalog. Mutations need a signed-in user; the
// store itself rejects non-admins.
func SetupAgentRoutes(api *gin.RouterGroup, h Handlers) {
	grp := api.Group("/agents")
	{
		grp.GET("", h.Agents.List)
		grp.GET("/search", h.Agents.Search)
		grp.GET("/:id", h.Agents.Get)
		grp.POST("/:id/downloads", h.Agents.IncrementDownloads)
	}
	admin := api.Group("/agents", middleware.JWTAuthMiddleware())
	{
		admin.POST("", h.Agents.Create)
		admin.PUT("/:id", h.Agents.Update)
		admin.DELETE("/:id", h.Agents.Delete)
	}

	profiles := api.Group("/agent-profiles")
	{
		profiles.GET("", h.Agents.ListProfiles)
		profiles.GET("/:agentId", h.Agents.GetProfile)
	}
}
