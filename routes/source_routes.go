package routes

import "github.com/gin-gonic/gin"

// SetupSourceRoutes mounts the raw GitHub, Notion and Craft proxies.
func SetupSourceRoutes(api *gin.RouterGroup, h Handlers) {
	gh := api.Group("/github")
	{
		gh.GET("/repos", h.GitHub.Repos)
		gh.GET("/user", h.GitHub.User)
		gh.GET("/search", h.GitHub.Search)
	}

	notion := api.Group("/notion")
	{
		notion.GET("/pages", h.Notion.Pages)
		notion.GET("/pages/:id/content", h.Notion.PageContent)
		notion.GET("/search", h.Notion.Search)
		notion.GET("/database", h.Notion.Database)
	}

	craft := api.Group("/craft")
	{
		craft.GET("/documents", h.Craft.Documents)
		craft.GET("/documents/:id/search", h.Craft.SearchBlocks)
		craft.GET("/documents/:id/markdown", h.Craft.Markdown)
		craft.GET("/blocks", h.Craft.Blocks)
		craft.GET("/search", h.Craft.Search)
		craft.GET("/collections", h.Craft.Collections)
		craft.GET("/collections/:id/schema", h.Craft.CollectionSchema)
		craft.GET("/collections/:id/items", h.Craft.CollectionItems)
	}
}
