package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/services/content"
	"github.com/UnicornXOS/bl1nk-web-portal/services/craft"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

// CraftController exposes the read-only Craft link. The adapter already degrades to
// empty results, so handlers only parse parameters.
type CraftController struct {
	client *craft.Client
}

func NewCraftController(client *craft.Client) *CraftController {
	return &CraftController{client: client}
}

// GET /api/craft/documents
func (cc *CraftController) Documents(c *gin.Context) {
	c.JSON(http.StatusOK, cc.client.GetDocuments(c.Request.Context()))
}

// GET /api/craft/blocks?id=&maxDepth=&fetchMetadata=
func (cc *CraftController) Blocks(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "id is required"})
		return
	}
	block := cc.client.GetBlocks(c.Request.Context(), craft.BlocksQuery{
		ID:            id,
		MaxDepth:      utils.ParseIntSafe(c.Query("maxDepth"), -1),
		FetchMetadata: utils.ParseBoolSafe(c.Query("fetchMetadata"), false),
	})
	c.JSON(http.StatusOK, block)
}

// GET /api/craft/search?query=&documentIds=&documentFilterMode=
func (cc *CraftController) Search(c *gin.Context) {
	results := cc.client.SearchDocuments(c.Request.Context(),
		c.Query("query"), utils.SplitCSV(c.Query("documentIds")), c.Query("documentFilterMode"))
	c.JSON(http.StatusOK, results)
}

// GET /api/craft/documents/:id/search?pattern=&caseSensitive=&beforeBlockCount=&afterBlockCount=
func (cc *CraftController) SearchBlocks(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "pattern is required"})
		return
	}
	results := cc.client.SearchBlocks(c.Request.Context(), craft.SearchBlocksQuery{
		DocumentID:       c.Param("id"),
		Pattern:          pattern,
		CaseSensitive:    utils.ParseBoolSafe(c.Query("caseSensitive"), false),
		BeforeBlockCount: utils.ParseIntSafe(c.Query("beforeBlockCount"), 2),
		AfterBlockCount:  utils.ParseIntSafe(c.Query("afterBlockCount"), 2),
	})
	c.JSON(http.StatusOK, results)
}

// GET /api/craft/collections?documentIds=&documentFilterMode=
func (cc *CraftController) Collections(c *gin.Context) {
	c.JSON(http.StatusOK, cc.client.GetCollections(c.Request.Context(),
		utils.SplitCSV(c.Query("documentIds")), c.Query("documentFilterMode")))
}

// GET /api/craft/collections/:id/schema?format=
func (cc *CraftController) CollectionSchema(c *gin.Context) {
	schema := cc.client.GetCollectionSchema(c.Request.Context(), c.Param("id"), c.Query("format"))
	if schema == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", schema)
}

// GET /api/craft/collections/:id/items?maxDepth=
func (cc *CraftController) CollectionItems(c *gin.Context) {
	c.JSON(http.StatusOK, cc.client.GetCollectionItems(c.Request.Context(),
		c.Param("id"), utils.ParseIntSafe(c.Query("maxDepth"), -1)))
}

// GET /api/craft/documents/:id/markdown?maxDepth=
func (cc *CraftController) Markdown(c *gin.Context) {
	depth := utils.ParseIntSafe(c.Query("maxDepth"), content.DefaultRenderDepth)
	root := cc.client.GetBlocks(c.Request.Context(), craft.BlocksQuery{ID: c.Param("id"), MaxDepth: depth})
	c.JSON(http.StatusOK, gin.H{"success": root != nil, "markdown": content.RenderBlocks(root, depth)})
}
