package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/UnicornXOS/bl1nk-web-portal/services/notion"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

// NotionController serves Notion reads. Every failure degrades to an empty result.
type NotionController struct {
	client *notion.Client
}

func NewNotionController(client *notion.Client) *NotionController {
	return &NotionController{client: client}
}

func logNotion(op string, err error) {
	if errors.Is(err, notion.ErrNotConfigured) || errors.Is(err, notion.ErrDatabaseNotConfigured) {
		utils.Log.Debug("notion not configured", zap.String("op", op))
		return
	}
	utils.Log.Warn("notion request failed", zap.String("op", op), zap.Error(err))
}

// GET /api/notion/pages
func (nc *NotionController) Pages(c *gin.Context) {
	pages, err := nc.client.GetPages(c.Request.Context())
	if err != nil {
		logNotion("pages", err)
		c.JSON(http.StatusOK, []notion.Page{})
		return
	}
	c.JSON(http.StatusOK, pages)
}

// GET /api/notion/pages/:id/content
func (nc *NotionController) PageContent(c *gin.Context) {
	blocks, err := nc.client.GetPageContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		logNotion("page content", err)
		c.JSON(http.StatusOK, []notion.Block{})
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// GET /api/notion/search?query=
func (nc *NotionController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusOK, []notion.Page{})
		return
	}
	pages, err := nc.client.SearchPages(c.Request.Context(), query)
	if err != nil {
		logNotion("search", err)
		c.JSON(http.StatusOK, []notion.Page{})
		return
	}
	c.JSON(http.StatusOK, pages)
}

// GET /api/notion/database
func (nc *NotionController) Database(c *gin.Context) {
	info, err := nc.client.GetDatabaseInfo(c.Request.Context())
	if err != nil {
		logNotion("database", err)
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, info)
}
