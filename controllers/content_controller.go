package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/catalog"
	"github.com/UnicornXOS/bl1nk-web-portal/services/content"
	"github.com/UnicornXOS/bl1nk-web-portal/services/favorites"
	"github.com/UnicornXOS/bl1nk-web-portal/services/preview"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

type ContentController struct {
	agg       *content.Aggregator
	favorites *favorites.Store
	catalog   *catalog.Catalog
	preview   *preview.Fetcher
}

func NewContentController(agg *content.Aggregator, fav *favorites.Store, cat *catalog.Catalog, pv *preview.Fetcher) *ContentController {
	return &ContentController{agg: agg, favorites: fav, catalog: cat, preview: pv}
}

// GET /api/content?search=&filters=github,favorite&username=&token=
// Favorite state is included when the caller is signed in and the lookup succeeds.
func (cc *ContentController) Aggregate(c *gin.Context) {
	ctx := c.Request.Context()
	res := cc.agg.Collect(ctx, content.Request{
		GitHubUsername: strings.TrimSpace(c.Query("username")),
		GitHubToken:    c.Query("token"),
	})

	favSet := map[string]bool{}
	var order []string
	if userID := currentUserID(c); userID != 0 {
		var err error
		if order, err = cc.favoriteOrder(ctx, userID); err != nil {
			utils.LogError(err, "content favorites")
			order = nil
		}
		for _, id := range order {
			favSet[id] = true
		}
	}

	filtered := content.Filter(res.Items, c.Query("search"), splitFilters(c.Query("filters")), favSet)
	featured, regular := content.Partition(filtered)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"featured":  featured,
		"regular":   regular,
		"favorites": content.FavoriteItems(content.OrderBy(filtered, order), favSet),
		"total":     len(filtered),
		"sources":   res.Sources,
	})
}

func (cc *ContentController) favoriteOrder(ctx context.Context, userID uint) ([]string, error) {
	if cc.favorites == nil {
		return nil, nil
	}
	return cc.favorites.OrderedIDs(ctx, userID)
}

func splitFilters(raw string) []string {
	out := []string{}
	for _, f := range strings.Split(raw, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// GET /api/content/categories
func (cc *ContentController) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": content.AllCategories()})
}

// POST /api/content/validate
func (cc *ContentController) Validate(c *gin.Context) {
	var card models.ContentCard
	if err := c.ShouldBindJSON(&card); err != nil {
		respondInvalid(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": card})
}

// GET /api/content/preview?url=
func (cc *ContentController) Preview(c *gin.Context) {
	p, err := cc.preview.Fetch(c.Request.Context(), c.Query("url"))
	if errors.Is(err, preview.ErrInvalidURL) || errors.Is(err, preview.ErrBlockedAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error(), "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// GET /api/content/cards
func (cc *ContentController) ListCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cc.catalog.Items()})
}

// POST /api/content/cards (admin)
func (cc *ContentController) CreateCard(c *gin.Context) {
	var in models.CreateContentCard
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	card := cardFromInput(in.Source+"-"+uuid.NewString()[:8], in)
	if err := cc.catalog.Upsert(card); err != nil {
		respondInternal(c, err, "create content card")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": card})
}

// PUT /api/content/cards/:id (admin)
func (cc *ContentController) UpdateCard(c *gin.Context) {
	var in models.CreateContentCard
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	id := c.Param("id")
	if _, err := cc.catalog.Get(id); errors.Is(err, catalog.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	card := cardFromInput(id, in)
	if err := cc.catalog.Upsert(card); err != nil {
		respondInternal(c, err, "update content card")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": card})
}

func cardFromInput(id string, in models.CreateContentCard) models.ContentCard {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.ContentCard{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Source:      in.Source,
		URL:         in.URL,
		Tags:        tags,
		LastUpdated: in.LastUpdated,
		Featured:    in.Featured,
	}
}

// DELETE /api/content/cards/:id (admin)
func (cc *ContentController) DeleteCard(c *gin.Context) {
	err := cc.catalog.Delete(c.Param("id"))
	if errors.Is(err, catalog.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		respondInternal(c, err, "delete content card")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
