package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/favorites"
)

type FavoriteController struct {
	store *favorites.Store
}

func NewFavoriteController(store *favorites.Store) *FavoriteController {
	return &FavoriteController{store: store}
}

// GET /api/favorites?contentType=&limit=&offset=
func (fc *FavoriteController) List(c *gin.Context) {
	var q models.FavoriteListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}
	list, err := fc.store.List(c.Request.Context(), currentUserID(c), q)
	if errors.Is(err, favorites.ErrInvalidInput) {
		respondInvalid(c, err)
		return
	}
	if err != nil {
		respondInternal(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "count": len(list)})
}

// POST /api/favorites
func (fc *FavoriteController) Add(c *gin.Context) {
	var in models.FavoriteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	fav, err := fc.store.Add(c.Request.Context(), currentUserID(c), in)
	switch {
	case errors.Is(err, favorites.ErrAlreadyFavorited):
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, favorites.ErrInvalidInput):
		respondInvalid(c, err)
	case err != nil:
		respondInternal(c, err, "add favorite")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "data": fav})
	}
}

// DELETE /api/favorites/:contentId
func (fc *FavoriteController) Remove(c *gin.Context) {
	if err := fc.store.Remove(c.Request.Context(), currentUserID(c), c.Param("contentId")); err != nil {
		respondInternal(c, err, "remove favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/favorites/toggle
func (fc *FavoriteController) Toggle(c *gin.Context) {
	var in models.FavoriteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	on, err := fc.store.Toggle(c.Request.Context(), currentUserID(c), in)
	if errors.Is(err, favorites.ErrInvalidInput) {
		respondInvalid(c, err)
		return
	}
	if err != nil {
		respondInternal(c, err, "toggle favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "favorited": on})
}

// GET /api/favorites/:contentId/status
func (fc *FavoriteController) Status(c *gin.Context) {
	ok, err := fc.store.IsFavorited(c.Request.Context(), currentUserID(c), c.Param("contentId"))
	if err != nil {
		respondInternal(c, err, "favorite status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isFavorited": ok})
}

// GET /api/favorites/count
func (fc *FavoriteController) Count(c *gin.Context) {
	n, err := fc.store.Count(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondInternal(c, err, "count favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}

// PUT /api/favorites/order
func (fc *FavoriteController) Reorder(c *gin.Context) {
	var req struct {
		ContentIDs []string `json:"contentIds" binding:"required,max=500,dive,required,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := fc.store.Reorder(c.Request.Context(), currentUserID(c), req.ContentIDs); err != nil {
		respondInternal(c, err, "reorder favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PATCH /api/favorites/:contentId
func (fc *FavoriteController) UpdateDetails(c *gin.Context) {
	var in models.FavoriteDetailsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	err := fc.store.UpdateDetails(c.Request.Context(), currentUserID(c), c.Param("contentId"), in)
	switch {
	case errors.Is(err, favorites.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, favorites.ErrInvalidInput):
		respondInvalid(c, err)
	case err != nil:
		respondInternal(c, err, "update favorite")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
