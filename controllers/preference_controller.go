package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/preferences"
)

type PreferenceController struct {
	store *preferences.Store
}

func NewPreferenceController(store *preferences.Store) *PreferenceController {
	return &PreferenceController{store: store}
}

// GET /api/preferences
func (pc *PreferenceController) Get(c *gin.Context) {
	p, err := pc.store.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondInternal(c, err, "get preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// PUT /api/preferences
func (pc *PreferenceController) Update(c *gin.Context) {
	var in models.PreferenceUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	p, err := pc.store.Update(c.Request.Context(), currentUserID(c), in)
	if errors.Is(err, preferences.ErrInvalidInput) {
		respondInvalid(c, err)
		return
	}
	if err != nil {
		respondInternal(c, err, "update preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}
