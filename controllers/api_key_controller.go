package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/apikeys"
)

type APIKeyController struct {
	store *apikeys.Store
}

func NewAPIKeyController(store *apikeys.Store) *APIKeyController {
	return &APIKeyController{store: store}
}

// GET /api/api-keys
func (kc *APIKeyController) List(c *gin.Context) {
	keys, err := kc.store.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondInternal(c, err, "list api keys")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": keys})
}

// POST /api/api-keys
func (kc *APIKeyController) Create(c *gin.Context) {
	var in models.APIKeyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	key, err := kc.store.Create(c.Request.Context(), currentUserID(c), in)
	if errors.Is(err, apikeys.ErrInvalidInput) {
		respondInvalid(c, err)
		return
	}
	if err != nil {
		respondInternal(c, err, "create api key")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": key})
}

// DELETE /api/api-keys/:id
func (kc *APIKeyController) Delete(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	err := kc.store.Delete(c.Request.Context(), currentUserID(c), id)
	if errors.Is(err, apikeys.ErrKeyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		respondInternal(c, err, "delete api key")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PATCH /api/api-keys/:id/active
func (kc *APIKeyController) SetActive(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	err := kc.store.SetActive(c.Request.Context(), currentUserID(c), id, *req.IsActive)
	if errors.Is(err, apikeys.ErrKeyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err != nil {
		respondInternal(c, err, "update api key")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
