package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/services/agents"
)

type AgentController struct {
	store *agents.Store
}

func NewAgentController(store *agents.Store) *AgentController {
	return &AgentController{store: store}
}

// agentError maps store errors to responses. It reports whether err was handled.
func agentError(c *gin.Context, err error, context string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, agents.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, agents.ErrAgentNotFound), errors.Is(err, agents.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, agents.ErrInvalidInput):
		respondInvalid(c, err)
	default:
		respondInternal(c, err, context)
	}
	return true
}

// GET /api/agents?page=&limit=&search=&language=
func (ac *AgentController) List(c *gin.Context) {
	var q models.AgentListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}
	res, err := ac.store.List(c.Request.Context(), q)
	if agentError(c, err, "list agents") {
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/agents/:id
func (ac *AgentController) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	a, err := ac.store.Get(c.Request.Context(), id)
	if agentError(c, err, "get agent") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

// GET /api/agents/search?query=
func (ac *AgentController) Search(c *gin.Context) {
	list, err := ac.store.Search(c.Request.Context(), c.Query("query"))
	if agentError(c, err, "search agents") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "count": len(list)})
}

// POST /api/agents/:id/downloads
func (ac *AgentController) IncrementDownloads(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if agentError(c, ac.store.IncrementDownloads(c.Request.Context(), id), "increment downloads") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/agents (admin)
func (ac *AgentController) Create(c *gin.Context) {
	var in models.AgentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	a, err := ac.store.Create(c.Request.Context(), c.GetString("role"), in)
	if agentError(c, err, "create agent") {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": a})
}

// PUT /api/agents/:id (admin)
func (ac *AgentController) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var in models.AgentUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondInvalid(c, err)
		return
	}
	a, err := ac.store.Update(c.Request.Context(), c.GetString("role"), id, in)
	if agentError(c, err, "update agent") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

// DELETE /api/agents/:id (admin)
func (ac *AgentController) Delete(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if agentError(c, ac.store.Delete(c.Request.Context(), c.GetString("role"), id), "delete agent") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/agent-profiles?track=&search=
func (ac *AgentController) ListProfiles(c *gin.Context) {
	list, err := ac.store.ListProfiles(c.Request.Context(), c.Query("track"), c.Query("search"))
	if agentError(c, err, "list agent profiles") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "tracks": models.AgentTracks})
}

// GET /api/agent-profiles/:agentId
func (ac *AgentController) GetProfile(c *gin.Context) {
	p, err := ac.store.GetProfile(c.Request.Context(), c.Param("agentId"))
	if agentError(c, err, "get agent profile") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}
