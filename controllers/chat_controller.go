package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/UnicornXOS/bl1nk-web-portal/services/chat"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

type ChatController struct {
	service   *chat.Service
	rdb       *redis.Client
	perMinute int
}

func NewChatController(service *chat.Service, rdb *redis.Client, perMinute int) *ChatController {
	return &ChatController{service: service, rdb: rdb, perMinute: perMinute}
}

// POST /api/chat
func (cc *ChatController) Send(c *gin.Context) {
	userID := currentUserID(c)
	allowed, err := utils.AllowPerMinute(c.Request.Context(), cc.rdb, "chat", strconv.FormatUint(uint64(userID), 10), cc.perMinute)
	if err != nil {
		utils.LogError(err, "chat rate limiter")
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many messages, try again in a minute"})
		return
	}

	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}
	reply, err := cc.service.Send(c.Request.Context(), userID, req)
	if errors.Is(err, chat.ErrInvalidInput) {
		respondInvalid(c, err)
		return
	}
	if err != nil {
		respondInternal(c, err, "chat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reply})
}

// GET /api/chat/:sessionId/history
func (cc *ChatController) History(c *gin.Context) {
	msgs, err := cc.service.History(c.Request.Context(), currentUserID(c), c.Param("sessionId"))
	if err != nil {
		respondInternal(c, err, "chat history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": msgs})
}
