package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/UnicornXOS/bl1nk-web-portal/models"
	"github.com/UnicornXOS/bl1nk-web-portal/utils"
)

// respondInvalid writes a 400 with per-field messages when err carries validator errors.
func respondInvalid(c *gin.Context, err error) {
	body := gin.H{"success": false, "error": "invalid request"}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		body["fields"] = models.FieldErrors(err)
	}
	c.JSON(http.StatusBadRequest, body)
}

func respondInternal(c *gin.Context, err error, context string) {
	utils.LogError(err, context)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
}

func currentUserID(c *gin.Context) uint {
	return uint(c.GetInt("user_id"))
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}
