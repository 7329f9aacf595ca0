package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Health(c *gin.Context, tagger Tagger) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": tagger.Name(),
	})
}
