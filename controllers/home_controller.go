package controllers

import (
	"net/http"

	"github.com/bhataakib02/retail-app/middleware"
	"github.com/gin-gonic/gin"
)

// Index handles GET /
func Index(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	render(c, http.StatusOK, "index", gin.H{"cart_count": sess.Cart.Len()})
}

// Health handles GET /_health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
