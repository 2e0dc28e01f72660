package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root reports liveness. Registered for both GET and POST so naive
// network probes succeed either way.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "msg": "Server is running"})
}

// MethodNotAllowed rejects GET requests to the POST-only endpoints.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"success": false,
		"msg":     "GET method not allowed. Use POST method instead.",
	})
}
