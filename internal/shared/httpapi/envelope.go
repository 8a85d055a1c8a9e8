// Package httpapi provides the storefront response envelope shared by all
// handlers: {"success": bool, "message": string, ...} on ordinary outcomes and
// {"error": "Unauthorized"} on failed authorization.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success writes a success envelope, merging any resource fields into the body.
func Success(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"success": true, "message": message}
	for key, value := range fields {
		body[key] = value
	}
	c.JSON(status, body)
}

// Fail writes a failure envelope with a client-facing message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// Unauthorized writes the fixed 401 body expected by the storefront and stops
// the handler chain.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
