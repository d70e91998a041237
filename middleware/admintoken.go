package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminToken requires a bearer token on admin routes. The gateway does not
// verify it; the upstream API is the authority and rejects bad tokens on
// the proxied call. The raw token lands in the context as "admin_token".
func AdminToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
		c.Abort()
		return
	}
	c.Set("admin_token", token)
	c.Next()
}
