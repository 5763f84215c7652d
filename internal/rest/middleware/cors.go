package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware opens the API to browser clients and answers preflight
// requests directly. Origin restrictions are left to the fronting gateway.
func CORSMiddleware(c *gin.Context) {
	headers := c.Writer.Header()
	headers.Set("Access-Control-Allow-Origin", "*")
	headers.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	headers.Set("Access-Control-Allow-Headers", "*")
	headers.Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
