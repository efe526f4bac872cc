package middleware

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware sets baseline browser hardening headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
