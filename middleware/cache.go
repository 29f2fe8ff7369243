package middleware

import "github.com/gin-gonic/gin"

const NoStore = "no-store"

// CacheControlMiddleware sets the Cache-Control header on every reply of the
// group it is attached to.
func CacheControlMiddleware(directive string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", directive)
		c.Next()
	}
}
