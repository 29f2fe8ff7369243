package middleware

import (
	"net/http"

	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.PayloadTooLarge(c, "Request body too large")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
