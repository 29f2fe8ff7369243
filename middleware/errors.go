package middleware

import (
	"tonotes/logger"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware answers 500 for errors handlers attached with
// c.Error and did not reply to themselves.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()
		logger.Error(c.Request.Context(), "unhandled request error", logger.Err(err.Err))
		utils.TrackError("http", "unhandled")
		utils.InternalError(c, err.Error())
	}
}
