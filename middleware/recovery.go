package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"tonotes/logger"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

func EnhancedRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic while handling request",
					slog.String("panic", fmt.Sprint(err)),
					slog.String("stack", string(debug.Stack())),
				)
				utils.TrackError("http", "panic")
				utils.InternalError(c, "Internal server error")
			}
		}()
		c.Next()
	}
}
