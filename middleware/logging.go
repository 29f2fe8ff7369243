package middleware

import (
	"log/slog"
	"time"

	"tonotes/logger"

	"github.com/gin-gonic/gin"
	ua "github.com/mileusna/useragent"
)

func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		browser, os, device := clientInfo(c.Request.UserAgent())
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.Group("client",
				slog.String("ip", c.ClientIP()),
				slog.String("browser", browser),
				slog.String("os", os),
				slog.String("device", device),
			),
		}

		ctx := c.Request.Context()
		if c.Writer.Status() >= 500 {
			logger.Error(ctx, "request failed", attrs...)
			return
		}
		logger.Info(ctx, "request handled", attrs...)
	}
}

// clientInfo reduces a User-Agent header to browser and OS names without
// versions, plus a device class.
func clientInfo(userAgent string) (browser, os, device string) {
	if userAgent == "" {
		return "unknown", "unknown", "unknown"
	}

	parsed := ua.Parse(userAgent)

	browser = parsed.Name
	if browser == "" {
		browser = "unknown"
	}
	os = parsed.OS
	if os == "" {
		os = "unknown"
	}

	switch {
	case parsed.Bot:
		device = "bot"
	case parsed.Tablet:
		device = "tablet"
	case parsed.Mobile:
		device = "mobile"
	default:
		device = "desktop"
	}
	return browser, os, device
}
