package handler

import (
	"context"
	"net/http"
	"time"

	"tonotes/logger"
	"tonotes/utils"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.Warn(ctx, "health check failed", logger.Err(err))
		utils.ServiceUnavailable(c, "Database unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
