package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = time.Second

type HealthHandler struct {
	dbPing func(ctx context.Context) error
}

func NewHealthHandler(dbPing func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{dbPing: dbPing}
}

// Show GET RouteGroup + HealthRoute.
func (h *HealthHandler) Show(c *gin.Context) {
	if h.dbPing != nil {
		pingCtx, cancel := context.WithTimeout(c, healthPingTimeout)
		defer cancel()

		if err := h.dbPing(pingCtx); err != nil {
			_ = c.AbortWithError(http.StatusServiceUnavailable, err).SetType(gin.ErrorTypePrivate)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
