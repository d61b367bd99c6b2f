package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/talentra/internal/dtos"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	Ping    Pinger
	Version string
	Log     *zap.Logger
}

func NewHealthHandler(ping Pinger, version string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{Ping: ping, Version: version, Log: log}
}

// HealthCheck is GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dtos.HealthResponse{Status: "ok", Database: "ok", Version: h.Version}
	if err := h.Ping(ctx); err != nil {
		h.Log.Warn("Health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
