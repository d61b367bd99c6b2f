package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/justsurfingit/talentra/internal/auth"
	"github.com/justsurfingit/talentra/internal/dtos"
	"github.com/justsurfingit/talentra/internal/services"
)

type ApplicationHandler struct {
	ApplicationService *services.ApplicationService
	ReportService      *services.ReportService
	Log                *zap.Logger
}

func NewApplicationHandler(a *services.ApplicationService, r *services.ReportService, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{ApplicationService: a, ReportService: r, Log: log}
}

// CreateApplication is POST /applications
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req dtos.ApplicationCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	app, err := h.ApplicationService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// UpdateApplicationStatus is PATCH /applications/:id/status
func (h *ApplicationHandler) UpdateApplicationStatus(c *gin.Context) {
	var req dtos.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}
	app, err := h.ApplicationService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	if id, ok := auth.IdentityFrom(c); ok {
		h.Log.Info("Stage moved",
			zap.String("application_id", app.ID),
			zap.String("status", string(app.Status)),
			zap.String("user_id", id.UserID))
	}
	c.JSON(http.StatusOK, app)
}

// Stats is GET /applications/stats
func (h *ApplicationHandler) Stats(c *gin.Context) {
	stats, err := h.ReportService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Trend is GET /applications/trend
func (h *ApplicationHandler) Trend(c *gin.Context) {
	points, err := h.ReportService.Trend(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// Stale is GET /applications/stale
func (h *ApplicationHandler) Stale(c *gin.Context) {
	rows, err := h.ReportService.Stale(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Recent is GET /applications/recent
func (h *ApplicationHandler) Recent(c *gin.Context) {
	rows, err := h.ReportService.Recent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
