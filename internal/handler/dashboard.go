package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthtrack/internal/service"
)

// DashboardHandler implements dashboard API endpoints
type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// GetDashboard returns the current dashboard snapshot
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	snapshot := h.service.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"dashboard": snapshot,
		"loading":   h.service.IsLoading(),
	})
}

// RefreshDashboard recomputes every dashboard facet and returns the new
// snapshot
func (h *DashboardHandler) RefreshDashboard(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context()); err != nil {
		h.logger.Error("failed to refresh dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to refresh dashboard",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboard": h.service.Snapshot(),
		"loading":   false,
	})
}
