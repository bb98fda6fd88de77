package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthtrack/internal/service"
	"healthtrack/pkg/model"
)

// InsightHandler implements insight API endpoints
type InsightHandler struct {
	service *service.InsightService
	logger  *zap.Logger
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(service *service.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateInsights runs the full analysis for a period and returns the
// resulting insights
func (h *InsightHandler) GenerateInsights(c *gin.Context) {
	period, ok := periodFromQuery(c)
	if !ok {
		return
	}

	if h.service.IsGenerating() {
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "GENERATION_IN_PROGRESS",
			Message: "Insight generation is already running",
		})
		return
	}

	insights, err := h.service.GenerateInsights(c.Request.Context(), period)
	if err != nil {
		h.logger.Error("failed to generate insights",
			zap.Error(err),
			zap.String("period", string(period)),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate insights",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period":   period,
		"insights": insights,
		"count":    len(insights),
	})
}

// ListInsights returns the stored insights of the last generation run,
// optionally filtered by type, priority, or actionability
func (h *InsightHandler) ListInsights(c *gin.Context) {
	var insights []model.HealthInsight

	switch {
	case c.Query("actionable") == "true":
		insights = h.service.ActionableInsights()
	case c.Query("priority") == "high":
		insights = h.service.HighPriorityInsights()
	case c.Query("type") != "":
		insights = h.service.InsightsByType(model.InsightType(c.Query("type")))
	default:
		insights = h.service.CurrentInsights()
	}

	c.JSON(http.StatusOK, gin.H{
		"insights":   insights,
		"count":      len(insights),
		"generating": h.service.IsGenerating(),
	})
}
