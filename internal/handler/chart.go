package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthtrack/internal/service"
	"healthtrack/pkg/model"
)

// ChartHandler implements chart data API endpoints
type ChartHandler struct {
	service *service.ChartDataService
	logger  *zap.Logger
}

// NewChartHandler creates a new ChartHandler
func NewChartHandler(service *service.ChartDataService, logger *zap.Logger) *ChartHandler {
	return &ChartHandler{
		service: service,
		logger:  logger,
	}
}

// GetMetricChart returns the series for one core metric
func (h *ChartHandler) GetMetricChart(c *gin.Context) {
	metric, ok := h.metricFromPath(c)
	if !ok {
		return
	}
	period, ok := periodFromQuery(c)
	if !ok {
		return
	}

	points, err := h.service.GetChartData(c.Request.Context(), metric, period)
	if err != nil {
		h.logger.Error("failed to get chart data",
			zap.Error(err),
			zap.String("metric", string(metric)),
			zap.String("period", string(period)),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get chart data",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric": metric,
		"period": period,
		"points": points,
		"count":  len(points),
	})
}

// GetMetricStatistics returns summary statistics for one core metric
func (h *ChartHandler) GetMetricStatistics(c *gin.Context) {
	metric, ok := h.metricFromPath(c)
	if !ok {
		return
	}
	period, ok := periodFromQuery(c)
	if !ok {
		return
	}

	points, err := h.service.GetChartData(c.Request.Context(), metric, period)
	if err != nil {
		h.logger.Error("failed to get chart data for statistics",
			zap.Error(err),
			zap.String("metric", string(metric)),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get chart statistics",
			Details: stringPtr(err.Error()),
		})
		return
	}

	stats := h.service.CalculateStatistics(points)
	c.JSON(http.StatusOK, gin.H{
		"metric":     metric,
		"period":     period,
		"statistics": stats,
	})
}

// GetSymptomChart returns the series for one tracked symptom
func (h *ChartHandler) GetSymptomChart(c *gin.Context) {
	name := c.Param("name")
	period, ok := periodFromQuery(c)
	if !ok {
		return
	}

	points, err := h.service.GetSymptomChartData(c.Request.Context(), name, period)
	if err != nil {
		h.logger.Error("failed to get symptom chart data",
			zap.Error(err),
			zap.String("symptom", name),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get symptom chart data",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symptom": name,
		"period":  period,
		"points":  points,
		"count":   len(points),
	})
}

// GetMedicationChart returns the presence series for one medication
func (h *ChartHandler) GetMedicationChart(c *gin.Context) {
	h.itemChart(c, "medication", h.service.GetMedicationChartData)
}

// GetActivityChart returns the presence series for one activity
func (h *ChartHandler) GetActivityChart(c *gin.Context) {
	h.itemChart(c, "activity", h.service.GetActivityChartData)
}

// GetMealChart returns the presence series for one meal
func (h *ChartHandler) GetMealChart(c *gin.Context) {
	h.itemChart(c, "meal", h.service.GetMealChartData)
}

// GetAvailableMetrics lists core metrics with at least one recorded value
func (h *ChartHandler) GetAvailableMetrics(c *gin.Context) {
	metrics, err := h.service.GetAvailableMetrics(c.Request.Context())
	if err != nil {
		h.respondListError(c, "metrics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": metrics, "count": len(metrics)})
}

// GetAvailableSymptoms lists tracked symptoms with at least one rating
func (h *ChartHandler) GetAvailableSymptoms(c *gin.Context) {
	names, err := h.service.GetAvailableSymptoms(c.Request.Context())
	if err != nil {
		h.respondListError(c, "symptoms", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symptoms": names, "count": len(names)})
}

// GetAvailableMedications lists medications appearing in the log history
func (h *ChartHandler) GetAvailableMedications(c *gin.Context) {
	names, err := h.service.GetAvailableMedications(c.Request.Context())
	if err != nil {
		h.respondListError(c, "medications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"medications": names, "count": len(names)})
}

// GetAvailableActivities lists activities appearing in the log history
func (h *ChartHandler) GetAvailableActivities(c *gin.Context) {
	names, err := h.service.GetAvailableActivities(c.Request.Context())
	if err != nil {
		h.respondListError(c, "activities", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": names, "count": len(names)})
}

// GetAvailableMeals lists meals appearing in the log history
func (h *ChartHandler) GetAvailableMeals(c *gin.Context) {
	names, err := h.service.GetAvailableMeals(c.Request.Context())
	if err != nil {
		h.respondListError(c, "meals", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": names, "count": len(names)})
}

func (h *ChartHandler) metricFromPath(c *gin.Context) (model.MetricType, bool) {
	raw := c.Param("metric")
	metric, ok := model.ParseMetricType(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Unknown metric",
			Details: stringPtr("unknown metric: " + raw),
		})
		return "", false
	}
	return metric, true
}

func (h *ChartHandler) itemChart(c *gin.Context, kind string, fetch func(ctx context.Context, name string, period model.TimePeriod) ([]model.ItemDataPoint, error)) {
	name := c.Param("name")
	period, ok := periodFromQuery(c)
	if !ok {
		return
	}

	points, err := fetch(c.Request.Context(), name, period)
	if err != nil {
		h.logger.Error("failed to get "+kind+" chart data",
			zap.Error(err),
			zap.String("name", name),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to get " + kind + " chart data",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":   name,
		"kind":   kind,
		"period": period,
		"points": points,
		"count":  len(points),
	})
}

func (h *ChartHandler) respondListError(c *gin.Context, what string, err error) {
	h.logger.Error("failed to list available "+what, zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Failed to list available " + what,
		Details: stringPtr(err.Error()),
	})
}
