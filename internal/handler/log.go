package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthtrack/internal/service"
	"healthtrack/pkg/model"
)

// LogHandler implements daily log API endpoints
type LogHandler struct {
	service *service.LogService
	logger  *zap.Logger
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(service *service.LogService, logger *zap.Logger) *LogHandler {
	return &LogHandler{
		service: service,
		logger:  logger,
	}
}

// ListLogs returns the full log history
func (h *LogHandler) ListLogs(c *gin.Context) {
	logs, err := h.service.ListLogs(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list logs",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// SaveLog creates or replaces the log for a calendar date
func (h *LogHandler) SaveLog(c *gin.Context) {
	var log model.DailyLog
	if err := c.ShouldBindJSON(&log); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.SaveLog(c.Request.Context(), &log); err != nil {
		h.logger.Error("failed to save log",
			zap.Error(err),
			zap.Time("date", log.Date),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to save log",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, log)
}

// DeleteLog removes the log for a calendar date (path format 2006-01-02)
func (h *LogHandler) DeleteLog(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid date, expected YYYY-MM-DD",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.DeleteLog(c.Request.Context(), date); err != nil {
		h.logger.Error("failed to delete log",
			zap.Error(err),
			zap.Time("date", date),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to delete log",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
