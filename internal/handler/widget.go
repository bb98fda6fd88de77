package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthtrack/internal/service"
)

// WidgetHandler implements dashboard widget layout API endpoints
type WidgetHandler struct {
	service *service.WidgetService
	logger  *zap.Logger
}

// NewWidgetHandler creates a new WidgetHandler
func NewWidgetHandler(service *service.WidgetService, logger *zap.Logger) *WidgetHandler {
	return &WidgetHandler{
		service: service,
		logger:  logger,
	}
}

// addWidgetRequest is the body for adding a widget to the layout
type addWidgetRequest struct {
	Kind   string `json:"kind" binding:"required"`
	Width  int    `json:"width" binding:"required"`
	Height int    `json:"height" binding:"required"`
}

// resizeWidgetRequest is the body for resizing a widget
type resizeWidgetRequest struct {
	Width  int `json:"width" binding:"required"`
	Height int `json:"height" binding:"required"`
}

// reorderWidgetsRequest is the body for reordering the layout
type reorderWidgetsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// ListWidgets returns the widget layout ordered by position
func (h *WidgetHandler) ListWidgets(c *gin.Context) {
	widgets, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list widgets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list widgets",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"widgets": widgets,
		"count":   len(widgets),
	})
}

// AddWidget appends a widget at the end of the layout
func (h *WidgetHandler) AddWidget(c *gin.Context) {
	var req addWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	widget, err := h.service.Add(c.Request.Context(), req.Kind, req.Width, req.Height)
	if err != nil {
		h.logger.Error("failed to add widget",
			zap.Error(err),
			zap.String("kind", req.Kind),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to add widget",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, widget)
}

// RemoveWidget deletes a widget and compacts the remaining positions
func (h *WidgetHandler) RemoveWidget(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to remove widget",
			zap.Error(err),
			zap.String("widget_id", id),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to remove widget",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// ResizeWidget changes a widget's dimensions
func (h *WidgetHandler) ResizeWidget(c *gin.Context) {
	id := c.Param("id")

	var req resizeWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.Resize(c.Request.Context(), id, req.Width, req.Height); err != nil {
		h.logger.Error("failed to resize widget",
			zap.Error(err),
			zap.String("widget_id", id),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to resize widget",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// ReorderWidgets rewrites the layout order from an ordered id list
func (h *WidgetHandler) ReorderWidgets(c *gin.Context) {
	var req reorderWidgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.Reorder(c.Request.Context(), req.IDs); err != nil {
		h.logger.Error("failed to reorder widgets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to reorder widgets",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
