package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthtrack/internal/service"
)

// SymptomHandler implements tracked symptom API endpoints
type SymptomHandler struct {
	service *service.LogService
	logger  *zap.Logger
}

// NewSymptomHandler creates a new SymptomHandler
func NewSymptomHandler(service *service.LogService, logger *zap.Logger) *SymptomHandler {
	return &SymptomHandler{
		service: service,
		logger:  logger,
	}
}

// trackSymptomRequest is the body for registering a tracked symptom
type trackSymptomRequest struct {
	Name     string `json:"name" binding:"required"`
	IsBinary bool   `json:"is_binary"`
}

// ListSymptoms returns the tracked symptom definitions
func (h *SymptomHandler) ListSymptoms(c *gin.Context) {
	symptoms, err := h.service.TrackedSymptoms(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list tracked symptoms", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list tracked symptoms",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symptoms": symptoms,
		"count":    len(symptoms),
	})
}

// TrackSymptom registers a new symptom to track
func (h *SymptomHandler) TrackSymptom(c *gin.Context) {
	var req trackSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	symptom, err := h.service.TrackSymptom(c.Request.Context(), req.Name, req.IsBinary)
	if err != nil {
		h.logger.Error("failed to track symptom",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to track symptom",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, symptom)
}

// UntrackSymptom removes a tracked symptom definition
func (h *SymptomHandler) UntrackSymptom(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.UntrackSymptom(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to untrack symptom",
			zap.Error(err),
			zap.String("id", id),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to untrack symptom",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
