package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthtrack/internal/service"
)

// ReportHandler implements report API endpoints
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateSummaryReport renders the period summary as a PDF and returns it
// inline
func (h *ReportHandler) GenerateSummaryReport(c *gin.Context) {
	period, ok := periodFromQuery(c)
	if !ok {
		return
	}

	pdfBytes, err := h.service.GenerateSummaryReport(c.Request.Context(), period)
	if err != nil {
		h.logger.Error("failed to generate summary report",
			zap.Error(err),
			zap.String("period", string(period)),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate summary report",
			Details: stringPtr(err.Error()),
		})
		return
	}

	filename := fmt.Sprintf("health_summary_%s_%s.pdf", period, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(pdfBytes)))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)

	h.logger.Info("summary report generated",
		zap.String("period", string(period)),
		zap.Int("size_bytes", len(pdfBytes)),
	)
}
