package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthtrack/pkg/model"
)

// ErrorResponse is the standard error body returned by every endpoint
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// periodFromQuery parses the optional ?period= query parameter, defaulting to
// the monthly view. It writes the error response itself when the value is
// unknown.
func periodFromQuery(c *gin.Context) (model.TimePeriod, bool) {
	raw := c.DefaultQuery("period", string(model.PeriodMonth))
	period, ok := model.ParseTimePeriod(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid time period",
			Details: stringPtr("unknown period: " + raw),
		})
		return "", false
	}
	return period, true
}
