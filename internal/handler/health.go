package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// HealthCheckHandler implements the service health endpoint
type HealthCheckHandler struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewHealthCheckHandler creates a new HealthCheckHandler
func NewHealthCheckHandler(pool *pgxpool.Pool, logger *zap.Logger) *HealthCheckHandler {
	return &HealthCheckHandler{
		pool:   pool,
		logger: logger,
	}
}

// HealthCheck reports service and database status
func (h *HealthCheckHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.pool.Ping(ctx); err != nil {
		h.logger.Error("database ping failed", zap.Error(err))
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
