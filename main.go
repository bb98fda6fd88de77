package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"healthtrack/internal/audit"
	"healthtrack/internal/config"
	"healthtrack/internal/handler"
	"healthtrack/internal/middleware"
	"healthtrack/internal/pdf"
	"healthtrack/internal/repository"
	"healthtrack/internal/security"
	"healthtrack/internal/service"
)

var (
	logger *zap.Logger
	pool   *pgxpool.Pool
	cfg    *config.Config
)

func main() {
	// Load configuration
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Duration("chart_cache_ttl", cfg.Analytics.CacheTTL),
	)

	// Initialize database connection pool with pgx
	pool, err = pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Initialize optional notes encryption
	var encryptor *security.Encryptor
	if cfg.Security.NotesEncryptionKey != "" {
		encryptor, err = security.NewEncryptorFromBase64(cfg.Security.NotesEncryptionKey)
		if err != nil {
			logger.Fatal("Failed to initialize notes encryption", zap.Error(err))
		}
		logger.Info("Notes encryption enabled")
	}

	// Initialize repositories
	logRepo := repository.NewLogRepository(pool, encryptor, logger)
	symptomRepo := repository.NewSymptomRepository(pool, logger)
	widgetRepo := repository.NewWidgetRepository(pool, logger)

	// Initialize audit logger for data changes
	auditLogger := audit.NewLogger(pool, logger)

	// Initialize services
	chartService := service.NewChartDataService(logRepo, symptomRepo, cfg.Analytics.CacheTTL, logger)
	insightService := service.NewInsightService(chartService, logger)
	dashboardService := service.NewDashboardService(chartService, insightService, logger)
	logService := service.NewLogService(logRepo, symptomRepo, chartService, auditLogger, logger)
	widgetService := service.NewWidgetService(widgetRepo, auditLogger, logger)

	// Initialize PDF generator and report service
	pdfGenerator := pdf.NewGenerator(logger)
	reportService := service.NewReportService(chartService, insightService, dashboardService, pdfGenerator, logger)

	// Initialize handlers
	logHandler := handler.NewLogHandler(logService, logger)
	symptomHandler := handler.NewSymptomHandler(logService, logger)
	chartHandler := handler.NewChartHandler(chartService, logger)
	insightHandler := handler.NewInsightHandler(insightService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	widgetHandler := handler.NewWidgetHandler(widgetService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	healthHandler := handler.NewHealthCheckHandler(pool, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register routes
	r.GET("/health", healthHandler.HealthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/logs", logHandler.ListLogs)
		v1.POST("/logs", logHandler.SaveLog)
		v1.DELETE("/logs/:date", logHandler.DeleteLog)

		v1.GET("/symptoms", symptomHandler.ListSymptoms)
		v1.POST("/symptoms", symptomHandler.TrackSymptom)
		v1.DELETE("/symptoms/:id", symptomHandler.UntrackSymptom)

		v1.GET("/charts/symptoms/:name", chartHandler.GetSymptomChart)
		v1.GET("/charts/medications/:name", chartHandler.GetMedicationChart)
		v1.GET("/charts/activities/:name", chartHandler.GetActivityChart)
		v1.GET("/charts/meals/:name", chartHandler.GetMealChart)
		v1.GET("/charts/:metric", chartHandler.GetMetricChart)
		v1.GET("/charts/:metric/statistics", chartHandler.GetMetricStatistics)

		v1.GET("/metrics/available", chartHandler.GetAvailableMetrics)
		v1.GET("/symptoms/available", chartHandler.GetAvailableSymptoms)
		v1.GET("/medications/available", chartHandler.GetAvailableMedications)
		v1.GET("/activities/available", chartHandler.GetAvailableActivities)
		v1.GET("/meals/available", chartHandler.GetAvailableMeals)

		v1.POST("/insights/generate", insightHandler.GenerateInsights)
		v1.GET("/insights", insightHandler.ListInsights)

		v1.GET("/dashboard", dashboardHandler.GetDashboard)
		v1.POST("/dashboard/refresh", dashboardHandler.RefreshDashboard)

		v1.GET("/dashboard/widgets", widgetHandler.ListWidgets)
		v1.POST("/dashboard/widgets", widgetHandler.AddWidget)
		v1.PUT("/dashboard/widgets/positions", widgetHandler.ReorderWidgets)
		v1.PUT("/dashboard/widgets/:id", widgetHandler.ResizeWidget)
		v1.DELETE("/dashboard/widgets/:id", widgetHandler.RemoveWidget)

		v1.POST("/reports/summary", reportHandler.GenerateSummaryReport)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connections
	pool.Close()

	logger.Info("Server exited")
}
