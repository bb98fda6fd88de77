package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthtrack/internal/service"
	"healthtrack/pkg/model"
)

type stubLogSource struct {
	logs []model.DailyLog
}

func (s *stubLogSource) GetLogs(ctx context.Context) ([]model.DailyLog, error) {
	return s.logs, nil
}

func (s *stubLogSource) SaveLog(ctx context.Context, log *model.DailyLog) error {
	s.logs = append(s.logs, *log)
	return nil
}

func (s *stubLogSource) DeleteLog(ctx context.Context, date time.Time) error {
	return nil
}

type stubSymptomSource struct {
	symptoms []model.TrackedSymptom
}

func (s *stubSymptomSource) GetTrackedSymptoms(ctx context.Context) ([]model.TrackedSymptom, error) {
	return s.symptoms, nil
}

func (s *stubSymptomSource) SaveTrackedSymptom(ctx context.Context, symptom *model.TrackedSymptom) error {
	s.symptoms = append(s.symptoms, *symptom)
	return nil
}

func (s *stubSymptomSource) DeleteTrackedSymptom(ctx context.Context, id string) error {
	return nil
}

func intPtr(v int) *int { return &v }

func seedLogs(days int) []model.DailyLog {
	logs := make([]model.DailyLog, days)
	base := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < days; i++ {
		logs[i] = model.DailyLog{
			Date: base.AddDate(0, 0, -(days - 1 - i)),
			Mood: intPtr(4 + i%5),
		}
	}
	return logs
}

// setupRouter wires the analytics handlers against in-memory stores
func setupRouter(t *testing.T, logs []model.DailyLog) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	logSource := &stubLogSource{logs: logs}
	symptomSource := &stubSymptomSource{}
	charts := service.NewChartDataService(logSource, symptomSource, time.Minute, logger)
	insights := service.NewInsightService(charts, logger)
	dashboard := service.NewDashboardService(charts, insights, logger)
	logService := service.NewLogService(logSource, symptomSource, charts, nil, logger)

	chartHandler := NewChartHandler(charts, logger)
	insightHandler := NewInsightHandler(insights, logger)
	dashboardHandler := NewDashboardHandler(dashboard, logger)
	logHandler := NewLogHandler(logService, logger)

	router := gin.New()
	api := router.Group("/api/v1")
	{
		api.GET("/logs", logHandler.ListLogs)
		api.POST("/logs", logHandler.SaveLog)
		api.DELETE("/logs/:date", logHandler.DeleteLog)
		api.GET("/charts/:metric", chartHandler.GetMetricChart)
		api.GET("/charts/:metric/statistics", chartHandler.GetMetricStatistics)
		api.GET("/metrics/available", chartHandler.GetAvailableMetrics)
		api.POST("/insights/generate", insightHandler.GenerateInsights)
		api.GET("/insights", insightHandler.ListInsights)
		api.GET("/dashboard", dashboardHandler.GetDashboard)
		api.POST("/dashboard/refresh", dashboardHandler.RefreshDashboard)
	}
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChartHandler_GetMetricChart(t *testing.T) {
	router := setupRouter(t, seedLogs(10))

	w := doRequest(router, http.MethodGet, "/api/v1/charts/mood?period=month", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Metric string                 `json:"metric"`
		Period string                 `json:"period"`
		Points []model.ChartDataPoint `json:"points"`
		Count  int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "mood", resp.Metric)
	assert.Equal(t, "month", resp.Period)
	assert.Equal(t, 10, resp.Count)
	assert.Len(t, resp.Points, 10)
}

func TestChartHandler_GetMetricChart_UnknownMetric(t *testing.T) {
	router := setupRouter(t, seedLogs(3))

	w := doRequest(router, http.MethodGet, "/api/v1/charts/bogus", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
}

func TestChartHandler_GetMetricChart_UnknownPeriod(t *testing.T) {
	router := setupRouter(t, seedLogs(3))

	w := doRequest(router, http.MethodGet, "/api/v1/charts/mood?period=decade", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	require.NotNil(t, resp.Details)
	assert.Contains(t, *resp.Details, "decade")
}

func TestChartHandler_GetMetricStatistics(t *testing.T) {
	router := setupRouter(t, seedLogs(10))

	w := doRequest(router, http.MethodGet, "/api/v1/charts/mood/statistics?period=month", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Statistics model.ChartStatistics `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Statistics.Count)
	assert.Greater(t, resp.Statistics.Mean, 0.0)
}

func TestChartHandler_GetAvailableMetrics(t *testing.T) {
	router := setupRouter(t, seedLogs(5))

	w := doRequest(router, http.MethodGet, "/api/v1/metrics/available", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Metrics []model.MetricType `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []model.MetricType{model.MetricMood}, resp.Metrics)
}

func TestLogHandler_SaveLog(t *testing.T) {
	router := setupRouter(t, nil)

	log := model.DailyLog{
		Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Mood: intPtr(7),
	}
	w := doRequest(router, http.MethodPost, "/api/v1/logs", log)

	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestLogHandler_SaveLog_InvalidMood(t *testing.T) {
	router := setupRouter(t, nil)

	log := model.DailyLog{
		Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Mood: intPtr(42),
	}
	w := doRequest(router, http.MethodPost, "/api/v1/logs", log)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogHandler_SaveLog_MalformedBody(t *testing.T) {
	router := setupRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
}

func TestLogHandler_DeleteLog_InvalidDate(t *testing.T) {
	router := setupRouter(t, nil)

	w := doRequest(router, http.MethodDelete, "/api/v1/logs/not-a-date", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogHandler_DeleteLog(t *testing.T) {
	router := setupRouter(t, seedLogs(1))

	w := doRequest(router, http.MethodDelete, "/api/v1/logs/2026-03-10", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestInsightHandler_GenerateAndList(t *testing.T) {
	router := setupRouter(t, seedLogs(10))

	w := doRequest(router, http.MethodPost, "/api/v1/insights/generate?period=month", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var genResp struct {
		Insights []model.HealthInsight `json:"insights"`
		Count    int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &genResp))
	assert.Equal(t, len(genResp.Insights), genResp.Count)

	w = doRequest(router, http.MethodGet, "/api/v1/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Count      int  `json:"count"`
		Generating bool `json:"generating"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, genResp.Count, listResp.Count)
	assert.False(t, listResp.Generating)
}

func TestInsightHandler_ListActionableOnly(t *testing.T) {
	router := setupRouter(t, seedLogs(10))

	doRequest(router, http.MethodPost, "/api/v1/insights/generate?period=month", nil)
	w := doRequest(router, http.MethodGet, "/api/v1/insights?actionable=true", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Insights []model.HealthInsight `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, insight := range resp.Insights {
		assert.True(t, insight.IsActionable)
	}
}

func TestDashboardHandler_RefreshAndGet(t *testing.T) {
	router := setupRouter(t, seedLogs(10))

	w := doRequest(router, http.MethodPost, "/api/v1/dashboard/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Dashboard model.DashboardSnapshot `json:"dashboard"`
		Loading   bool                    `json:"loading"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Loading)
	assert.False(t, resp.Dashboard.LastRefreshTime.IsZero())
	assert.NotEmpty(t, resp.Dashboard.Summaries)
}
