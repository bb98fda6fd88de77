package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"healthtrack/internal/pdf"
	"healthtrack/pkg/model"
)

// ReportService renders period summaries as downloadable PDF reports
type ReportService struct {
	charts    *ChartDataService
	insights  *InsightService
	dashboard *DashboardService
	pdfGen    *pdf.Generator
	logger    *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(charts *ChartDataService, insights *InsightService, dashboard *DashboardService, pdfGen *pdf.Generator, logger *zap.Logger) *ReportService {
	return &ReportService{
		charts:    charts,
		insights:  insights,
		dashboard: dashboard,
		pdfGen:    pdfGen,
		logger:    logger,
	}
}

// GenerateSummaryReport assembles statistics for every available metric plus
// freshly generated insights and renders them as a PDF.
func (s *ReportService) GenerateSummaryReport(ctx context.Context, period model.TimePeriod) ([]byte, error) {
	s.logger.Info("generating summary report",
		zap.String("period", string(period)),
	)

	snap, err := s.charts.AcquireSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	sections := []pdf.MetricSection{}
	for _, metric := range snap.AvailableMetrics() {
		points := snap.ChartData(metric, period)
		if len(points) == 0 {
			continue
		}
		sections = append(sections, pdf.MetricSection{
			Name:       metric.DisplayName(),
			Statistics: s.charts.CalculateStatistics(points),
		})
	}

	insights := s.insights.generateFromSnapshot(snap, period)

	var score *model.HealthScore
	if snapshot := s.dashboard.Snapshot(); len(snapshot.Score.Metrics) > 0 {
		scoreCopy := snapshot.Score
		score = &scoreCopy
	}

	data := &pdf.ReportData{
		Period:      string(period),
		GeneratedAt: time.Now(),
		Metrics:     sections,
		Insights:    insights,
		Score:       score,
	}

	pdfBytes, err := s.pdfGen.Generate(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	s.logger.Info("summary report generated",
		zap.String("period", string(period)),
		zap.Int("size_bytes", len(pdfBytes)),
	)
	return pdfBytes, nil
}
