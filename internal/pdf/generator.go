package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"healthtrack/pkg/model"
)

// Generator renders health summary reports as PDF documents
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new Generator
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// MetricSection is the per-metric portion of a summary report
type MetricSection struct {
	Name       string
	Statistics model.ChartStatistics
}

// ReportData contains everything needed to render a summary report
type ReportData struct {
	Period      string
	GeneratedAt time.Time
	Metrics     []MetricSection
	Insights    []model.HealthInsight
	Score       *model.HealthScore
}

// Generate renders a summary report and returns the PDF bytes
func (g *Generator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating summary report",
		zap.String("period", data.Period),
		zap.Int("metrics", len(data.Metrics)),
		zap.Int("insights", len(data.Insights)),
	)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	g.addTitle(doc, data)
	g.addHealthScore(doc, data.Score)
	g.addMetricStatistics(doc, data.Metrics)
	g.addInsights(doc, data.Insights)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("summary report generated",
		zap.Int("size_bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (g *Generator) addTitle(doc *gofpdf.Fpdf, data *ReportData) {
	doc.SetFont("Arial", "B", 20)
	doc.CellFormat(0, 10, "Health Summary", "", 1, "C", false, 0, "")
	doc.Ln(5)

	doc.SetFont("Arial", "", 12)
	doc.CellFormat(0, 8, fmt.Sprintf("Period: %s", data.Period), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, fmt.Sprintf("Generated: %s", data.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	doc.Ln(10)
}

func (g *Generator) addSectionHeader(doc *gofpdf.Fpdf, title string) {
	doc.SetFont("Arial", "B", 14)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	doc.Ln(3)
	doc.SetFont("Arial", "", 10)
}

func (g *Generator) addHealthScore(doc *gofpdf.Fpdf, score *model.HealthScore) {
	g.addSectionHeader(doc, "Health Score")

	if score == nil {
		doc.CellFormat(0, 8, "No health score available for this period.", "", 1, "L", false, 0, "")
		doc.Ln(5)
		return
	}

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, fmt.Sprintf("%.0f / 100", score.Score), "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("Trend: %s", score.Trend), "", 1, "L", false, 0, "")
	doc.Ln(5)
}

func (g *Generator) addMetricStatistics(doc *gofpdf.Fpdf, sections []MetricSection) {
	g.addSectionHeader(doc, "Metric Statistics")

	if len(sections) == 0 {
		doc.CellFormat(0, 8, "No metric data recorded during this period.", "", 1, "L", false, 0, "")
		doc.Ln(5)
		return
	}

	for _, section := range sections {
		doc.SetFont("Arial", "B", 10)
		doc.CellFormat(0, 6, section.Name, "", 1, "L", false, 0, "")
		doc.SetFont("Arial", "", 10)

		stats := section.Statistics
		doc.CellFormat(0, 5, fmt.Sprintf("  Mean: %.1f   Median: %.1f   Min: %.1f   Max: %.1f", stats.Mean, stats.Median, stats.Min, stats.Max), "", 1, "L", false, 0, "")
		doc.CellFormat(0, 5, fmt.Sprintf("  Data points: %d   Trend: %s   Change: %.1f%%", stats.Count, stats.Trend, stats.ChangePercentage), "", 1, "L", false, 0, "")
		doc.Ln(3)
	}
	doc.Ln(5)
}

func (g *Generator) addInsights(doc *gofpdf.Fpdf, insights []model.HealthInsight) {
	g.addSectionHeader(doc, "Insights")

	if len(insights) == 0 {
		doc.CellFormat(0, 8, "No insights generated for this period.", "", 1, "L", false, 0, "")
		doc.Ln(5)
		return
	}

	for _, insight := range insights {
		doc.SetFont("Arial", "B", 10)
		doc.CellFormat(0, 6, fmt.Sprintf("[%s] %s", insight.Priority, insight.Title), "", 1, "L", false, 0, "")
		doc.SetFont("Arial", "", 10)
		doc.MultiCell(0, 5, "  "+insight.Description, "", "L", false)
		if insight.ActionableText != nil {
			doc.MultiCell(0, 5, "  Suggested action: "+*insight.ActionableText, "", "L", false)
		}
		doc.Ln(2)
	}
	doc.Ln(5)
}
