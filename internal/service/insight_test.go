package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthtrack/pkg/model"
)

func newInsightFixture(t *testing.T, logs []model.DailyLog) *InsightService {
	t.Helper()
	charts, _, _ := newTestChartService(t, logs)
	svc := NewInsightService(charts, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

// risingLogs produces one log per day for the given number of days, oldest
// first, with the metric value climbing by one each day starting at 1.
func risingLogs(days int, set func(log *model.DailyLog, value int)) []model.DailyLog {
	logs := make([]model.DailyLog, days)
	for i := 0; i < days; i++ {
		log := model.DailyLog{Date: day(days - 1 - i)}
		set(&log, i+1)
		logs[i] = log
	}
	return logs
}

func TestInsightService_GenerateInsights_ImprovingMood(t *testing.T) {
	logs := risingLogs(10, func(log *model.DailyLog, v int) { log.Mood = intPtr(v) })
	svc := newInsightFixture(t, logs)

	insights, err := svc.GenerateInsights(context.Background(), model.PeriodMonth)

	require.NoError(t, err)
	require.Len(t, insights, 3)

	// ties keep pass order: trend, achievement, recommendation
	assert.Equal(t, model.InsightTrend, insights[0].Type)
	assert.Equal(t, model.PriorityMedium, insights[0].Priority)
	assert.Equal(t, "Mood is improving", insights[0].Title)
	assert.False(t, insights[0].IsActionable)
	assert.InDelta(t, 1.0, insights[0].Confidence, 1e-9)
	assert.Equal(t, []string{"mood"}, insights[0].AssociatedMetrics)

	assert.Equal(t, model.InsightAchievement, insights[1].Type)
	assert.Equal(t, "5 good days in a row", insights[1].Title)

	assert.Equal(t, model.InsightRecommendation, insights[2].Type)
	assert.True(t, insights[2].IsActionable)

	assert.False(t, svc.IsGenerating())
}

func TestInsightService_GenerateInsights_RisingPain(t *testing.T) {
	logs := risingLogs(10, func(log *model.DailyLog, v int) { log.PainLevel = intPtr(v) })
	svc := newInsightFixture(t, logs)

	insights, err := svc.GenerateInsights(context.Background(), model.PeriodMonth)

	require.NoError(t, err)
	require.NotEmpty(t, insights)

	// rising pain is a decline, so high-priority insights sort first
	assert.Equal(t, model.PriorityHigh, insights[0].Priority)

	trends := svc.InsightsByType(model.InsightTrend)
	require.Len(t, trends, 1)
	assert.Equal(t, model.PriorityHigh, trends[0].Priority)
	assert.Equal(t, "Pain Level is declining", trends[0].Title)
	assert.True(t, trends[0].IsActionable)

	warnings := svc.InsightsByType(model.InsightWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Pain Level worsening over the last 3 days", warnings[0].Title)
	assert.Equal(t, 0.8, warnings[0].Confidence)
	assert.True(t, warnings[0].IsActionable)

	high := svc.HighPriorityInsights()
	for _, insight := range high {
		assert.GreaterOrEqual(t, insight.Priority, model.PriorityHigh)
	}
	assert.NotEmpty(t, high)

	for _, insight := range svc.ActionableInsights() {
		assert.True(t, insight.IsActionable)
		assert.NotNil(t, insight.ActionableText)
	}
}

func TestInsightService_GenerateInsights_Correlation(t *testing.T) {
	logs := risingLogs(10, func(log *model.DailyLog, v int) {
		log.Mood = intPtr(v)
		log.EnergyLevel = intPtr(v)
	})
	svc := newInsightFixture(t, logs)

	_, err := svc.GenerateInsights(context.Background(), model.PeriodMonth)
	require.NoError(t, err)

	correlations := svc.InsightsByType(model.InsightCorrelation)
	require.Len(t, correlations, 1)
	assert.Equal(t, "Mood and Energy Level move together", correlations[0].Title)
	assert.Contains(t, correlations[0].Description, "strongly positively")
	assert.InDelta(t, 1.0, correlations[0].Confidence, 1e-9)
	assert.Equal(t, []string{"mood", "energy_level"}, correlations[0].AssociatedMetrics)
}

func TestInsightService_GenerateInsights_SparseData(t *testing.T) {
	logs := []model.DailyLog{
		{Date: day(1), Mood: intPtr(5)},
		{Date: day(0), Mood: intPtr(6)},
	}
	svc := newInsightFixture(t, logs)

	insights, err := svc.GenerateInsights(context.Background(), model.PeriodMonth)

	require.NoError(t, err)
	// two points are below every analysis minimum, only the tracking nudge
	// survives
	require.Len(t, insights, 1)
	assert.Equal(t, model.InsightRecommendation, insights[0].Type)
	assert.Contains(t, insights[0].Description, "1 metric(s)")
}

func TestInsightService_CurrentInsights_ReturnsCopy(t *testing.T) {
	logs := risingLogs(10, func(log *model.DailyLog, v int) { log.Mood = intPtr(v) })
	svc := newInsightFixture(t, logs)

	_, err := svc.GenerateInsights(context.Background(), model.PeriodMonth)
	require.NoError(t, err)

	first := svc.CurrentInsights()
	require.NotEmpty(t, first)
	first[0].Title = "mutated"

	second := svc.CurrentInsights()
	assert.NotEqual(t, "mutated", second[0].Title)
}

func TestInsightService_GenerateInsights_FetchesLogsOnce(t *testing.T) {
	logs := risingLogs(10, func(log *model.DailyLog, v int) {
		log.Mood = intPtr(v)
		log.PainLevel = intPtr(3)
		log.EnergyLevel = intPtr(7)
	})
	charts, mockLogs, _ := newTestChartService(t, logs)
	svc := NewInsightService(charts, zap.NewNop())
	svc.now = func() time.Time { return testNow }

	_, err := svc.GenerateInsights(context.Background(), model.PeriodMonth)

	require.NoError(t, err)
	// every pass reads the snapshot pinned at the start of the run, so a
	// generation over a cold cache still hits the source exactly once
	mockLogs.AssertNumberOfCalls(t, "GetLogs", 1)
}

func TestInsightService_GenerateInsights_CorrelationAtThreshold(t *testing.T) {
	// pearson over these pairs is exactly 0.4: numerator 5*49-15*15 = 20,
	// denominator sqrt(50*50) = 50, all exact in float64
	moods := []int{1, 2, 3, 4, 5}
	energies := []int{1, 5, 2, 3, 4}
	logs := make([]model.DailyLog, len(moods))
	for i := range moods {
		logs[i] = model.DailyLog{
			Date:        day(len(moods) - 1 - i),
			Mood:        intPtr(moods[i]),
			EnergyLevel: intPtr(energies[i]),
		}
	}
	svc := newInsightFixture(t, logs)

	_, err := svc.GenerateInsights(context.Background(), model.PeriodMonth)

	require.NoError(t, err)
	assert.Empty(t, svc.InsightsByType(model.InsightCorrelation))
}

func TestCorrelationReportable_Boundary(t *testing.T) {
	assert.False(t, correlationReportable(0.4))
	assert.False(t, correlationReportable(-0.4))
	assert.True(t, correlationReportable(0.41))
	assert.True(t, correlationReportable(-0.41))
	assert.False(t, correlationReportable(0))
}

func TestSlopeClassification_Boundary(t *testing.T) {
	assert.False(t, slopeSignificant(0.05))
	assert.False(t, slopeSignificant(-0.05))
	assert.True(t, slopeSignificant(0.051))
	assert.True(t, slopeSignificant(-0.051))

	// a slope of exactly 0.01 in either direction is already movement
	assert.False(t, slopeSteady(0.01))
	assert.False(t, slopeSteady(-0.01))
	assert.True(t, slopeSteady(0.0099))
	assert.True(t, slopeSteady(0))
}

func TestInsightService_CurrentInsights_EmptyBeforeGeneration(t *testing.T) {
	svc := newInsightFixture(t, nil)

	assert.Empty(t, svc.CurrentInsights())
	assert.Empty(t, svc.HighPriorityInsights())
	assert.False(t, svc.IsGenerating())
}
