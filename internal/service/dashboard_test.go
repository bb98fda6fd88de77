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

func newDashboardFixture(t *testing.T, logs []model.DailyLog) *DashboardService {
	t.Helper()
	charts, _, _ := newTestChartService(t, logs)
	insights := NewInsightService(charts, zap.NewNop())
	svc := NewDashboardService(charts, insights, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

// seededLogs builds 30 days of logs with mood cycling 5..7, steady low pain,
// high energy and full adherence.
func seededLogs() []model.DailyLog {
	logs := make([]model.DailyLog, 30)
	for i := 0; i < 30; i++ {
		logs[i] = model.DailyLog{
			Date:        day(29 - i),
			Mood:        intPtr(5 + i%3),
			PainLevel:   intPtr(3),
			EnergyLevel: intPtr(7),
			MedicationAdherence: []model.MedicationAdherence{
				{MedicationName: "med-a", WasTaken: true},
			},
		}
	}
	return logs
}

func TestDashboardService_Refresh_FetchesLogsOnce(t *testing.T) {
	charts, mockLogs, _ := newTestChartService(t, seededLogs())
	insights := NewInsightService(charts, zap.NewNop())
	svc := NewDashboardService(charts, insights, zap.NewNop())
	svc.now = func() time.Time { return testNow }

	err := svc.Refresh(context.Background())

	require.NoError(t, err)
	// all six facets, including the insight facet, share the snapshot pinned
	// at the start of the refresh
	mockLogs.AssertNumberOfCalls(t, "GetLogs", 1)
}

func TestDashboardService_Refresh(t *testing.T) {
	svc := newDashboardFixture(t, seededLogs())

	err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.False(t, svc.IsLoading())

	snapshot := svc.Snapshot()
	assert.False(t, snapshot.LastRefreshTime.IsZero())

	// one summary card per available metric, capped at 4
	require.Len(t, snapshot.Summaries, 4)
	for _, summary := range snapshot.Summaries {
		assert.Greater(t, summary.CurrentValue, 0.0)
		assert.Greater(t, summary.WeekAverage, 0.0)
	}

	// streaks cover the top 3 metrics here and sort by current streak
	require.NotEmpty(t, snapshot.Streaks)
	assert.LessOrEqual(t, len(snapshot.Streaks), 3)
	for i := 1; i < len(snapshot.Streaks); i++ {
		assert.GreaterOrEqual(t, snapshot.Streaks[i-1].CurrentStreak, snapshot.Streaks[i].CurrentStreak)
	}

	assert.GreaterOrEqual(t, snapshot.Score.Score, 0.0)
	assert.LessOrEqual(t, snapshot.Score.Score, 100.0)
	assert.Len(t, snapshot.Score.Metrics, 4)

	assert.LessOrEqual(t, len(snapshot.TopInsights), 3)

	require.Len(t, snapshot.WeeklyPatterns, 2)
	assert.Equal(t, model.MetricMood, snapshot.WeeklyPatterns[0].Metric)
	assert.Equal(t, model.MetricPainLevel, snapshot.WeeklyPatterns[1].Metric)
	for _, avg := range snapshot.WeeklyPatterns[0].Averages {
		assert.Greater(t, avg, 0.0)
	}
}

func TestDashboardService_Refresh_ScoreTrendStableOnRepeat(t *testing.T) {
	svc := newDashboardFixture(t, seededLogs())
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx))
	firstScore := svc.Snapshot().Score.Score

	require.NoError(t, svc.Refresh(ctx))
	snapshot := svc.Snapshot()

	assert.InDelta(t, firstScore, snapshot.Score.Score, 1e-9)
	assert.Equal(t, model.TrendStable, snapshot.Score.Trend)
}

func TestDashboardService_Refresh_NoData(t *testing.T) {
	svc := newDashboardFixture(t, nil)

	err := svc.Refresh(context.Background())

	require.NoError(t, err)
	snapshot := svc.Snapshot()
	assert.Empty(t, snapshot.Summaries)
	assert.Empty(t, snapshot.Streaks)
	assert.Equal(t, 0.0, snapshot.Score.Score)
	assert.Nil(t, snapshot.TopCorrelation)
	assert.False(t, snapshot.LastRefreshTime.IsZero())
}

func TestDashboardService_TopCorrelation(t *testing.T) {
	// mood and energy move together day by day, pain stays flat
	logs := make([]model.DailyLog, 14)
	for i := 0; i < 14; i++ {
		v := 1 + i%8
		logs[i] = model.DailyLog{
			Date:        day(13 - i),
			Mood:        intPtr(v),
			EnergyLevel: intPtr(v),
			PainLevel:   intPtr(4),
		}
	}
	svc := newDashboardFixture(t, logs)

	require.NoError(t, svc.Refresh(context.Background()))

	corr := svc.Snapshot().TopCorrelation
	require.NotNil(t, corr)
	assert.Equal(t, model.MetricMood, corr.MetricA)
	assert.Equal(t, model.MetricEnergyLevel, corr.MetricB)
	assert.InDelta(t, 1.0, corr.Coefficient, 1e-9)
}

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name   string
		metric model.MetricType
		value  float64
		want   float64
	}{
		{"top mood", model.MetricMood, 10, 100},
		{"mid mood", model.MetricMood, 5, 50},
		{"no pain scores full", model.MetricPainLevel, 0, 100},
		{"max pain scores zero", model.MetricPainLevel, 10, 0},
		{"adherence passes through", model.MetricMedicationAdherence, 85, 85},
		{"adherence clamped", model.MetricMedicationAdherence, 120, 100},
		{"energy scales like mood", model.MetricEnergyLevel, 8, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizeScore(tt.metric, tt.value), 1e-9)
		})
	}
}

func TestMovementTrend(t *testing.T) {
	assert.Equal(t, model.TrendStable, movementTrend(model.MetricMood, 4.9))
	assert.Equal(t, model.TrendStable, movementTrend(model.MetricMood, -4.9))
	assert.Equal(t, model.TrendIncreasing, movementTrend(model.MetricMood, 6))
	assert.Equal(t, model.TrendDecreasing, movementTrend(model.MetricMood, -6))

	// rising pain is a decline, falling pain an improvement
	assert.Equal(t, model.TrendDecreasing, movementTrend(model.MetricPainLevel, 10))
	assert.Equal(t, model.TrendIncreasing, movementTrend(model.MetricPainLevel, -10))
}

func TestPreviousWeekAverage(t *testing.T) {
	_, ok := previousWeekAverage([]float64{1, 2, 3, 4, 5, 6, 7})
	assert.False(t, ok)

	// 10 values: the trailing 7 are dropped, the remaining 3 are averaged
	avg, ok := previousWeekAverage([]float64{2, 4, 6, 9, 9, 9, 9, 9, 9, 9})
	assert.True(t, ok)
	assert.InDelta(t, 4.0, avg, 1e-9)

	// 20 values: only the last 7 before the trailing week count
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i)
	}
	avg, ok = previousWeekAverage(values)
	assert.True(t, ok)
	assert.InDelta(t, 9.0, avg, 1e-9)
}
