package model

import "time"

// MetricSummary is one dashboard summary card: the latest value for a metric
// and its week-over-week movement.
type MetricSummary struct {
	Metric        MetricType     `json:"metric"`
	CurrentValue  float64        `json:"current_value"`
	WeekAverage   float64        `json:"week_average"`
	ChangePercent float64        `json:"change_percent"`
	Trend         TrendDirection `json:"trend"`
}

// StreakSummary reports consecutive "good" days for a metric
type StreakSummary struct {
	Metric        MetricType `json:"metric"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
}

// HealthScore is the 0-100 weighted composite of normalized metric averages
type HealthScore struct {
	Score   float64        `json:"score"`
	Trend   TrendDirection `json:"trend"`
	Metrics []MetricType   `json:"metrics"`
}

// WeekdayPattern holds weekday-bucketed averages for a metric. Averages is
// Sunday-first with 0 for weekdays that have no data.
type WeekdayPattern struct {
	Metric   MetricType `json:"metric"`
	Averages [7]float64 `json:"averages"`
}

// MetricCorrelation is the strongest pairwise Pearson correlation found
// across the available metrics.
type MetricCorrelation struct {
	MetricA     MetricType `json:"metric_a"`
	MetricB     MetricType `json:"metric_b"`
	Coefficient float64    `json:"coefficient"`
}

// DashboardSnapshot is the consistent, concurrently computed dashboard state.
// Facets that could not produce a result keep their previous value.
type DashboardSnapshot struct {
	Summaries       []MetricSummary    `json:"summaries"`
	Streaks         []StreakSummary    `json:"streaks"`
	Score           HealthScore        `json:"score"`
	TopInsights     []HealthInsight    `json:"top_insights"`
	WeeklyPatterns  []WeekdayPattern   `json:"weekly_patterns"`
	TopCorrelation  *MetricCorrelation `json:"top_correlation,omitempty"`
	LastRefreshTime time.Time          `json:"last_refresh_time"`
}
