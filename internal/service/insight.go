package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthtrack/pkg/model"
)

// correlationPairs is the fixed candidate list for the correlation pass. The
// dashboard's top-correlation search is deliberately broader; the two scopes
// are kept asymmetric on purpose.
var correlationPairs = [][2]model.MetricType{
	{model.MetricMood, model.MetricEnergyLevel},
	{model.MetricPainLevel, model.MetricMood},
	{model.MetricPainLevel, model.MetricEnergyLevel},
}

// InsightService runs independent statistical analyses over chart series and
// produces a ranked list of health insights. Stateless except for the cached
// result of the last generation run.
type InsightService struct {
	charts *ChartDataService
	logger *zap.Logger

	mu         sync.RWMutex
	current    []model.HealthInsight
	generating atomic.Bool
	now        func() time.Time
}

// NewInsightService creates a new InsightService
func NewInsightService(charts *ChartDataService, logger *zap.Logger) *InsightService {
	return &InsightService{
		charts: charts,
		logger: logger,
		now:    time.Now,
	}
}

// GenerateInsights runs the six analysis passes over the period and replaces
// the cached insight list wholesale with the new result, sorted descending by
// priority. Ties keep the pass order: trend, achievement, pattern,
// correlation, warning, recommendation. All passes read from one pinned
// snapshot of the log history.
func (s *InsightService) GenerateInsights(ctx context.Context, period model.TimePeriod) ([]model.HealthInsight, error) {
	snap, err := s.charts.AcquireSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.generateFromSnapshot(snap, period), nil
}

// generateFromSnapshot runs the passes over one pinned snapshot. The
// dashboard calls this directly so its insight facet shares the snapshot
// acquired for the refresh.
func (s *InsightService) generateFromSnapshot(snap *SeriesSnapshot, period model.TimePeriod) []model.HealthInsight {
	s.generating.Store(true)
	defer s.generating.Store(false)

	available := snap.AvailableMetrics()

	insights := []model.HealthInsight{}
	passes := []func(*SeriesSnapshot, []model.MetricType, model.TimePeriod) []model.HealthInsight{
		s.trendInsights,
		s.achievementInsights,
		s.patternInsights,
		s.correlationInsights,
		s.warningInsights,
		s.recommendationInsights,
	}
	for _, pass := range passes {
		insights = append(insights, pass(snap, available, period)...)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})

	s.mu.Lock()
	s.current = insights
	s.mu.Unlock()

	s.logger.Info("insights generated",
		zap.String("period", string(period)),
		zap.Int("count", len(insights)),
		zap.Int("metrics", len(available)),
	)

	return insights
}

// IsGenerating reports whether a generation run is in flight
func (s *InsightService) IsGenerating() bool {
	return s.generating.Load()
}

// CurrentInsights returns the cached result of the last generation run
func (s *InsightService) CurrentInsights() []model.HealthInsight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.HealthInsight, len(s.current))
	copy(out, s.current)
	return out
}

// InsightsByType filters the cached list without regenerating
func (s *InsightService) InsightsByType(t model.InsightType) []model.HealthInsight {
	return s.filterCurrent(func(i model.HealthInsight) bool { return i.Type == t })
}

// HighPriorityInsights returns the cached high and critical insights
func (s *InsightService) HighPriorityInsights() []model.HealthInsight {
	return s.filterCurrent(func(i model.HealthInsight) bool { return i.Priority >= model.PriorityHigh })
}

// ActionableInsights returns the cached insights that carry an action
func (s *InsightService) ActionableInsights() []model.HealthInsight {
	return s.filterCurrent(func(i model.HealthInsight) bool { return i.IsActionable })
}

func (s *InsightService) filterCurrent(keep func(model.HealthInsight) bool) []model.HealthInsight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.HealthInsight{}
	for _, insight := range s.current {
		if keep(insight) {
			out = append(out, insight)
		}
	}
	return out
}

func (s *InsightService) newInsight(t model.InsightType, priority model.InsightPriority, title, description string, actionable *string, confidence float64, period model.TimePeriod, metrics ...string) model.HealthInsight {
	return model.HealthInsight{
		ID:                uuid.New().String(),
		Type:              t,
		Priority:          priority,
		Title:             title,
		Description:       description,
		ActionableText:    actionable,
		Confidence:        confidence,
		RelevancePeriod:   period,
		AssociatedMetrics: metrics,
		GeneratedAt:       s.now(),
		IsActionable:      actionable != nil,
	}
}

// trendInsights fits a least-squares line to each metric series and reports
// significant movement. Rising pain counts as declining; every other metric
// improves when it rises.
func (s *InsightService) trendInsights(snap *SeriesSnapshot, available []model.MetricType, period model.TimePeriod) []model.HealthInsight {
	insights := []model.HealthInsight{}
	for _, metric := range available {
		points := snap.ChartData(metric, period)
		if len(points) < 3 {
			continue
		}

		values := pointValues(points)
		slope, r2 := linearRegression(values)
		confidence := clamp(r2, 0, 1)
		if confidence <= 0.3 || !slopeSignificant(slope) {
			continue
		}

		stable := slopeSteady(slope)
		improving := slope > 0
		if metric == model.MetricPainLevel {
			improving = slope < 0
		}

		name := metric.DisplayName()
		var insight model.HealthInsight
		switch {
		case stable:
			insight = s.newInsight(model.InsightTrend, model.PriorityLow,
				fmt.Sprintf("%s is holding steady", name),
				fmt.Sprintf("Your %s has stayed stable over this period.", name),
				nil, confidence, period, string(metric))
		case improving:
			insight = s.newInsight(model.InsightTrend, model.PriorityMedium,
				fmt.Sprintf("%s is improving", name),
				fmt.Sprintf("Your %s shows a steady improvement over this period.", name),
				nil, confidence, period, string(metric))
		default:
			action := fmt.Sprintf("Review what changed recently and consider discussing your %s with your care provider.", name)
			insight = s.newInsight(model.InsightTrend, model.PriorityHigh,
				fmt.Sprintf("%s is declining", name),
				fmt.Sprintf("Your %s shows a downward trend over this period.", name),
				&action, confidence, period, string(metric))
		}
		insights = append(insights, insight)
	}
	return insights
}

// slopeSignificant reports whether a fitted slope is strong enough to report
// as movement. A slope sitting exactly on the threshold stays unreported.
func slopeSignificant(slope float64) bool {
	return math.Abs(slope) > 0.05
}

// slopeSteady reports whether a fitted slope counts as holding steady. A
// slope of exactly 0.01 in either direction is already movement.
func slopeSteady(slope float64) bool {
	return math.Abs(slope) < 0.01
}

// achievementInsights detects trailing good-day streaks and personal bests.
// At most one achievement is emitted per metric; the streak check wins.
func (s *InsightService) achievementInsights(snap *SeriesSnapshot, available []model.MetricType, period model.TimePeriod) []model.HealthInsight {
	insights := []model.HealthInsight{}
	for _, metric := range available {
		points := snap.ChartData(metric, period)
		if len(points) < 7 {
			continue
		}

		values := pointValues(points)
		name := metric.DisplayName()

		if streak := trailingGoodStreak(metric, values); streak >= 3 {
			insights = append(insights, s.newInsight(model.InsightAchievement, model.PriorityMedium,
				fmt.Sprintf("%d good days in a row", streak),
				fmt.Sprintf("Your %s has been in a healthy range for %d consecutive days.", name, streak),
				nil, 1.0, period, string(metric)))
			continue
		}

		allTimeMax := values[0]
		for _, v := range values {
			if v > allTimeMax {
				allTimeMax = v
			}
		}
		recentMax := values[len(values)-7]
		for _, v := range values[len(values)-7:] {
			if v > recentMax {
				recentMax = v
			}
		}
		if allTimeMax > 0 && recentMax >= allTimeMax*0.95 {
			insights = append(insights, s.newInsight(model.InsightAchievement, model.PriorityHigh,
				fmt.Sprintf("Near personal best for %s", name),
				fmt.Sprintf("Your recent %s reached %.1f, close to your all-time best of %.1f.", name, recentMax, allTimeMax),
				nil, 1.0, period, string(metric)))
		}
	}
	return insights
}

// patternInsights looks for weekday effects in the month-period series
func (s *InsightService) patternInsights(snap *SeriesSnapshot, available []model.MetricType, period model.TimePeriod) []model.HealthInsight {
	insights := []model.HealthInsight{}
	for _, metric := range available {
		points := snap.ChartData(metric, model.PeriodMonth)
		if len(points) < 14 {
			continue
		}

		sums := make(map[time.Weekday]float64)
		counts := make(map[time.Weekday]int)
		total := 0.0
		for _, p := range points {
			day := p.Date.Weekday()
			sums[day] += p.Value
			counts[day]++
			total += p.Value
		}
		if len(counts) < 5 {
			continue
		}

		var bestDay, worstDay time.Weekday
		bestAvg := math.Inf(-1)
		worstAvg := math.Inf(1)
		for day, count := range counts {
			avg := sums[day] / float64(count)
			if avg > bestAvg {
				bestAvg = avg
				bestDay = day
			}
			if avg < worstAvg {
				worstAvg = avg
				worstDay = day
			}
		}

		overall := total / float64(len(points))
		if math.Abs(bestAvg-worstAvg) <= 0.2*overall {
			continue
		}

		name := metric.DisplayName()
		insights = append(insights, s.newInsight(model.InsightPattern, model.PriorityMedium,
			fmt.Sprintf("Weekday pattern in %s", name),
			fmt.Sprintf("Your %s tends to be best on %ss (%.1f) and worst on %ss (%.1f).",
				name, bestDay, bestAvg, worstDay, worstAvg),
			nil, 0.7, period, string(metric)))
	}
	return insights
}

// correlationInsights checks the fixed candidate pairs for a meaningful
// Pearson correlation.
func (s *InsightService) correlationInsights(snap *SeriesSnapshot, available []model.MetricType, period model.TimePeriod) []model.HealthInsight {
	availableSet := make(map[model.MetricType]bool, len(available))
	for _, m := range available {
		availableSet[m] = true
	}

	insights := []model.HealthInsight{}
	for _, pair := range correlationPairs {
		if !availableSet[pair[0]] || !availableSet[pair[1]] {
			continue
		}

		pointsA := snap.ChartData(pair[0], period)
		pointsB := snap.ChartData(pair[1], period)
		if len(pointsA) < 5 || len(pointsB) < 5 {
			continue
		}

		xs, ys := alignByDate(pointsA, pointsB)
		if len(xs) < 3 {
			continue
		}

		r := pearson(xs, ys)
		if !correlationReportable(r) {
			continue
		}

		direction := "positively"
		if r < 0 {
			direction = "negatively"
		}
		strength := "moderately"
		if math.Abs(r) > 0.7 {
			strength = "strongly"
		}

		nameA := pair[0].DisplayName()
		nameB := pair[1].DisplayName()
		insights = append(insights, s.newInsight(model.InsightCorrelation, model.PriorityMedium,
			fmt.Sprintf("%s and %s move together", nameA, nameB),
			fmt.Sprintf("Your %s and %s are %s %s correlated (r = %.2f).", nameA, nameB, strength, direction, r),
			nil, math.Abs(r), period, string(pair[0]), string(pair[1])))
	}
	return insights
}

// correlationReportable reports whether a coefficient clears the insight
// threshold. A coefficient of exactly 0.4 in either direction is excluded.
func correlationReportable(r float64) bool {
	return math.Abs(r) > 0.4
}

// warningInsights flags a strict three-day slide in the most recent
// week-period points. Pain warns on a rise; everything else on a fall.
func (s *InsightService) warningInsights(snap *SeriesSnapshot, available []model.MetricType, period model.TimePeriod) []model.HealthInsight {
	insights := []model.HealthInsight{}
	for _, metric := range available {
		points := snap.ChartData(metric, model.PeriodWeek)
		if len(points) < 3 {
			continue
		}

		values := pointValues(points)
		last := values[len(values)-3:]
		rising := last[0] < last[1] && last[1] < last[2]
		falling := last[0] > last[1] && last[1] > last[2]

		warn := falling
		if metric == model.MetricPainLevel {
			warn = rising
		}
		if !warn {
			continue
		}

		name := metric.DisplayName()
		action := fmt.Sprintf("Keep a close eye on your %s over the next few days.", name)
		insights = append(insights, s.newInsight(model.InsightWarning, model.PriorityHigh,
			fmt.Sprintf("%s worsening over the last 3 days", name),
			fmt.Sprintf("Your %s has moved in the wrong direction three days running.", name),
			&action, 0.8, period, string(metric)))
	}
	return insights
}

// recommendationInsights nudges the user to track more metrics when fewer
// than three are available.
func (s *InsightService) recommendationInsights(_ *SeriesSnapshot, available []model.MetricType, period model.TimePeriod) []model.HealthInsight {
	if len(available) >= 3 {
		return nil
	}
	action := "Log mood, pain and energy daily to unlock trend and correlation insights."
	insight := s.newInsight(model.InsightRecommendation, model.PriorityMedium,
		"Track more metrics",
		fmt.Sprintf("You are currently tracking %d metric(s). Insights get much better with three or more.", len(available)),
		&action, 1.0, period)
	return []model.HealthInsight{insight}
}

// alignByDate pairs up values recorded on the same calendar day
func alignByDate(a, b []model.ChartDataPoint) (xs, ys []float64) {
	byDay := make(map[string]float64, len(b))
	for _, p := range b {
		byDay[p.Date.Format("2006-01-02")] = p.Value
	}
	for _, p := range a {
		if v, ok := byDay[p.Date.Format("2006-01-02")]; ok {
			xs = append(xs, p.Value)
			ys = append(ys, v)
		}
	}
	return xs, ys
}

func pointValues(points []model.ChartDataPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
