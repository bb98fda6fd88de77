package service

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"healthtrack/pkg/model"
)

// metricWeights is the fixed per-metric weight table for the health score
var metricWeights = map[model.MetricType]float64{
	model.MetricMood:                1.0,
	model.MetricPainLevel:           1.0,
	model.MetricEnergyLevel:         0.8,
	model.MetricMedicationAdherence: 0.9,
}

const defaultMetricWeight = 0.5

// DashboardService concurrently computes the dashboard facets from chart
// series and insights and exposes them as a consistent snapshot.
type DashboardService struct {
	charts   *ChartDataService
	insights *InsightService
	logger   *zap.Logger

	mu        sync.RWMutex
	snapshot  model.DashboardSnapshot
	prevScore *float64
	loading   atomic.Bool
	now       func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(charts *ChartDataService, insights *InsightService, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		charts:   charts,
		insights: insights,
		logger:   logger,
		now:      time.Now,
	}
}

// IsLoading reports whether a refresh is in flight
func (s *DashboardService) IsLoading() bool {
	return s.loading.Load()
}

// Snapshot returns the most recently published dashboard state
func (s *DashboardService) Snapshot() model.DashboardSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh recomputes the six dashboard facets concurrently over a shared log
// snapshot and publishes the result atomically. A facet that cannot produce a
// result keeps its previous value; only source failures and cancellation
// abort the refresh as a whole.
func (s *DashboardService) Refresh(ctx context.Context) error {
	s.loading.Store(true)
	defer s.loading.Store(false)

	snap, err := s.charts.AcquireSnapshot(ctx)
	if err != nil {
		return err
	}
	available := snap.AvailableMetrics()

	s.mu.RLock()
	next := s.snapshot
	s.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if summaries := s.metricSummaries(snap, available); summaries != nil {
			next.Summaries = summaries
		}
		return ctx.Err()
	})
	g.Go(func() error {
		if streaks := s.streaks(snap, available); streaks != nil {
			next.Streaks = streaks
		}
		return ctx.Err()
	})
	g.Go(func() error {
		if score, ok := s.healthScore(snap, available); ok {
			next.Score = score
		}
		return ctx.Err()
	})
	g.Go(func() error {
		if top := s.topInsights(snap); top != nil {
			next.TopInsights = top
		}
		return ctx.Err()
	})
	g.Go(func() error {
		if patterns := s.weeklyPatterns(snap, available); patterns != nil {
			next.WeeklyPatterns = patterns
		}
		return ctx.Err()
	})
	g.Go(func() error {
		if corr := s.topCorrelation(snap, available); corr != nil {
			next.TopCorrelation = corr
		}
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("dashboard refresh aborted", zap.Error(err))
		return err
	}

	next.LastRefreshTime = s.now()
	score := next.Score.Score

	s.mu.Lock()
	s.snapshot = next
	s.prevScore = &score
	s.mu.Unlock()

	s.logger.Info("dashboard refreshed",
		zap.Int("summaries", len(next.Summaries)),
		zap.Int("streaks", len(next.Streaks)),
		zap.Float64("score", next.Score.Score),
	)

	return nil
}

// metricSummaries builds summary cards for the top 4 available metrics: the
// latest week-period value and the week average compared against the
// previous week inside the month window.
func (s *DashboardService) metricSummaries(snap *SeriesSnapshot, available []model.MetricType) []model.MetricSummary {
	summaries := []model.MetricSummary{}
	for _, metric := range topN(available, 4) {
		weekPoints := snap.ChartData(metric, model.PeriodWeek)
		if len(weekPoints) == 0 {
			continue
		}
		weekValues := pointValues(weekPoints)
		current := weekValues[len(weekValues)-1]
		weekAvg := mean(weekValues)

		changePct := 0.0
		trend := model.TrendStable
		monthPoints := snap.ChartData(metric, model.PeriodMonth)
		if prevAvg, ok := previousWeekAverage(pointValues(monthPoints)); ok && prevAvg != 0 {
			changePct = (weekAvg - prevAvg) / prevAvg * 100
			trend = movementTrend(metric, changePct)
		}

		summaries = append(summaries, model.MetricSummary{
			Metric:        metric,
			CurrentValue:  current,
			WeekAverage:   weekAvg,
			ChangePercent: changePct,
			Trend:         trend,
		})
	}
	return summaries
}

// previousWeekAverage takes the month-period values, drops the trailing week
// and averages the last 7 of what remains.
func previousWeekAverage(monthValues []float64) (float64, bool) {
	weekLen := model.PeriodWeek.Days()
	if len(monthValues) <= weekLen {
		return 0, false
	}
	rest := monthValues[:len(monthValues)-weekLen]
	if len(rest) > 7 {
		rest = rest[len(rest)-7:]
	}
	return mean(rest), true
}

// movementTrend maps a percentage change onto a direction with a ±5%
// stability band. Pain is inverted: a rising pain level is a decline.
func movementTrend(metric model.MetricType, changePct float64) model.TrendDirection {
	if math.Abs(changePct) < 5 {
		return model.TrendStable
	}
	improving := changePct > 0
	if metric == model.MetricPainLevel {
		improving = !improving
	}
	if improving {
		return model.TrendIncreasing
	}
	return model.TrendDecreasing
}

// streaks computes current and longest good-day runs over the last 30
// month-period points for the top 3 available metrics.
func (s *DashboardService) streaks(snap *SeriesSnapshot, available []model.MetricType) []model.StreakSummary {
	streaks := []model.StreakSummary{}
	for _, metric := range topN(available, 3) {
		points := snap.ChartData(metric, model.PeriodMonth)
		if len(points) < 3 {
			continue
		}

		values := pointValues(points)
		if len(values) > 30 {
			values = values[len(values)-30:]
		}

		current := trailingGoodStreak(metric, values)
		longest := longestGoodStreak(metric, values)
		if current == 0 && longest < 3 {
			continue
		}
		streaks = append(streaks, model.StreakSummary{
			Metric:        metric,
			CurrentStreak: current,
			LongestStreak: longest,
		})
	}
	sort.SliceStable(streaks, func(i, j int) bool {
		return streaks[i].CurrentStreak > streaks[j].CurrentStreak
	})
	return streaks
}

// healthScore folds the normalized week-period averages of every available
// metric into a 0-100 weighted composite.
func (s *DashboardService) healthScore(snap *SeriesSnapshot, available []model.MetricType) (model.HealthScore, bool) {
	var weightedSum, totalWeight float64
	used := []model.MetricType{}
	for _, metric := range available {
		points := snap.ChartData(metric, model.PeriodWeek)
		if len(points) == 0 {
			continue
		}
		avg := mean(pointValues(points))
		weight, ok := metricWeights[metric]
		if !ok {
			weight = defaultMetricWeight
		}
		weightedSum += normalizeScore(metric, avg) * weight
		totalWeight += weight
		used = append(used, metric)
	}
	if len(used) == 0 {
		return model.HealthScore{}, false
	}

	score := 0.0
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	trend := model.TrendStable
	s.mu.RLock()
	prev := s.prevScore
	s.mu.RUnlock()
	if prev != nil {
		switch {
		case score > *prev+2:
			trend = model.TrendIncreasing
		case score < *prev-2:
			trend = model.TrendDecreasing
		}
	}

	return model.HealthScore{Score: score, Trend: trend, Metrics: used}, true
}

// normalizeScore maps a metric average onto a 0-100 healthiness scale
func normalizeScore(metric model.MetricType, value float64) float64 {
	switch metric {
	case model.MetricMood, model.MetricEnergyLevel:
		return clamp(value/10*100, 0, 100)
	case model.MetricPainLevel:
		return clamp((10-value)/10*100, 0, 100)
	case model.MetricMedicationAdherence:
		return clamp(value, 0, 100)
	default:
		return clamp(value/10*100, 0, 100)
	}
}

// topInsights regenerates week-period insights from the shared snapshot and
// keeps the top 3
func (s *DashboardService) topInsights(snap *SeriesSnapshot) []model.HealthInsight {
	insights := s.insights.generateFromSnapshot(snap, model.PeriodWeek)
	if len(insights) > 3 {
		insights = insights[:3]
	}
	return insights
}

// weeklyPatterns buckets the month-period series of the top 2 metrics by
// weekday, Sunday first, with 0 for weekdays that have no data.
func (s *DashboardService) weeklyPatterns(snap *SeriesSnapshot, available []model.MetricType) []model.WeekdayPattern {
	patterns := []model.WeekdayPattern{}
	for _, metric := range topN(available, 2) {
		points := snap.ChartData(metric, model.PeriodMonth)
		if len(points) == 0 {
			continue
		}

		var sums [7]float64
		var counts [7]int
		for _, p := range points {
			day := int(p.Date.Weekday())
			sums[day] += p.Value
			counts[day]++
		}

		pattern := model.WeekdayPattern{Metric: metric}
		for day := range sums {
			if counts[day] > 0 {
				pattern.Averages[day] = sums[day] / float64(counts[day])
			}
		}
		patterns = append(patterns, pattern)
	}
	return patterns
}

// topCorrelation searches every pair of available metrics for the strongest
// Pearson correlation, a broader sweep than the insight engine's fixed pair
// list. Only correlations with |r| > 0.3 surface.
func (s *DashboardService) topCorrelation(snap *SeriesSnapshot, available []model.MetricType) *model.MetricCorrelation {
	var best *model.MetricCorrelation
	for i := 0; i < len(available); i++ {
		for j := i + 1; j < len(available); j++ {
			pointsA := snap.ChartData(available[i], model.PeriodMonth)
			pointsB := snap.ChartData(available[j], model.PeriodMonth)

			xs, ys := alignByDate(pointsA, pointsB)
			if len(xs) < 3 {
				continue
			}

			r := pearson(xs, ys)
			if math.Abs(r) <= 0.3 {
				continue
			}
			if best == nil || math.Abs(r) > math.Abs(best.Coefficient) {
				best = &model.MetricCorrelation{
					MetricA:     available[i],
					MetricB:     available[j],
					Coefficient: r,
				}
			}
		}
	}
	return best
}

func topN(metrics []model.MetricType, n int) []model.MetricType {
	if len(metrics) > n {
		return metrics[:n]
	}
	return metrics
}
