package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"healthtrack/pkg/model"
)

// LogSource provides the full daily log history. The service is responsible
// for all filtering, sorting and date-range logic.
type LogSource interface {
	GetLogs(ctx context.Context) ([]model.DailyLog, error)
}

// SymptomSource provides the current tracked symptom definitions
type SymptomSource interface {
	GetTrackedSymptoms(ctx context.Context) ([]model.TrackedSymptom, error)
}

// weatherScores maps weather descriptions onto a numeric scale so weather can
// participate in trend and correlation analysis.
var weatherScores = map[string]float64{
	"stormy": 1,
	"rainy":  2,
	"gloomy": 3,
	"cloudy": 4,
	"snow":   5,
	"sunny":  6,
}

const unknownWeatherScore = 3.5

// availableMetricCandidates is the fixed set reported by GetAvailableMetrics.
// Flare days and activity/meal counts always have values and are kept out of
// this list so they do not crowd the generic chart pickers.
var availableMetricCandidates = []model.MetricType{
	model.MetricMood,
	model.MetricPainLevel,
	model.MetricEnergyLevel,
	model.MetricMedicationAdherence,
	model.MetricWeather,
}

// ChartDataService turns raw daily logs into typed, period-filtered,
// aggregated numeric series and caches the results with a TTL.
type ChartDataService struct {
	logs     LogSource
	symptoms SymptomSource
	cache    *seriesCache
	flight   singleflight.Group
	logger   *zap.Logger
	now      func() time.Time
}

// NewChartDataService creates a new ChartDataService. ttl bounds how long
// extracted series are served from cache.
func NewChartDataService(logs LogSource, symptoms SymptomSource, ttl time.Duration, logger *zap.Logger) *ChartDataService {
	return &ChartDataService{
		logs:     logs,
		symptoms: symptoms,
		cache:    newSeriesCache(ttl),
		logger:   logger,
		now:      time.Now,
	}
}

// snapshot fetches the full log history, sorted ascending by date.
// Concurrent callers share a single in-flight fetch.
func (s *ChartDataService) snapshot(ctx context.Context) ([]model.DailyLog, error) {
	v, err, _ := s.flight.Do("logs", func() (any, error) {
		logs, err := s.logs.GetLogs(ctx)
		if err != nil {
			return nil, err
		}
		sorted := make([]model.DailyLog, len(logs))
		copy(sorted, logs)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Date.Before(sorted[j].Date)
		})
		return sorted, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}
	return v.([]model.DailyLog), nil
}

// SeriesSnapshot is a point-in-time view of the log history. Every series
// extracted from one snapshot observes the same underlying logs, so a
// multi-series computation cannot see a log write land halfway through.
type SeriesSnapshot struct {
	svc  *ChartDataService
	logs []model.DailyLog
}

// AcquireSnapshot pins the current log history. Insight generation and
// dashboard refresh acquire a snapshot once per run and extract every series
// from it; the singleflight group still collapses concurrent acquisitions.
func (s *ChartDataService) AcquireSnapshot(ctx context.Context) (*SeriesSnapshot, error) {
	logs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &SeriesSnapshot{svc: s, logs: logs}, nil
}

// ChartData extracts the aggregated series for a metric from the pinned
// logs. The shared series cache is neither read nor written: a cached entry
// may predate or postdate the snapshot.
func (v *SeriesSnapshot) ChartData(metric model.MetricType, period model.TimePeriod) []model.ChartDataPoint {
	points := v.svc.extractMetricPoints(v.logs, metric, period)
	return aggregatePoints(points, period)
}

// AvailableMetrics lists the generic metrics with at least one defined value
// in the pinned logs.
func (v *SeriesSnapshot) AvailableMetrics() []model.MetricType {
	return availableMetrics(v.logs)
}

// GetChartData returns the aggregated series for a generic metric over a
// period. Results are cached per (metric, period) for the cache TTL.
func (s *ChartDataService) GetChartData(ctx context.Context, metric model.MetricType, period model.TimePeriod) ([]model.ChartDataPoint, error) {
	key := cacheKey{kind: cacheKindMetric, name: string(metric), period: period}
	if cached, ok := s.cache.get(key); ok {
		return cached.([]model.ChartDataPoint), nil
	}

	logs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	points := s.extractMetricPoints(logs, metric, period)
	points = aggregatePoints(points, period)

	s.cache.put(key, points)

	s.logger.Debug("chart data computed",
		zap.String("metric", string(metric)),
		zap.String("period", string(period)),
		zap.Int("points", len(points)),
	)

	return points, nil
}

// extractMetricPoints maps period-filtered logs through the per-metric value
// table. Logs for which the metric is undefined are skipped for that metric
// only.
func (s *ChartDataService) extractMetricPoints(logs []model.DailyLog, metric model.MetricType, period model.TimePeriod) []model.ChartDataPoint {
	points := []model.ChartDataPoint{}
	for _, log := range s.filterToPeriod(logs, period) {
		value, ok := metricValue(log, metric)
		if !ok {
			continue
		}
		points = append(points, model.ChartDataPoint{
			Date:       log.Date,
			Value:      value,
			MetricType: metric,
			MetricName: metric.DisplayName(),
			Category:   metric.Category(),
		})
	}
	return points
}

// metricValue computes the numeric value of a metric for one log. The second
// return value is false when the metric is undefined for that log.
func metricValue(log model.DailyLog, metric model.MetricType) (float64, bool) {
	switch metric {
	case model.MetricMood:
		if log.Mood == nil {
			return 0, false
		}
		return float64(*log.Mood), true
	case model.MetricPainLevel:
		if log.PainLevel == nil {
			return 0, false
		}
		return float64(*log.PainLevel), true
	case model.MetricEnergyLevel:
		if log.EnergyLevel == nil {
			return 0, false
		}
		return float64(*log.EnergyLevel), true
	case model.MetricFlareDay:
		if log.IsFlareDay {
			return 1, true
		}
		return 0, true
	case model.MetricMedicationAdherence:
		return adherenceRate(log)
	case model.MetricActivityCount:
		return float64(len(log.Activities)), true
	case model.MetricMealCount:
		return float64(len(log.Meals)), true
	case model.MetricWeather:
		if log.Weather == nil {
			return 0, false
		}
		if score, ok := weatherScores[strings.ToLower(strings.TrimSpace(*log.Weather))]; ok {
			return score, true
		}
		return unknownWeatherScore, true
	default:
		// medication/activity/meal markers have no generic series
		return 0, false
	}
}

// adherenceRate computes the percentage of scheduled (not as-needed)
// medications taken on a day. The rate is undefined, not zero, when no
// scheduled medications were logged.
func adherenceRate(log model.DailyLog) (float64, bool) {
	scheduled := 0
	taken := 0
	for _, a := range log.MedicationAdherence {
		if a.IsAsNeeded {
			continue
		}
		scheduled++
		if a.WasTaken {
			taken++
		}
	}
	if scheduled == 0 {
		return 0, false
	}
	return float64(taken) / float64(scheduled) * 100, true
}

// filterToPeriod keeps the logs whose date falls inside the period window.
// Input logs are already sorted ascending; order is preserved.
func (s *ChartDataService) filterToPeriod(logs []model.DailyLog, period model.TimePeriod) []model.DailyLog {
	if period == model.PeriodAllTime {
		return logs
	}
	start, end := period.DateRange(s.now())
	filtered := []model.DailyLog{}
	for _, log := range logs {
		if log.Date.Before(start) || log.Date.After(end) {
			continue
		}
		filtered = append(filtered, log)
	}
	return filtered
}

// aggregatePoints buckets a generic metric series by the period's
// granularity. Week and month periods stay daily. Bucket keys multiply the
// year by 100 so buckets never collide across year boundaries (ISO weeks and
// months never exceed 53).
func aggregatePoints(points []model.ChartDataPoint, period model.TimePeriod) []model.ChartDataPoint {
	level := period.AggregationLevel()
	if level == model.AggregationDaily || period == model.PeriodWeek || period == model.PeriodMonth {
		return points
	}

	type bucket struct {
		earliest time.Time
		sum      float64
		count    int
		template model.ChartDataPoint
	}

	buckets := make(map[int]*bucket)
	for _, p := range points {
		var key int
		if level == model.AggregationWeekly {
			isoYear, isoWeek := p.Date.ISOWeek()
			key = isoYear*100 + isoWeek
		} else {
			key = p.Date.Year()*100 + int(p.Date.Month())
		}
		b, ok := buckets[key]
		if !ok {
			buckets[key] = &bucket{earliest: p.Date, sum: p.Value, count: 1, template: p}
			continue
		}
		if p.Date.Before(b.earliest) {
			b.earliest = p.Date
		}
		b.sum += p.Value
		b.count++
	}

	aggregated := make([]model.ChartDataPoint, 0, len(buckets))
	for _, b := range buckets {
		point := b.template
		point.Date = b.earliest
		point.Value = b.sum / float64(b.count)
		aggregated = append(aggregated, point)
	}
	sort.Slice(aggregated, func(i, j int) bool {
		return aggregated[i].Date.Before(aggregated[j].Date)
	})
	return aggregated
}

// GetSymptomChartData returns the rating series for one symptom. Points are
// emitted only for logs that carry a rating with a matching name; symptom
// series are never aggregated.
func (s *ChartDataService) GetSymptomChartData(ctx context.Context, symptomName string, period model.TimePeriod) ([]model.SymptomDataPoint, error) {
	key := cacheKey{kind: cacheKindSymptom, name: symptomName, period: period}
	if cached, ok := s.cache.get(key); ok {
		return cached.([]model.SymptomDataPoint), nil
	}

	logs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	points := []model.SymptomDataPoint{}
	for _, log := range s.filterToPeriod(logs, period) {
		for _, rating := range log.SymptomRatings {
			if rating.SymptomName != symptomName {
				continue
			}
			points = append(points, model.SymptomDataPoint{
				Date:        log.Date,
				Value:       float64(rating.Rating),
				SymptomName: symptomName,
			})
			break
		}
	}

	s.cache.put(key, points)
	return points, nil
}

// GetMedicationChartData returns the presence series for one medication:
// every log in the period yields a point, 1.0 when the medication was logged
// and 0.0 otherwise.
func (s *ChartDataService) GetMedicationChartData(ctx context.Context, name string, period model.TimePeriod) ([]model.ItemDataPoint, error) {
	return s.itemChartData(ctx, cacheKindMedication, model.ItemKindMedication, name, period, func(log model.DailyLog) []string {
		return log.MedicationsTaken
	})
}

// GetActivityChartData returns the presence series for one activity
func (s *ChartDataService) GetActivityChartData(ctx context.Context, name string, period model.TimePeriod) ([]model.ItemDataPoint, error) {
	return s.itemChartData(ctx, cacheKindActivity, model.ItemKindActivity, name, period, func(log model.DailyLog) []string {
		return log.Activities
	})
}

// GetMealChartData returns the presence series for one meal
func (s *ChartDataService) GetMealChartData(ctx context.Context, name string, period model.TimePeriod) ([]model.ItemDataPoint, error) {
	return s.itemChartData(ctx, cacheKindMeal, model.ItemKindMeal, name, period, func(log model.DailyLog) []string {
		return log.Meals
	})
}

func (s *ChartDataService) itemChartData(ctx context.Context, kind cacheKind, itemKind model.ItemKind, name string, period model.TimePeriod, items func(model.DailyLog) []string) ([]model.ItemDataPoint, error) {
	key := cacheKey{kind: kind, name: name, period: period}
	if cached, ok := s.cache.get(key); ok {
		return cached.([]model.ItemDataPoint), nil
	}

	logs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(name)
	points := []model.ItemDataPoint{}
	for _, log := range s.filterToPeriod(logs, period) {
		value := 0.0
		for _, item := range items(log) {
			if strings.TrimSpace(item) == trimmed {
				value = 1.0
				break
			}
		}
		points = append(points, model.ItemDataPoint{
			Date:     log.Date,
			Value:    value,
			ItemName: trimmed,
			ItemKind: itemKind,
		})
	}

	s.cache.put(key, points)
	return points, nil
}

// GetAvailableMetrics returns the generic metrics that currently have at
// least one defined value in the logs.
func (s *ChartDataService) GetAvailableMetrics(ctx context.Context) ([]model.MetricType, error) {
	logs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return availableMetrics(logs), nil
}

func availableMetrics(logs []model.DailyLog) []model.MetricType {
	available := []model.MetricType{}
	for _, metric := range availableMetricCandidates {
		for _, log := range logs {
			if _, ok := metricValue(log, metric); ok {
				available = append(available, metric)
				break
			}
		}
	}
	return available
}

// GetAvailableSymptoms returns the tracked symptoms that have at least one
// rating anywhere in the logs.
func (s *ChartDataService) GetAvailableSymptoms(ctx context.Context) ([]string, error) {
	tracked, err := s.symptoms.GetTrackedSymptoms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked symptoms: %w", err)
	}
	logs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rated := make(map[string]bool)
	for _, log := range logs {
		for _, rating := range log.SymptomRatings {
			rated[rating.SymptomName] = true
		}
	}

	names := []string{}
	for _, symptom := range tracked {
		if rated[symptom.Name] {
			names = append(names, symptom.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// GetAvailableMedications returns every medication name that appears at
// least once across all logs, trimmed, de-duplicated and sorted.
func (s *ChartDataService) GetAvailableMedications(ctx context.Context) ([]string, error) {
	return s.availableItems(ctx, func(log model.DailyLog) []string { return log.MedicationsTaken })
}

// GetAvailableActivities returns every logged activity name
func (s *ChartDataService) GetAvailableActivities(ctx context.Context) ([]string, error) {
	return s.availableItems(ctx, func(log model.DailyLog) []string { return log.Activities })
}

// GetAvailableMeals returns every logged meal name
func (s *ChartDataService) GetAvailableMeals(ctx context.Context) ([]string, error) {
	return s.availableItems(ctx, func(log model.DailyLog) []string { return log.Meals })
}

func (s *ChartDataService) availableItems(ctx context.Context, items func(model.DailyLog) []string) ([]string, error) {
	logs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, log := range logs {
		for _, item := range items(log) {
			name := strings.TrimSpace(item)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// GetDataPointCount reports how many logs in the period have a defined value
// for the metric, without materializing the point array.
func (s *ChartDataService) GetDataPointCount(ctx context.Context, metric model.MetricType, period model.TimePeriod) (int, error) {
	logs, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, log := range s.filterToPeriod(logs, period) {
		if _, ok := metricValue(log, metric); ok {
			count++
		}
	}
	return count, nil
}

// GetSymptomDataPointCount reports how many logs in the period carry a
// rating for the symptom.
func (s *ChartDataService) GetSymptomDataPointCount(ctx context.Context, symptomName string, period model.TimePeriod) (int, error) {
	logs, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, log := range s.filterToPeriod(logs, period) {
		for _, rating := range log.SymptomRatings {
			if rating.SymptomName == symptomName {
				count++
				break
			}
		}
	}
	return count, nil
}

// GetItemDataPointCount reports how many logs fall inside the period. Item
// presence series emit one point per log regardless of presence.
func (s *ChartDataService) GetItemDataPointCount(ctx context.Context, period model.TimePeriod) (int, error) {
	logs, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(s.filterToPeriod(logs, period)), nil
}

// ClearCache drops all cached series. Callers that need fresh series after a
// log write must call this; log mutation never invalidates the cache itself.
func (s *ChartDataService) ClearCache() {
	s.cache.clear()
	s.logger.Debug("series cache cleared")
}
