package service

import (
	"math"
	"sort"

	"healthtrack/pkg/model"
)

// CalculateStatistics computes descriptive statistics for a series. Empty
// input yields the all-zero neutral statistics with a stable trend. Points
// are treated as date-sorted for the trend and change computations, which is
// how every extraction path returns them.
func (s *ChartDataService) CalculateStatistics(points []model.ChartDataPoint) model.ChartStatistics {
	if len(points) == 0 {
		return model.ChartStatistics{Trend: model.TrendStable}
	}

	values := make([]float64, len(points))
	minVal := points[0].Value
	maxVal := points[0].Value
	sum := 0.0
	for i, p := range points {
		values[i] = p.Value
		sum += p.Value
		if p.Value < minVal {
			minVal = p.Value
		}
		if p.Value > maxVal {
			maxVal = p.Value
		}
	}

	stats := model.ChartStatistics{
		Mean:             sum / float64(len(values)),
		Median:           median(values),
		Min:              minVal,
		Max:              maxVal,
		Count:            len(values),
		Trend:            halfTrend(values),
		ChangePercentage: changePercentage(values),
	}
	return stats
}

// median returns the standard even/odd-count median of the values
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// halfTrend compares the mean of the first half of the values against the
// mean of the second half. The trend is stable unless the difference exceeds
// 5% of the first-half mean.
func halfTrend(values []float64) model.TrendDirection {
	if len(values) < 2 {
		return model.TrendStable
	}
	mid := len(values) / 2
	firstMean := mean(values[:mid])
	secondMean := mean(values[mid:])
	diff := secondMean - firstMean
	if math.Abs(diff) <= math.Abs(firstMean)*0.05 {
		return model.TrendStable
	}
	if diff > 0 {
		return model.TrendIncreasing
	}
	return model.TrendDecreasing
}

// changePercentage is the relative change from the first to the last value,
// defined as 0 for fewer than two points or a zero first value.
func changePercentage(values []float64) float64 {
	if len(values) < 2 || values[0] == 0 {
		return 0
	}
	return (values[len(values)-1] - values[0]) / values[0] * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// linearRegression fits value against ordinal index (x = 0..n-1) by ordinary
// least squares and returns the slope and coefficient of determination.
func linearRegression(values []float64) (slope, r2 float64) {
	n := float64(len(values))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom

	ssTotal := sumYY - sumY*sumY/n
	if ssTotal == 0 {
		return slope, 0
	}
	intercept := (sumY - slope*sumX) / n
	var ssResidual float64
	for i, y := range values {
		predicted := intercept + slope*float64(i)
		ssResidual += (y - predicted) * (y - predicted)
	}
	r2 = 1 - ssResidual/ssTotal
	return slope, r2
}

// pearson computes Pearson's correlation coefficient over aligned pairs,
// defined as 0 when the denominator vanishes.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 || len(xs) != len(ys) {
		return 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
	}

	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// goodDayThreshold is the per-metric "healthy day" cutoff used by streak and
// achievement detection.
func goodDayThreshold(metric model.MetricType) float64 {
	switch metric {
	case model.MetricMood, model.MetricEnergyLevel:
		return 6.0
	case model.MetricPainLevel:
		return 4.0
	case model.MetricMedicationAdherence:
		return 80.0
	default:
		return 5.0
	}
}

// isGoodDay reports whether a value clears the healthy threshold. Pain is
// inverted: low pain is good.
func isGoodDay(metric model.MetricType, value float64) bool {
	threshold := goodDayThreshold(metric)
	if metric == model.MetricPainLevel {
		return value <= threshold
	}
	return value >= threshold
}

// trailingGoodStreak counts consecutive good days ending at the most recent
// value of a date-sorted series.
func trailingGoodStreak(metric model.MetricType, values []float64) int {
	streak := 0
	for i := len(values) - 1; i >= 0; i-- {
		if !isGoodDay(metric, values[i]) {
			break
		}
		streak++
	}
	return streak
}

// longestGoodStreak finds the best run of good days anywhere in the series
func longestGoodStreak(metric model.MetricType, values []float64) int {
	longest := 0
	current := 0
	for _, v := range values {
		if isGoodDay(metric, v) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
