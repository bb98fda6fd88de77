package model

import "time"

// TimePeriod is a named analysis window with an associated date range and
// aggregation granularity.
type TimePeriod string

const (
	PeriodWeek       TimePeriod = "week"
	PeriodMonth      TimePeriod = "month"
	PeriodThreeMonth TimePeriod = "three_month"
	PeriodSixMonth   TimePeriod = "six_month"
	PeriodYear       TimePeriod = "year"
	PeriodAllTime    TimePeriod = "all"
)

// AggregationLevel is the bucketing granularity applied to a generic metric
// series for a period.
type AggregationLevel string

const (
	AggregationDaily   AggregationLevel = "daily"
	AggregationWeekly  AggregationLevel = "weekly"
	AggregationMonthly AggregationLevel = "monthly"
)

// Days returns the length of the period window in days. All-time has no
// bound and returns 0.
func (p TimePeriod) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodThreeMonth:
		return 90
	case PeriodSixMonth:
		return 180
	case PeriodYear:
		return 365
	default:
		return 0
	}
}

// DateRange returns the calendar window [start, end] covered by the period,
// anchored at now. For all-time the zero start time means unbounded.
func (p TimePeriod) DateRange(now time.Time) (time.Time, time.Time) {
	if p == PeriodAllTime {
		return time.Time{}, now
	}
	return now.AddDate(0, 0, -p.Days()), now
}

// PreviousRange returns the window immediately preceding DateRange, used for
// period-over-period comparison. All-time has no previous window.
func (p TimePeriod) PreviousRange(now time.Time) (time.Time, time.Time) {
	if p == PeriodAllTime {
		return time.Time{}, time.Time{}
	}
	end := now.AddDate(0, 0, -p.Days())
	return end.AddDate(0, 0, -p.Days()), end
}

// AggregationLevel returns the bucketing granularity for the period:
// week/month stay daily, three/six months bucket weekly, year and all-time
// bucket monthly.
func (p TimePeriod) AggregationLevel() AggregationLevel {
	switch p {
	case PeriodWeek, PeriodMonth:
		return AggregationDaily
	case PeriodThreeMonth, PeriodSixMonth:
		return AggregationWeekly
	default:
		return AggregationMonthly
	}
}

// ParseTimePeriod validates a period identifier from the API surface
func ParseTimePeriod(s string) (TimePeriod, bool) {
	switch TimePeriod(s) {
	case PeriodWeek, PeriodMonth, PeriodThreeMonth, PeriodSixMonth, PeriodYear, PeriodAllTime:
		return TimePeriod(s), true
	}
	return "", false
}
