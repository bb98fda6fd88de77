package model

import "time"

// DailyLog represents a single day's health log entry. The calendar date is
// the natural key; at most one log exists per date.
type DailyLog struct {
	Date                time.Time             `json:"date"`
	Mood                *int                  `json:"mood,omitempty"`         // 1-10
	PainLevel           *int                  `json:"pain_level,omitempty"`   // 0-10
	EnergyLevel         *int                  `json:"energy_level,omitempty"` // 0-10
	Meals               []string              `json:"meals,omitempty"`
	Activities          []string              `json:"activities,omitempty"`
	MedicationsTaken    []string              `json:"medications_taken,omitempty"`
	MedicationAdherence []MedicationAdherence `json:"medication_adherence,omitempty"`
	Notes               *string               `json:"notes,omitempty"`
	IsFlareDay          bool                  `json:"is_flare_day"`
	Weather             *string               `json:"weather,omitempty"`
	SymptomRatings      []SymptomRating       `json:"symptom_ratings,omitempty"`
}

// SymptomRating represents a single symptom rating within a daily log
type SymptomRating struct {
	SymptomID   string `json:"symptom_id"`
	SymptomName string `json:"symptom_name"`
	Rating      int    `json:"rating"` // 0-10
	IsBinary    bool   `json:"is_binary"`
}

// MedicationAdherence records whether a scheduled medication was taken on a day.
// As-needed medications never count toward the adherence rate.
type MedicationAdherence struct {
	MedicationID   string `json:"medication_id"`
	MedicationName string `json:"medication_name"`
	WasTaken       bool   `json:"was_taken"`
	IsAsNeeded     bool   `json:"is_as_needed"`
}

// TrackedSymptom is a symptom definition the user is tracking
type TrackedSymptom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsBinary bool   `json:"is_binary"`
}

// ChartDataPoint is one point of a generic metric series. Two points with the
// same date, value, metric type and name are considered duplicates.
type ChartDataPoint struct {
	Date       time.Time      `json:"date"`
	Value      float64        `json:"value"`
	MetricType MetricType     `json:"metric_type"`
	MetricName string         `json:"metric_name"`
	Category   MetricCategory `json:"category"`
}

// SymptomDataPoint is one point of a per-symptom rating series
type SymptomDataPoint struct {
	Date        time.Time `json:"date"`
	Value       float64   `json:"value"`
	SymptomName string    `json:"symptom_name"`
}

// ItemKind discriminates the three per-name presence series
type ItemKind string

const (
	ItemKindMedication ItemKind = "medication"
	ItemKindActivity   ItemKind = "activity"
	ItemKindMeal       ItemKind = "meal"
)

// ItemDataPoint is one point of a presence series for a named medication,
// activity or meal. Value is strictly 1.0 (present) or 0.0 (absent).
type ItemDataPoint struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	ItemName string    `json:"item_name"`
	ItemKind ItemKind  `json:"item_kind"`
}

// TrendDirection classifies how a series is moving over time
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// ChartStatistics holds descriptive statistics for a series. Derived on
// demand, never stored.
type ChartStatistics struct {
	Mean             float64        `json:"mean"`
	Median           float64        `json:"median"`
	Min              float64        `json:"min"`
	Max              float64        `json:"max"`
	Count            int            `json:"count"`
	Trend            TrendDirection `json:"trend"`
	ChangePercentage float64        `json:"change_percentage"`
}

// DashboardWidget is one entry of the user-configurable dashboard layout
type DashboardWidget struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Position  int       `json:"position"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
