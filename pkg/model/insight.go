package model

import (
	"fmt"
	"time"
)

// InsightType identifies which analysis pass produced an insight
type InsightType string

const (
	InsightTrend          InsightType = "trend"
	InsightAchievement    InsightType = "achievement"
	InsightPattern        InsightType = "pattern"
	InsightCorrelation    InsightType = "correlation"
	InsightWarning        InsightType = "warning"
	InsightRecommendation InsightType = "recommendation"
)

// InsightPriority orders insights for display. Higher values sort first.
type InsightPriority int

const (
	PriorityLow InsightPriority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p InsightPriority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON renders the priority as its display name
func (p InsightPriority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts the display names produced by MarshalJSON
func (p *InsightPriority) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"critical"`:
		*p = PriorityCritical
	case `"high"`:
		*p = PriorityHigh
	case `"medium"`:
		*p = PriorityMedium
	case `"low"`:
		*p = PriorityLow
	default:
		return fmt.Errorf("unknown insight priority: %s", data)
	}
	return nil
}

// HealthInsight is a single generated insight. Insights are created fresh on
// every generation pass, never mutated, and superseded wholesale by the next
// run.
type HealthInsight struct {
	ID                string          `json:"id"`
	Type              InsightType     `json:"type"`
	Priority          InsightPriority `json:"priority"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	ActionableText    *string         `json:"actionable_text,omitempty"`
	Confidence        float64         `json:"confidence"` // 0..1
	RelevancePeriod   TimePeriod      `json:"relevance_period"`
	AssociatedMetrics []string        `json:"associated_metrics"`
	GeneratedAt       time.Time       `json:"generated_at"`
	IsActionable      bool            `json:"is_actionable"`
}
