package model

// MetricType is the closed enumeration of chartable metrics. The last three
// (medication, activity, meal) are markers for per-name presence series and
// yield no data through the generic metric path.
type MetricType string

const (
	MetricMood                MetricType = "mood"
	MetricPainLevel           MetricType = "pain_level"
	MetricEnergyLevel         MetricType = "energy_level"
	MetricFlareDay            MetricType = "flare_day"
	MetricMedicationAdherence MetricType = "medication_adherence"
	MetricActivityCount       MetricType = "activity_count"
	MetricMealCount           MetricType = "meal_count"
	MetricWeather             MetricType = "weather"
	MetricMedication          MetricType = "medication"
	MetricActivity            MetricType = "activity"
	MetricMeal                MetricType = "meal"
)

// MetricCategory groups metrics for display purposes only
type MetricCategory string

const (
	CategoryCoreHealth    MetricCategory = "core_health"
	CategorySymptoms      MetricCategory = "symptoms"
	CategoryMedications   MetricCategory = "medications"
	CategoryLifestyle     MetricCategory = "lifestyle"
	CategoryEnvironmental MetricCategory = "environmental"
	CategoryActivities    MetricCategory = "activities"
	CategoryMeals         MetricCategory = "meals"
)

// Category returns the display category for a metric
func (m MetricType) Category() MetricCategory {
	switch m {
	case MetricMood, MetricPainLevel, MetricEnergyLevel, MetricFlareDay:
		return CategoryCoreHealth
	case MetricMedicationAdherence, MetricMedication:
		return CategoryMedications
	case MetricActivityCount, MetricActivity:
		return CategoryActivities
	case MetricMealCount, MetricMeal:
		return CategoryMeals
	case MetricWeather:
		return CategoryEnvironmental
	default:
		return CategoryLifestyle
	}
}

// DisplayName returns a human-readable name for a metric
func (m MetricType) DisplayName() string {
	switch m {
	case MetricMood:
		return "Mood"
	case MetricPainLevel:
		return "Pain Level"
	case MetricEnergyLevel:
		return "Energy Level"
	case MetricFlareDay:
		return "Flare Days"
	case MetricMedicationAdherence:
		return "Medication Adherence"
	case MetricActivityCount:
		return "Activity Count"
	case MetricMealCount:
		return "Meal Count"
	case MetricWeather:
		return "Weather"
	default:
		return string(m)
	}
}

// ParseMetricType validates a metric identifier from the API surface
func ParseMetricType(s string) (MetricType, bool) {
	switch MetricType(s) {
	case MetricMood, MetricPainLevel, MetricEnergyLevel, MetricFlareDay,
		MetricMedicationAdherence, MetricActivityCount, MetricMealCount,
		MetricWeather, MetricMedication, MetricActivity, MetricMeal:
		return MetricType(s), true
	}
	return "", false
}
