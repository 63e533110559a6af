package analytics

import "github.com/yanqian/farmwise/internal/domain/history"

const (
	// DefaultUsageDays is the window of the water usage report.
	DefaultUsageDays = 30
	// DefaultFieldDays is the window of the per-field report.
	DefaultFieldDays = 90
	// DefaultEfficiencyDays is the window of the efficiency report.
	DefaultEfficiencyDays = 30
	// TrendMonths bounds the monthly trend, counted in days.
	TrendMonths = 180
	// MaxDays caps any requested window.
	MaxDays = 730
)

// FieldUsage is water used on one field.
type FieldUsage struct {
	FieldID         int64   `json:"fieldId"`
	FieldName       string  `json:"fieldName"`
	TotalUsage      float64 `json:"totalUsage"`
	IrrigationCount int     `json:"irrigationCount"`
}

// MethodUsage is water used per irrigation method.
type MethodUsage struct {
	Method     history.Method `json:"method"`
	TotalUsage float64        `json:"totalUsage"`
	Count      int            `json:"count"`
}

// MonthlyUsage is one month of the trend, Month formatted YYYY-MM.
type MonthlyUsage struct {
	Month           string  `json:"month"`
	TotalUsage      float64 `json:"totalUsage"`
	IrrigationCount int     `json:"irrigationCount"`
}

// EfficiencyMetrics summarises effectiveness ratings.
type EfficiencyMetrics struct {
	AverageRating *float64 `json:"avgEffectiveness"`
	RatedCount    int      `json:"ratedIrrigations"`
	TotalCount    int      `json:"totalIrrigations"`
}

// UsageTrend compares the last seven days with the seven before.
type UsageTrend struct {
	CurrentWeek      float64  `json:"currentWeekUsage"`
	PreviousWeek     float64  `json:"previousWeekUsage"`
	PercentageChange *float64 `json:"percentageChange"`
}

// UsageStats is the water usage report.
type UsageStats struct {
	PeriodDays         int               `json:"periodDays"`
	TotalWaterUsage    float64           `json:"totalWaterUsage"`
	AverageDailyUsage  float64           `json:"averageDailyUsage"`
	UsageByField       []FieldUsage      `json:"usageByField"`
	UsageByMethod      []MethodUsage     `json:"usageByMethod"`
	MonthlyTrends      []MonthlyUsage    `json:"monthlyTrends"`
	Efficiency         EfficiencyMetrics `json:"efficiencyMetrics"`
	AvgLitersPerMinute float64           `json:"avgLitersPerMinute"`
	Trend              UsageTrend        `json:"usageTrend"`
}

// MoisturePoint averages soil moisture readings on one date.
type MoisturePoint struct {
	Date      string   `json:"date"`
	AvgBefore *float64 `json:"avgBefore"`
	AvgAfter  *float64 `json:"avgAfter"`
}

// RatingPoint averages effectiveness ratings on one date.
type RatingPoint struct {
	Date      string  `json:"date"`
	AvgRating float64 `json:"avgRating"`
	Count     int     `json:"count"`
}

// WeeklyUsage is water used in the week starting on WeekStart (a Monday).
type WeeklyUsage struct {
	WeekStart       string  `json:"week"`
	TotalUsage      float64 `json:"totalUsage"`
	IrrigationCount int     `json:"irrigationCount"`
}

// FieldReport is the per-field analytics view.
type FieldReport struct {
	FieldID               int64           `json:"fieldId"`
	FieldName             string          `json:"fieldName"`
	PeriodDays            int             `json:"periodDays"`
	TotalWaterUsage       float64         `json:"totalWaterUsage"`
	IrrigationCount       int             `json:"irrigationCount"`
	AvgUsagePerIrrigation float64         `json:"avgUsagePerIrrigation"`
	MoistureTrends        []MoisturePoint `json:"moistureTrends"`
	EffectivenessTrends   []RatingPoint   `json:"effectivenessTrends"`
	WeeklyUsage           []WeeklyUsage   `json:"weeklyUsage"`
}

// MethodEfficiency aggregates history rows per irrigation method.
type MethodEfficiency struct {
	Method      history.Method `json:"method"`
	Count       int            `json:"count"`
	AvgRating   *float64       `json:"avgRating"`
	TotalUsage  float64        `json:"totalUsage"`
	AvgDuration float64        `json:"avgDuration"`
}

// WasteEntry is a poorly rated irrigation that used more water than average.
type WasteEntry struct {
	RecordID  string  `json:"id"`
	FieldID   int64   `json:"fieldId"`
	Date      string  `json:"irrigationDate"`
	WaterUsed float64 `json:"waterAmountUsed"`
	Rating    int     `json:"effectivenessRating"`
}

// Recommendation is an actionable efficiency hint.
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// EfficiencySummary is the headline of the efficiency report.
type EfficiencySummary struct {
	TotalEvents    int            `json:"totalIrrigationEvents"`
	AvgRating      *float64       `json:"avgEffectivenessRating"`
	MostUsedMethod history.Method `json:"mostUsedMethod,omitempty"`
}

// EfficiencyReport compares irrigation methods.
type EfficiencyReport struct {
	PeriodDays      int                `json:"periodDays"`
	Methods         []MethodEfficiency `json:"efficiencyAnalysis"`
	BestMethods     []MethodEfficiency `json:"bestMethods"`
	PotentialWaste  []WasteEntry       `json:"potentialWaste"`
	Recommendations []Recommendation   `json:"recommendations"`
	Summary         EfficiencySummary  `json:"summary"`
}
