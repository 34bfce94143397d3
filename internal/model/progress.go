package model

import "time"

// GoalStatus classifies actual vs expected progress.
type GoalStatus string

const (
	GoalAchieved   GoalStatus = "achieved"
	GoalNotStarted GoalStatus = "not_started"
	GoalOnTrack    GoalStatus = "on_track"
	GoalAtRisk     GoalStatus = "at_risk"
	GoalBehind     GoalStatus = "behind"
)

// Progress is an objective plus everything computed about it for one
// evaluation instant. It is derived, never persisted.
type Progress struct {
	Objective *Objective

	ActualAmount     float64
	ProgressPercent  float64
	ExpectedProgress float64
	Status           GoalStatus
	DaysRemaining    int

	// NoData is set when the required snapshot was absent for the period, in
	// which case the numeric fields are zeroed rather than meaningful.
	NoData bool
}

// HistoricalPoint is one bucket of an objective's actual trajectory.
// Monthly objectives bucket per day, yearly and quarterly per month.
type HistoricalPoint struct {
	Date       time.Time
	Actual     float64
	Target     float64
	Cumulative float64
}

// ForecastPoint is one projected future bucket with confidence bands.
type ForecastPoint struct {
	Date        time.Time
	Projected   float64
	Optimistic  float64
	Pessimistic float64
	Confidence  float64
}

// InsightSeverity grades how urgently an insight needs attention.
type InsightSeverity string

const (
	SeverityPositive InsightSeverity = "positive"
	SeverityInfo     InsightSeverity = "info"
	SeverityWarning  InsightSeverity = "warning"
	SeverityCritical InsightSeverity = "critical"
)

// Insight is one human-readable observation with an optional suggested action.
type Insight struct {
	Severity InsightSeverity
	Title    string
	Detail   string
	Action   string
}
