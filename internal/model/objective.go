// Package model defines domain types for pacer objectives and business data.
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Metric identifies which business number an objective tracks.
type Metric string

// Financial metrics come from the ledger snapshot, the rest from clients.
const (
	MetricRevenue       Metric = "revenue"
	MetricExpenses      Metric = "expenses"
	MetricGrossProfit   Metric = "gross_profit"
	MetricNetProfit     Metric = "net_profit"
	MetricMarginPercent Metric = "margin_percent"

	MetricNewClients     Metric = "new_clients"
	MetricConversionRate Metric = "conversion_rate"
	MetricCAC            Metric = "cac"

	MetricChurnRate     Metric = "churn_rate"
	MetricRetentionRate Metric = "retention_rate"
	MetricActiveClients Metric = "active_clients"
	MetricAvgTenure     Metric = "avg_tenure"

	MetricARPU        Metric = "arpu"
	MetricLTV         Metric = "ltv"
	MetricLTVCACRatio Metric = "ltv_cac_ratio"
	MetricAvgBasket   Metric = "avg_basket"

	MetricActiveRatio Metric = "active_ratio"
	MetricUpsellRate  Metric = "upsell_rate"
)

// AllMetrics lists every metric kind in display order.
var AllMetrics = []Metric{
	MetricRevenue, MetricExpenses, MetricGrossProfit, MetricNetProfit,
	MetricMarginPercent, MetricNewClients, MetricConversionRate, MetricCAC,
	MetricChurnRate, MetricRetentionRate, MetricActiveClients, MetricAvgTenure,
	MetricARPU, MetricLTV, MetricLTVCACRatio, MetricAvgBasket,
	MetricActiveRatio, MetricUpsellRate,
}

// IsPercent reports whether the metric value is a percentage rather than an
// amount or count.
func (m Metric) IsPercent() bool {
	switch m {
	case MetricMarginPercent, MetricConversionRate, MetricChurnRate,
		MetricRetentionRate, MetricActiveRatio, MetricUpsellRate:
		return true
	}
	return false
}

// IsCurrency reports whether the metric value is a money amount.
func (m Metric) IsCurrency() bool {
	switch m {
	case MetricRevenue, MetricExpenses, MetricGrossProfit, MetricNetProfit,
		MetricCAC, MetricARPU, MetricLTV, MetricAvgBasket:
		return true
	}
	return false
}

// PeriodType is the granularity of an objective's time window.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

// Period pins an objective to a concrete window: a year plus, depending on
// Type, a month (1-12) or quarter (1-4).
type Period struct {
	Type    PeriodType
	Year    int
	Month   int
	Quarter int
}

// Distribution is the expected-progress curve shape.
type Distribution string

const (
	DistLinear      Distribution = "linear"
	DistFrontLoaded Distribution = "front_loaded"
	DistBackLoaded  Distribution = "back_loaded"
	DistCustom      Distribution = "custom"
)

// Milestone is a checkpoint on a custom distribution curve: by Day (1-indexed
// offset into the period) the cumulative actual should have reached Amount.
type Milestone struct {
	Day    int
	Amount float64
}

// Filters narrows which records an objective counts. Empty fields match
// everything; set fields compose as a logical AND.
type Filters struct {
	Segment         string
	Product         string
	Category        string
	ExpenseCategory string
	ClientID        string
}

// Objective is a target value for a metric over a period, with a shape
// describing how progress should accrue over time.
type Objective struct {
	ID             uuid.UUID
	Name           string
	Metric         Metric
	Period         Period
	TargetAmount   float64
	StartingAmount float64
	Distribution   Distribution
	Milestones     []Milestone
	Filters        Filters
	CreatedAt      time.Time
}

// NewObjective creates an objective with a fresh ID and a linear curve.
func NewObjective(name string, metric Metric, period Period, target float64) *Objective {
	return &Objective{
		ID:           uuid.New(),
		Name:         name,
		Metric:       metric,
		Period:       period,
		TargetAmount: target,
		Distribution: DistLinear,
		CreatedAt:    time.Now().UTC(),
	}
}

// SortedMilestones returns the milestones ordered by day. The source data is
// user-entered, so ordering is normalized rather than trusted.
func (o *Objective) SortedMilestones() []Milestone {
	if len(o.Milestones) == 0 {
		return nil
	}
	ms := make([]Milestone, len(o.Milestones))
	copy(ms, o.Milestones)
	sort.Slice(ms, func(i, j int) bool { return ms[i].Day < ms[j].Day })
	return ms
}
