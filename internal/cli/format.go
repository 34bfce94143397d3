// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pacerhq/pacer/internal/model"
)

// FormatMoney formats a money amount with the configured currency symbol.
// Precision shrinks as magnitude grows: $1,234,567 / $123.4 / $12.34.
func FormatMoney(symbol string, amount float64) string {
	neg := ""
	if amount < 0 {
		neg = "-"
		amount = -amount
	}
	switch {
	case amount >= 1000:
		return neg + symbol + FormatNumber(int64(math.Round(amount)))
	case amount >= 100:
		return fmt.Sprintf("%s%s%.0f", neg, symbol, amount)
	case amount >= 10:
		return fmt.Sprintf("%s%s%.1f", neg, symbol, amount)
	default:
		return fmt.Sprintf("%s%s%.2f", neg, symbol, amount)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 percentage value.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatMetricValue formats a value according to the metric's unit: money,
// percent, or plain count.
func FormatMetricValue(m model.Metric, symbol string, v float64) string {
	switch {
	case m.IsCurrency():
		return FormatMoney(symbol, v)
	case m.IsPercent():
		return FormatPercent(v)
	case v == math.Trunc(v):
		return FormatNumber(int64(v))
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// FormatDelta formats a signed difference between two percentage values.
func FormatDelta(current, expected float64) string {
	delta := current - expected
	if delta >= 0 {
		return "+" + FormatPercent(delta)
	}
	return "-" + FormatPercent(-delta)
}

// FormatPeriod renders an objective period for display, e.g. "Jun 2025",
// "Q2 2025", "2025".
func FormatPeriod(p model.Period) string {
	switch p.Type {
	case model.PeriodMonthly:
		months := []string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
			"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
		if p.Month >= 1 && p.Month <= 12 {
			return fmt.Sprintf("%s %d", months[p.Month], p.Year)
		}
		return strconv.Itoa(p.Year)
	case model.PeriodQuarterly:
		return fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
	default:
		return strconv.Itoa(p.Year)
	}
}

// MetricLabel is the human-readable name of a metric.
func MetricLabel(m model.Metric) string {
	labels := map[model.Metric]string{
		model.MetricRevenue:        "Revenue",
		model.MetricExpenses:       "Expenses",
		model.MetricGrossProfit:    "Gross Profit",
		model.MetricNetProfit:      "Net Profit",
		model.MetricMarginPercent:  "Margin",
		model.MetricNewClients:     "New Clients",
		model.MetricConversionRate: "Conversion Rate",
		model.MetricCAC:            "CAC",
		model.MetricChurnRate:      "Churn Rate",
		model.MetricRetentionRate:  "Retention Rate",
		model.MetricActiveClients:  "Active Clients",
		model.MetricAvgTenure:      "Avg Tenure",
		model.MetricARPU:           "ARPU",
		model.MetricLTV:            "LTV",
		model.MetricLTVCACRatio:    "LTV:CAC",
		model.MetricAvgBasket:      "Avg Basket",
		model.MetricActiveRatio:    "Active Ratio",
		model.MetricUpsellRate:     "Upsell Rate",
	}
	if l, ok := labels[m]; ok {
		return l
	}
	return string(m)
}

// StatusLabel is the display text for a goal status.
func StatusLabel(s model.GoalStatus) string {
	switch s {
	case model.GoalAchieved:
		return "achieved"
	case model.GoalNotStarted:
		return "not started"
	case model.GoalOnTrack:
		return "on track"
	case model.GoalAtRisk:
		return "at risk"
	case model.GoalBehind:
		return "behind"
	}
	return string(s)
}
