package pipeline

import (
	"time"

	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/period"
)

// BuildHistoricalSeries computes the objective's actual trajectory up to now.
// Monthly objectives bucket per elapsed day; yearly and quarterly objectives
// bucket per elapsed month. Returns nil when the period hasn't started.
//
// Ledger records are month-keyed, so for daily buckets financial actuals are
// spread evenly over the elapsed days. Client counts carry real timestamps
// and are bucketed exactly. Non-additive metrics (rates, averages) are
// sampled cumulatively at each bucket end and differenced.
func BuildHistoricalSeries(o *model.Objective, snap Snapshot, now time.Time) []model.HistoricalPoint {
	if period.CurrentDay(o.Period, now) <= 0 {
		return nil
	}
	if o.Period.Type == model.PeriodMonthly {
		return dailySeries(o, snap, now)
	}
	return monthlySeries(o, snap, now)
}

func dailySeries(o *model.Objective, snap Snapshot, now time.Time) []model.HistoricalPoint {
	start, _ := period.Range(o.Period)
	total := period.TotalDays(o.Period)
	current := period.CurrentDay(o.Period, now)

	points := make([]model.HistoricalPoint, 0, current)

	switch {
	case o.Metric == model.MetricNewClients:
		cum := 0.0
		for day := 1; day <= current; day++ {
			date := start.AddDate(0, 0, day-1)
			actual := float64(countCreatedOn(snap.Clients, o.Filters, date))
			cum += actual
			points = append(points, point(o, date, day, total, actual, cum))
		}

	case additiveMetric(o.Metric):
		// current >= 1: BuildHistoricalSeries bails out before the period
		// starts.
		monthTotal := ComputeMetric(o.Metric, o.Period, o.Filters, snap, now)
		perDay := monthTotal / float64(current)
		cum := 0.0
		for day := 1; day <= current; day++ {
			date := start.AddDate(0, 0, day-1)
			cum += perDay
			points = append(points, point(o, date, day, total, perDay, cum))
		}

	default:
		prev := 0.0
		for day := 1; day <= current; day++ {
			date := start.AddDate(0, 0, day-1)
			asOf := endOfDay(date)
			cum := ComputeMetric(o.Metric, o.Period, o.Filters, snap, asOf)
			points = append(points, point(o, date, day, total, cum-prev, cum))
			prev = cum
		}
	}

	return points
}

func monthlySeries(o *model.Objective, snap Snapshot, now time.Time) []model.HistoricalPoint {
	start, _ := period.Range(o.Period)
	total := period.TotalDays(o.Period)

	months := elapsedMonths(o.Period, now)
	points := make([]model.HistoricalPoint, 0, months)

	cum := 0.0
	prev := 0.0
	for i := 0; i < months; i++ {
		monthStart := start.AddDate(0, i, 0)
		sub := model.Period{
			Type:  model.PeriodMonthly,
			Year:  monthStart.Year(),
			Month: int(monthStart.Month()),
		}
		_, monthEnd := period.Range(sub)

		// Day offset of the bucket end within the parent period, for the
		// target curve.
		day := period.CurrentDay(o.Period, monthEnd)

		var actual float64
		if additiveMetric(o.Metric) {
			actual = ComputeMetric(o.Metric, sub, o.Filters, snap, now)
			cum += actual
		} else {
			sampled := ComputeMetric(o.Metric, o.Period, o.Filters, snap, monthEnd)
			actual = sampled - prev
			prev = sampled
			cum = sampled
		}

		points = append(points, point(o, monthStart, day, total, actual, cum))
	}

	return points
}

// point fills one bucket, deriving the target from the expected-progress
// curve at the bucket's day offset.
func point(o *model.Objective, date time.Time, day, total int, actual, cum float64) model.HistoricalPoint {
	target := expectedAmountAtDay(o, day, total)
	return model.HistoricalPoint{
		Date:       date,
		Actual:     actual,
		Target:     target,
		Cumulative: cum,
	}
}

// expectedAmountAtDay evaluates the distribution curve at a synthetic instant
// on the given day and scales it to the target amount.
func expectedAmountAtDay(o *model.Objective, day, total int) float64 {
	if day >= total {
		return o.TargetAmount
	}
	start, _ := period.Range(o.Period)
	at := start.AddDate(0, 0, day-1)
	return ExpectedProgress(o, at) / 100 * o.TargetAmount
}

// additiveMetric reports whether per-bucket values sum to the period value.
func additiveMetric(m model.Metric) bool {
	switch m {
	case model.MetricRevenue, model.MetricExpenses, model.MetricGrossProfit,
		model.MetricNetProfit, model.MetricNewClients:
		return true
	}
	return false
}

func countCreatedOn(snap *model.ClientSnapshot, f model.Filters, date time.Time) int {
	n := 0
	next := date.AddDate(0, 0, 1)
	for _, c := range filterClients(snap, f) {
		if !c.CreatedAt.Before(date) && c.CreatedAt.Before(next) {
			n++
		}
	}
	return n
}

// elapsedMonths counts complete or partial months of the period elapsed at
// now, clamped to the period length.
func elapsedMonths(p model.Period, now time.Time) int {
	start, end := period.Range(p)
	if now.After(end) {
		now = end
	}
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month()) + 1
	max := 12
	if p.Type == model.PeriodQuarterly {
		max = 3
	}
	if months > max {
		months = max
	}
	return months
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
