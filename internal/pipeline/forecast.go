package pipeline

import (
	"time"

	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/period"
)

// Band multipliers and confidence decay for the linear extrapolation.
// Yearly buckets cover more ground per step, so their bands are tighter and
// their confidence decays faster.
const (
	monthlyOptimistic  = 1.2
	monthlyPessimistic = 0.8
	yearlyOptimistic   = 1.15
	yearlyPessimistic  = 0.85

	monthlyBaseConfidence = 95.0
	monthlyDecayPerStep   = 2.0
	yearlyBaseConfidence  = 90.0
	yearlyDecayPerStep    = 5.0
	minConfidence         = 50.0
)

// BuildForecast linearly extrapolates the historical series over the rest of
// the objective's period with optimistic and pessimistic bands. Returns nil
// when the series is empty, the period is already closed, or the period is
// quarterly — quarterly projection is intentionally not defined.
func BuildForecast(series []model.HistoricalPoint, o *model.Objective, now time.Time) []model.ForecastPoint {
	if len(series) == 0 {
		return nil
	}
	if o.Period.Type == model.PeriodQuarterly {
		return nil
	}

	total := period.TotalDays(o.Period)
	current := period.CurrentDay(o.Period, now)
	if current >= total {
		return nil
	}

	var sum float64
	for _, p := range series {
		sum += p.Actual
	}
	avgRate := sum / float64(len(series))
	last := series[len(series)-1]

	if o.Period.Type == model.PeriodMonthly {
		steps := total - current
		return extrapolate(last, avgRate, steps, monthlyOptimistic, monthlyPessimistic,
			monthlyBaseConfidence, monthlyDecayPerStep, func(s int) time.Time {
				return last.Date.AddDate(0, 0, s)
			})
	}

	// Yearly: one step per remaining calendar month.
	steps := 12 - int(last.Date.Month())
	return extrapolate(last, avgRate, steps, yearlyOptimistic, yearlyPessimistic,
		yearlyBaseConfidence, yearlyDecayPerStep, func(s int) time.Time {
			return last.Date.AddDate(0, s, 0)
		})
}

func extrapolate(last model.HistoricalPoint, avgRate float64, steps int,
	optimistic, pessimistic, baseConfidence, decay float64,
	dateAt func(step int) time.Time,
) []model.ForecastPoint {
	if steps <= 0 {
		return nil
	}

	points := make([]model.ForecastPoint, 0, steps)
	for s := 1; s <= steps; s++ {
		ahead := float64(s)
		confidence := baseConfidence - decay*ahead
		if confidence < minConfidence {
			confidence = minConfidence
		}
		points = append(points, model.ForecastPoint{
			Date:        dateAt(s),
			Projected:   last.Cumulative + avgRate*ahead,
			Optimistic:  last.Cumulative + avgRate*optimistic*ahead,
			Pessimistic: last.Cumulative + avgRate*pessimistic*ahead,
			Confidence:  confidence,
		})
	}
	return points
}
