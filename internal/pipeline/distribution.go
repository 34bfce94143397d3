// Package pipeline implements the objective progress and forecast engine:
// metric aggregation, expected-progress curves, status classification,
// historical series, forecasts, and insights. Every function is pure over
// caller-supplied snapshots.
package pipeline

import (
	"math"
	"time"

	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/period"
)

// Shape exponent for the front- and back-loaded curves. The two are exact
// mirrors of each other: back-loaded expects ~30% of target at the period
// midpoint, front-loaded ~70%.
const loadedCurveExp = 1.7

// ExpectedProgress returns the percentage of target, in [0, 100], that the
// objective's distribution curve expects to be reached at now.
func ExpectedProgress(o *model.Objective, now time.Time) float64 {
	total := period.TotalDays(o.Period)
	current := period.CurrentDay(o.Period, now)

	if current <= 0 {
		return 0
	}
	if current >= total {
		return 100
	}

	if o.Distribution == model.DistCustom && len(o.Milestones) > 0 {
		return milestoneProgress(o, current, total)
	}

	rawProgress := float64(current) / float64(total)

	startingPercent := 0.0
	if o.StartingAmount > 0 && o.TargetAmount > 0 {
		startingPercent = o.StartingAmount / o.TargetAmount * 100
	}
	remainingPercent := 100 - startingPercent

	var adjusted float64
	switch o.Distribution {
	case model.DistFrontLoaded:
		adjusted = 1 - math.Pow(1-rawProgress, loadedCurveExp)
	case model.DistBackLoaded:
		adjusted = math.Pow(rawProgress, loadedCurveExp)
	default:
		adjusted = rawProgress
	}

	return startingPercent + adjusted*remainingPercent
}

// milestoneProgress interpolates the expected cumulative amount between the
// bracketing milestones and converts it to a percentage of target. The
// milestone list is implicitly bounded by (day 0, starting amount) and
// (period length, target amount).
func milestoneProgress(o *model.Objective, current, total int) float64 {
	if o.TargetAmount <= 0 {
		return 0
	}

	points := make([]model.Milestone, 0, len(o.Milestones)+2)
	points = append(points, model.Milestone{Day: 0, Amount: o.StartingAmount})
	points = append(points, o.SortedMilestones()...)
	points = append(points, model.Milestone{Day: total, Amount: o.TargetAmount})

	for i := 0; i < len(points)-1; i++ {
		prev, next := points[i], points[i+1]
		if current < prev.Day || current > next.Day {
			continue
		}
		span := next.Day - prev.Day
		if span <= 0 {
			return prev.Amount / o.TargetAmount * 100
		}
		frac := float64(current-prev.Day) / float64(span)
		expected := prev.Amount + (next.Amount-prev.Amount)*frac
		return expected / o.TargetAmount * 100
	}

	// current beyond every milestone; should not happen since the list is
	// bounded by the period length, but fall back to the last point.
	return points[len(points)-1].Amount / o.TargetAmount * 100
}
