package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/pacerhq/pacer/internal/model"
)

// threePointSeries is the canonical 100/200/300 daily series ending June 25
// with 600 accumulated.
func threePointSeries() []model.HistoricalPoint {
	return []model.HistoricalPoint{
		{Date: time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), Actual: 100, Cumulative: 100},
		{Date: time.Date(2025, 6, 24, 0, 0, 0, 0, time.UTC), Actual: 200, Cumulative: 300},
		{Date: time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC), Actual: 300, Cumulative: 600},
	}
}

func TestBuildForecast_Monthly(t *testing.T) {
	o := juneObjective(model.DistLinear)
	now := june(25) // 5 days of June left

	points := BuildForecast(threePointSeries(), o, now)
	if len(points) != 5 {
		t.Fatalf("forecast length = %d, want 5", len(points))
	}

	// avgRate 200/day from 600 accumulated.
	for i, p := range points {
		steps := float64(i + 1)
		if want := 600 + 200*steps; math.Abs(p.Projected-want) > 1e-9 {
			t.Errorf("point %d Projected = %.2f, want %.2f", i, p.Projected, want)
		}
		if want := 600 + 200*1.2*steps; math.Abs(p.Optimistic-want) > 1e-9 {
			t.Errorf("point %d Optimistic = %.2f, want %.2f", i, p.Optimistic, want)
		}
		if want := 600 + 200*0.8*steps; math.Abs(p.Pessimistic-want) > 1e-9 {
			t.Errorf("point %d Pessimistic = %.2f, want %.2f", i, p.Pessimistic, want)
		}
		if want := 95 - 2*steps; math.Abs(p.Confidence-want) > 1e-9 {
			t.Errorf("point %d Confidence = %.2f, want %.2f", i, p.Confidence, want)
		}
	}

	// Confidence strictly decreases until it hits the floor.
	for i := 1; i < len(points); i++ {
		if points[i].Confidence >= points[i-1].Confidence {
			t.Errorf("confidence not decreasing at %d: %.1f -> %.1f",
				i, points[i-1].Confidence, points[i].Confidence)
		}
	}

	if last := points[len(points)-1]; !last.Date.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last forecast date = %v, want June 30", last.Date)
	}
}

func TestBuildForecast_ConfidenceFloor(t *testing.T) {
	o := &model.Objective{
		Metric:       model.MetricRevenue,
		Period:       model.Period{Type: model.PeriodYearly, Year: 2025},
		TargetAmount: 120000,
		Distribution: model.DistLinear,
	}
	series := []model.HistoricalPoint{
		{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Actual: 10000, Cumulative: 10000},
		{Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Actual: 10000, Cumulative: 20000},
	}
	now := time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)

	points := BuildForecast(series, o, now)
	if len(points) != 10 {
		t.Fatalf("forecast length = %d, want 10 remaining months", len(points))
	}

	// 90 - 5s bottoms out at 50 from step 8 on.
	for i, p := range points {
		want := 90 - 5*float64(i+1)
		if want < 50 {
			want = 50
		}
		if math.Abs(p.Confidence-want) > 1e-9 {
			t.Errorf("point %d Confidence = %.2f, want %.2f", i, p.Confidence, want)
		}
		if p.Confidence < 50 {
			t.Errorf("point %d Confidence below floor: %.2f", i, p.Confidence)
		}
	}

	// Yearly bands use the tighter multipliers.
	if want := 20000 + 10000*1.15; math.Abs(points[0].Optimistic-want) > 1e-9 {
		t.Errorf("yearly Optimistic = %.2f, want %.2f", points[0].Optimistic, want)
	}
	if want := 20000 + 10000*0.85; math.Abs(points[0].Pessimistic-want) > 1e-9 {
		t.Errorf("yearly Pessimistic = %.2f, want %.2f", points[0].Pessimistic, want)
	}
}

func TestBuildForecast_Empty(t *testing.T) {
	o := juneObjective(model.DistLinear)

	if got := BuildForecast(nil, o, june(15)); got != nil {
		t.Errorf("empty series forecast = %v, want nil", got)
	}

	// Closed period: nothing left to project.
	closed := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	if got := BuildForecast(threePointSeries(), o, closed); got != nil {
		t.Errorf("closed period forecast = %v, want nil", got)
	}
}

func TestBuildForecast_QuarterlyUnsupported(t *testing.T) {
	o := &model.Objective{
		Metric:       model.MetricRevenue,
		Period:       model.Period{Type: model.PeriodQuarterly, Year: 2025, Quarter: 2},
		TargetAmount: 30000,
	}
	series := []model.HistoricalPoint{
		{Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Actual: 5000, Cumulative: 5000},
	}

	if got := BuildForecast(series, o, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)); got != nil {
		t.Errorf("quarterly forecast = %v, want nil", got)
	}
}
