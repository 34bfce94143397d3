package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/pacerhq/pacer/internal/model"
)

// june2025 is a 30-day month, so mid-month timestamps land exactly on the
// period midpoint.
func juneObjective(dist model.Distribution) *model.Objective {
	return &model.Objective{
		Name:         "monthly revenue",
		Metric:       model.MetricRevenue,
		Period:       model.Period{Type: model.PeriodMonthly, Year: 2025, Month: 6},
		TargetAmount: 10000,
		Distribution: dist,
	}
}

func june(day int) time.Time {
	return time.Date(2025, 6, day, 12, 0, 0, 0, time.UTC)
}

func TestExpectedProgress_Bounds(t *testing.T) {
	for _, dist := range []model.Distribution{
		model.DistLinear, model.DistFrontLoaded, model.DistBackLoaded,
	} {
		o := juneObjective(dist)

		before := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		if got := ExpectedProgress(o, before); got != 0 {
			t.Errorf("%s before period = %.2f, want 0", dist, got)
		}

		after := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
		if got := ExpectedProgress(o, after); got != 100 {
			t.Errorf("%s after period = %.2f, want 100", dist, got)
		}
	}
}

func TestExpectedProgress_LinearMidpoint(t *testing.T) {
	o := juneObjective(model.DistLinear)
	if got := ExpectedProgress(o, june(15)); math.Abs(got-50) > 1e-9 {
		t.Errorf("linear midpoint = %.4f, want 50", got)
	}
}

func TestExpectedProgress_ShapesAtMidpoint(t *testing.T) {
	// Mirrored power curves: front-loaded expects ~70% of target at the
	// midpoint, back-loaded ~30%, and front at day d plus back at day
	// total-d is exactly 100.
	front := ExpectedProgress(juneObjective(model.DistFrontLoaded), june(15))
	wantFront := (1 - math.Pow(0.5, loadedCurveExp)) * 100
	if math.Abs(front-wantFront) > 1e-9 {
		t.Errorf("front-loaded midpoint = %.4f, want %.4f", front, wantFront)
	}
	if front <= 60 {
		t.Errorf("front-loaded midpoint = %.2f, want front-weighted (> 60)", front)
	}

	back := ExpectedProgress(juneObjective(model.DistBackLoaded), june(15))
	wantBack := math.Pow(0.5, loadedCurveExp) * 100
	if math.Abs(back-wantBack) > 1e-9 {
		t.Errorf("back-loaded midpoint = %.4f, want %.4f", back, wantBack)
	}
	if back >= 40 || back <= 25 {
		t.Errorf("back-loaded midpoint = %.2f, want ~30", back)
	}

	for day := 1; day < 30; day++ {
		f := ExpectedProgress(juneObjective(model.DistFrontLoaded), june(day))
		b := ExpectedProgress(juneObjective(model.DistBackLoaded), june(30-day))
		if math.Abs(f+b-100) > 1e-9 {
			t.Errorf("day %d: front %.4f + mirrored back %.4f = %.4f, want 100", day, f, b, f+b)
		}
	}
}

func TestExpectedProgress_Monotonic(t *testing.T) {
	for _, dist := range []model.Distribution{
		model.DistLinear, model.DistFrontLoaded, model.DistBackLoaded,
	} {
		o := juneObjective(dist)
		prev := -1.0
		for day := 1; day <= 30; day++ {
			got := ExpectedProgress(o, june(day))
			if got < prev {
				t.Fatalf("%s: progress decreased from %.4f to %.4f on day %d", dist, prev, got, day)
			}
			prev = got
		}
	}
}

func TestExpectedProgress_StartingAmount(t *testing.T) {
	o := juneObjective(model.DistLinear)
	o.StartingAmount = 2000 // 20% head start

	// Midpoint: 20 + 0.5*80 = 60.
	if got := ExpectedProgress(o, june(15)); math.Abs(got-60) > 1e-9 {
		t.Errorf("midpoint with starting amount = %.4f, want 60", got)
	}
}

func TestExpectedProgress_CustomMilestones(t *testing.T) {
	o := juneObjective(model.DistCustom)
	o.Milestones = []model.Milestone{
		{Day: 20, Amount: 8000}, // deliberately out of order
		{Day: 10, Amount: 2000},
	}

	// Day 15 brackets between day 10 (2000) and day 20 (8000):
	// 2000 + 6000*(5/10) = 5000 -> 50%.
	if got := ExpectedProgress(o, june(15)); math.Abs(got-50) > 1e-9 {
		t.Errorf("milestone interpolation = %.4f, want 50", got)
	}

	// Day 25 brackets between day 20 (8000) and day 30 (10000):
	// 8000 + 2000*(5/10) = 9000 -> 90%.
	if got := ExpectedProgress(o, june(25)); math.Abs(got-90) > 1e-9 {
		t.Errorf("final bracket = %.4f, want 90", got)
	}

	// Exactly on a milestone day.
	if got := ExpectedProgress(o, june(10)); math.Abs(got-20) > 1e-9 {
		t.Errorf("on milestone = %.4f, want 20", got)
	}
}

func TestExpectedProgress_MilestoneZeroLengthInterval(t *testing.T) {
	o := juneObjective(model.DistCustom)
	o.Milestones = []model.Milestone{
		{Day: 15, Amount: 4000},
		{Day: 15, Amount: 6000},
	}

	// The duplicate-day bracket has zero length; the earlier amount wins.
	if got := ExpectedProgress(o, june(15)); math.Abs(got-40) > 1e-9 {
		t.Errorf("zero-length interval = %.4f, want 40", got)
	}
}
