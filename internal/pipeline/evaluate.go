package pipeline

import (
	"time"

	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/period"
)

// Evaluate computes everything pacer knows about one objective at now:
// actual amount, progress vs the distribution curve, status, and days left.
// It never fails; absent snapshots produce a zeroed result flagged NoData so
// callers can render an empty state.
func Evaluate(o *model.Objective, snap Snapshot, now time.Time) model.Progress {
	prog := model.Progress{
		Objective:     o,
		DaysRemaining: period.DaysRemaining(o.Period, now),
	}

	if RequiresLedger(o.Metric) && snap.Ledger.Empty() ||
		RequiresClients(o.Metric) && snap.Clients.Empty() {
		prog.NoData = true
		prog.Status = model.GoalNotStarted
		return prog
	}

	prog.ActualAmount = ComputeMetric(o.Metric, o.Period, o.Filters, snap, now)
	if o.TargetAmount > 0 {
		prog.ProgressPercent = prog.ActualAmount / o.TargetAmount * 100
	}
	prog.ExpectedProgress = ExpectedProgress(o, now)
	prog.Status = Classify(prog.ProgressPercent, prog.ExpectedProgress,
		prog.ActualAmount, o.TargetAmount)

	return prog
}

// EvaluateAll evaluates a set of objectives against the same snapshot.
// Evaluations are independent pure computations, so order doesn't matter.
func EvaluateAll(objectives []*model.Objective, snap Snapshot, now time.Time) []model.Progress {
	out := make([]model.Progress, 0, len(objectives))
	for _, o := range objectives {
		out = append(out, Evaluate(o, snap, now))
	}
	return out
}
