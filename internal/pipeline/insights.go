package pipeline

import (
	"fmt"
	"sort"

	"github.com/pacerhq/pacer/internal/model"
)

// Insight rule thresholds.
const (
	aheadOfScheduleDiff    = 10.0
	concentrationTopShare  = 0.10
	concentrationRiskLimit = 0.50
)

// GenerateInsights derives narrative observations from evaluated objectives
// and the client snapshot. Pure threshold checks over already-computed
// numbers; the wording is a product concern, not a contract.
func GenerateInsights(progress []model.Progress, snap Snapshot) []model.Insight {
	var insights []model.Insight

	for _, p := range progress {
		if p.NoData {
			insights = append(insights, model.Insight{
				Severity: model.SeverityInfo,
				Title:    fmt.Sprintf("No data for %q", p.Objective.Name),
				Detail:   "The period has no ledger or client records yet.",
				Action:   "Import data for this period to start tracking.",
			})
			continue
		}

		diff := p.ProgressPercent - p.ExpectedProgress
		remaining := p.Objective.TargetAmount - p.ActualAmount

		switch {
		case p.Status == model.GoalAchieved:
			insights = append(insights, model.Insight{
				Severity: model.SeverityPositive,
				Title:    fmt.Sprintf("%q reached its target", p.Objective.Name),
				Detail:   fmt.Sprintf("Finished at %.0f%% with %d days to spare.", p.ProgressPercent, p.DaysRemaining),
			})
		case diff > aheadOfScheduleDiff:
			insights = append(insights, model.Insight{
				Severity: model.SeverityPositive,
				Title:    fmt.Sprintf("%q is ahead of schedule", p.Objective.Name),
				Detail:   fmt.Sprintf("Progress is %.0f points above the curve.", diff),
				Action:   "Consider raising the target or reallocating effort.",
			})
		case p.Status == model.GoalAtRisk:
			insights = append(insights, model.Insight{
				Severity: model.SeverityWarning,
				Title:    fmt.Sprintf("%q is at risk", p.Objective.Name),
				Detail:   fmt.Sprintf("%.0f still to go with %d days remaining.", remaining, p.DaysRemaining),
				Action:   "Review the pace needed per remaining day.",
			})
		case p.Status == model.GoalBehind:
			insights = append(insights, model.Insight{
				Severity: model.SeverityCritical,
				Title:    fmt.Sprintf("%q is behind", p.Objective.Name),
				Detail: fmt.Sprintf("Progress %.0f%% vs %.0f%% expected by now.",
					p.ProgressPercent, p.ExpectedProgress),
				Action: "Re-plan the remaining period or adjust the target.",
			})
		}
	}

	if risk, share := concentrationRisk(snap.Clients); risk {
		insights = append(insights, model.Insight{
			Severity: model.SeverityWarning,
			Title:    "Revenue concentration risk",
			Detail:   fmt.Sprintf("The top 10%% of clients account for %.0f%% of revenue.", share*100),
			Action:   "Diversify the client base to reduce dependency.",
		})
	}

	return insights
}

// concentrationRisk reports whether the top 10% of clients by revenue exceed
// half of total revenue, and the share they hold.
func concentrationRisk(snap *model.ClientSnapshot) (bool, float64) {
	if snap.Empty() {
		return false, 0
	}

	revenues := make([]float64, 0, len(snap.Clients))
	var total float64
	for _, c := range snap.Clients {
		revenues = append(revenues, c.TotalRevenue)
		total += c.TotalRevenue
	}
	if total == 0 {
		return false, 0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(revenues)))

	topN := int(float64(len(revenues)) * concentrationTopShare)
	if topN < 1 {
		topN = 1
	}
	var topRevenue float64
	for _, r := range revenues[:topN] {
		topRevenue += r
	}

	share := topRevenue / total
	return share > concentrationRiskLimit, share
}
