package pipeline

import (
	"strings"
	"testing"

	"github.com/pacerhq/pacer/internal/model"
)

func hasInsight(insights []model.Insight, severity model.InsightSeverity, titlePart string) bool {
	for _, in := range insights {
		if in.Severity == severity && strings.Contains(in.Title, titlePart) {
			return true
		}
	}
	return false
}

func TestGenerateInsights_Statuses(t *testing.T) {
	o := juneObjective(model.DistLinear)
	progress := []model.Progress{
		{Objective: o, ProgressPercent: 80, ExpectedProgress: 50, ActualAmount: 8000, Status: model.GoalOnTrack},
		{Objective: &model.Objective{Name: "churn"}, ProgressPercent: 30, ExpectedProgress: 60, ActualAmount: 300, Status: model.GoalAtRisk, DaysRemaining: 10},
		{Objective: &model.Objective{Name: "expansion"}, ProgressPercent: 10, ExpectedProgress: 70, ActualAmount: 100, Status: model.GoalBehind},
		{Objective: &model.Objective{Name: "upsell"}, ProgressPercent: 100, ActualAmount: 500, Status: model.GoalAchieved},
	}

	insights := GenerateInsights(progress, Snapshot{})

	if !hasInsight(insights, model.SeverityPositive, "ahead of schedule") {
		t.Error("missing ahead-of-schedule insight for 30-point lead")
	}
	if !hasInsight(insights, model.SeverityWarning, "at risk") {
		t.Error("missing at-risk insight")
	}
	if !hasInsight(insights, model.SeverityCritical, "behind") {
		t.Error("missing behind insight")
	}
	if !hasInsight(insights, model.SeverityPositive, "reached its target") {
		t.Error("missing achieved insight")
	}
}

func TestGenerateInsights_NoData(t *testing.T) {
	progress := []model.Progress{
		{Objective: &model.Objective{Name: "q3 revenue"}, NoData: true},
	}

	insights := GenerateInsights(progress, Snapshot{})
	if !hasInsight(insights, model.SeverityInfo, "No data") {
		t.Error("missing no-data insight")
	}
}

func TestConcentrationRisk(t *testing.T) {
	// One whale out of ten clients holding ~91% of revenue.
	clients := make([]model.Client, 0, 10)
	clients = append(clients, model.Client{ID: "whale", TotalRevenue: 90})
	for i := 0; i < 9; i++ {
		clients = append(clients, model.Client{ID: string(rune('a' + i)), TotalRevenue: 1})
	}
	snap := Snapshot{Clients: &model.ClientSnapshot{Clients: clients}}

	insights := GenerateInsights(nil, snap)
	if !hasInsight(insights, model.SeverityWarning, "concentration") {
		t.Error("missing concentration-risk insight")
	}

	// Evenly spread revenue raises no flag.
	for i := range clients {
		clients[i].TotalRevenue = 10
	}
	insights = GenerateInsights(nil, Snapshot{Clients: &model.ClientSnapshot{Clients: clients}})
	if hasInsight(insights, model.SeverityWarning, "concentration") {
		t.Error("unexpected concentration-risk insight for even revenue")
	}
}

func TestConcentrationRisk_Empty(t *testing.T) {
	if risk, _ := concentrationRisk(nil); risk {
		t.Error("nil snapshot flagged as concentration risk")
	}
	if risk, _ := concentrationRisk(&model.ClientSnapshot{}); risk {
		t.Error("empty snapshot flagged as concentration risk")
	}
}
