package cmd

import (
	"fmt"
	"time"

	"github.com/pacerhq/pacer/internal/cli"
	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/pipeline"

	"github.com/spf13/cobra"
)

var objectivesCmd = &cobra.Command{
	Use:     "objectives",
	Aliases: []string{"ls"},
	Short:   "List objectives and their progress",
	RunE:    runObjectives,
}

func init() {
	rootCmd.AddCommand(objectivesCmd)
}

func runObjectives(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	objectives, err := st.ListObjectives()
	if err != nil {
		return fmt.Errorf("listing objectives: %w", err)
	}
	objectives = filterYear(objectives, flagYear)

	if len(objectives) == 0 {
		fmt.Printf("\n  No objectives for %d. Create one with `pacer add`.\n", flagYear)
		return nil
	}

	result, err := loadData(st)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	progress := pipeline.EvaluateAll(objectives, snapshotOf(result), now)
	symbol := currencySymbol()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("OBJECTIVES  %d", flagYear)))
	fmt.Println()

	rows := make([][]string, 0, len(progress))
	for _, p := range progress {
		o := p.Objective
		actual := cli.FormatMetricValue(o.Metric, symbol, p.ActualAmount)
		pace := cli.FormatDelta(p.ProgressPercent, p.ExpectedProgress)
		if p.NoData {
			actual = "no data"
			pace = "-"
		}
		rows = append(rows, []string{
			o.Name,
			cli.MetricLabel(o.Metric),
			cli.FormatPeriod(o.Period),
			cli.FormatMetricValue(o.Metric, symbol, o.TargetAmount),
			actual,
			cli.FormatPercent(p.ProgressPercent),
			pace,
			cli.RenderStatusBadge(p.Status),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Objective", "Metric", "Period", "Target", "Actual", "Progress", "Pace", "Status"},
		Rows:    rows,
	}))

	fmt.Println()
	for _, p := range progress {
		if p.NoData {
			continue
		}
		fmt.Printf("  %-24s %s  %s left\n",
			truncName(p.Objective.Name, 24),
			cli.RenderProgressBar(p.ProgressPercent, p.ExpectedProgress, p.Status, 30),
			days(p.DaysRemaining))
	}
	fmt.Println()

	return nil
}

func filterYear(objectives []*model.Objective, year int) []*model.Objective {
	var out []*model.Objective
	for _, o := range objectives {
		if o.Period.Year == year {
			out = append(out, o)
		}
	}
	return out
}

func truncName(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
