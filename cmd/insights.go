package cmd

import (
	"fmt"
	"time"

	"github.com/pacerhq/pacer/internal/cli"
	"github.com/pacerhq/pacer/internal/pipeline"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Highlight what needs attention across objectives",
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	objectives, err := st.ListObjectives()
	if err != nil {
		return err
	}
	objectives = filterYear(objectives, flagYear)

	result, err := loadData(st)
	if err != nil {
		return err
	}
	snap := snapshotOf(result)

	now := time.Now().UTC()
	progress := pipeline.EvaluateAll(objectives, snap, now)
	insights := pipeline.GenerateInsights(progress, snap)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("INSIGHTS  %d", flagYear)))
	fmt.Println()

	if len(insights) == 0 {
		fmt.Println("  Nothing to report.")
		fmt.Println()
		return nil
	}

	for _, in := range insights {
		fmt.Print(cli.RenderInsight(in))
	}
	fmt.Println()

	return nil
}
