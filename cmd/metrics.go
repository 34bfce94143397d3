package cmd

import (
	"fmt"
	"time"

	"github.com/pacerhq/pacer/internal/cli"
	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagMetricsMonth int

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show all business metrics for a period",
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	metricsCmd.Flags().IntVar(&flagMetricsMonth, "month", 0, "Limit to one month (1-12); default is the whole year")
}

func runMetrics(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := loadData(st)
	if err != nil {
		return err
	}
	snap := snapshotOf(result)

	p := model.Period{Type: model.PeriodYearly, Year: flagYear}
	title := fmt.Sprintf("METRICS  %d", flagYear)
	if flagMetricsMonth != 0 {
		if flagMetricsMonth < 1 || flagMetricsMonth > 12 {
			return fmt.Errorf("month %d out of range", flagMetricsMonth)
		}
		p = model.Period{Type: model.PeriodMonthly, Year: flagYear, Month: flagMetricsMonth}
		title = fmt.Sprintf("METRICS  %s", cli.FormatPeriod(p))
	}

	now := time.Now().UTC()
	symbol := currencySymbol()

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	rows := make([][]string, 0, len(model.AllMetrics))
	for _, m := range model.AllMetrics {
		if pipeline.RequiresLedger(m) && snap.Ledger.Empty() ||
			pipeline.RequiresClients(m) && snap.Clients.Empty() {
			rows = append(rows, []string{cli.MetricLabel(m), "no data"})
			continue
		}
		v := pipeline.ComputeMetric(m, p, model.Filters{}, snap, now)
		rows = append(rows, []string{cli.MetricLabel(m), cli.FormatMetricValue(m, symbol, v)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	return nil
}
