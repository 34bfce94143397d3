package cmd

import (
	"fmt"
	"time"

	"github.com/pacerhq/pacer/internal/cli"
	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/pipeline"

	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast <objective>",
	Short: "Project an objective's end-of-period result",
	Args:  cobra.ExactArgs(1),
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	o, err := st.FindObjective(args[0])
	if err != nil {
		return err
	}

	result, err := loadData(st)
	if err != nil {
		return err
	}
	snap := snapshotOf(result)

	now := time.Now().UTC()
	prog := pipeline.Evaluate(o, snap, now)
	if prog.NoData {
		fmt.Println("\n  No export data for this objective's metric.")
		return nil
	}

	series := pipeline.BuildHistoricalSeries(o, snap, now)
	forecast := pipeline.BuildForecast(series, o, now)

	symbol := currencySymbol()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FORECAST  %s  %s", o.Name, cli.FormatPeriod(o.Period))))
	fmt.Println()
	fmt.Printf("  Actual so far:  %s of %s (%s)\n",
		cli.FormatMetricValue(o.Metric, symbol, prog.ActualAmount),
		cli.FormatMetricValue(o.Metric, symbol, o.TargetAmount),
		cli.FormatPercent(prog.ProgressPercent))
	fmt.Printf("  Status:         %s, %s remaining\n",
		cli.RenderStatusBadge(prog.Status), days(prog.DaysRemaining))

	if len(series) > 0 {
		actuals := make([]float64, len(series))
		for i, pt := range series {
			actuals[i] = pt.Actual
		}
		fmt.Printf("  Trajectory:     %s\n", cli.RenderSparkline(actuals))
	}
	fmt.Println()

	if len(forecast) == 0 {
		if o.Period.Type == model.PeriodQuarterly {
			fmt.Println("  Forecasting is not available for quarterly objectives.")
		} else {
			fmt.Println("  Not enough history yet to forecast.")
		}
		fmt.Println()
		return nil
	}

	dateFormat := "Jan 2"
	if o.Period.Type == model.PeriodYearly {
		dateFormat = "Jan"
	}

	rows := make([][]string, 0, len(forecast))
	for _, fp := range forecast {
		rows = append(rows, []string{
			fp.Date.Format(dateFormat),
			cli.FormatMetricValue(o.Metric, symbol, fp.Projected),
			cli.FormatMetricValue(o.Metric, symbol, fp.Pessimistic),
			cli.FormatMetricValue(o.Metric, symbol, fp.Optimistic),
			cli.FormatPercent(fp.Confidence),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Projected", "Low", "High", "Confidence"},
		Rows:    rows,
	}))

	final := forecast[len(forecast)-1]
	fmt.Println()
	if final.Projected >= o.TargetAmount {
		fmt.Printf("  On current pace the target lands at %s, %s ahead.\n",
			cli.FormatMetricValue(o.Metric, symbol, final.Projected),
			cli.FormatMetricValue(o.Metric, symbol, final.Projected-o.TargetAmount))
	} else {
		fmt.Printf("  On current pace the period ends at %s, %s short of target.\n",
			cli.FormatMetricValue(o.Metric, symbol, final.Projected),
			cli.FormatMetricValue(o.Metric, symbol, o.TargetAmount-final.Projected))
	}
	fmt.Println()

	return nil
}
