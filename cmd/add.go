package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pacerhq/pacer/internal/cli"
	"github.com/pacerhq/pacer/internal/config"
	"github.com/pacerhq/pacer/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagAddName       string
	flagAddMetric     string
	flagAddPeriod     string
	flagAddMonth      int
	flagAddQuarter    int
	flagAddTarget     float64
	flagAddStarting   float64
	flagAddDist       string
	flagAddMilestones []string
	flagAddSegment    string
	flagAddProduct    string
	flagAddCategory   string
	flagAddExpenseCat string
	flagAddClient     string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an objective",
	Long:  "Create an objective. With --name and --target set this is fully scripted; otherwise an interactive form asks for the rest.",
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&flagAddName, "name", "", "Objective name")
	addCmd.Flags().StringVarP(&flagAddMetric, "metric", "m", "revenue", "Metric to track")
	addCmd.Flags().StringVarP(&flagAddPeriod, "period", "p", "monthly", "Period type: monthly, quarterly, yearly")
	addCmd.Flags().IntVar(&flagAddMonth, "month", int(time.Now().Month()), "Month for monthly objectives (1-12)")
	addCmd.Flags().IntVar(&flagAddQuarter, "quarter", (int(time.Now().Month())-1)/3+1, "Quarter for quarterly objectives (1-4)")
	addCmd.Flags().Float64VarP(&flagAddTarget, "target", "t", 0, "Target amount")
	addCmd.Flags().Float64Var(&flagAddStarting, "starting", 0, "Amount already reached when the objective begins")
	addCmd.Flags().StringVar(&flagAddDist, "dist", "", "Distribution curve: linear, front_loaded, back_loaded, custom")
	addCmd.Flags().StringArrayVar(&flagAddMilestones, "milestone", nil, "Custom curve checkpoint as day:amount (repeatable)")
	addCmd.Flags().StringVar(&flagAddSegment, "segment", "", "Count only clients in this segment")
	addCmd.Flags().StringVar(&flagAddProduct, "product", "", "Count only transactions for this product")
	addCmd.Flags().StringVar(&flagAddCategory, "category", "", "Count only transactions in this category")
	addCmd.Flags().StringVar(&flagAddExpenseCat, "expense-category", "", "Count only expenses in this category")
	addCmd.Flags().StringVar(&flagAddClient, "client", "", "Count only transactions for this client id")
}

func runAdd(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	if flagAddDist == "" {
		flagAddDist = cfg.General.DefaultDistribution
		if flagAddDist == "" {
			flagAddDist = "linear"
		}
	}

	if flagAddName == "" || flagAddTarget <= 0 {
		if err := runAddForm(); err != nil {
			return err
		}
	}

	metric := model.Metric(flagAddMetric)
	if !validMetric(metric) {
		return fmt.Errorf("unknown metric %q (see `pacer metrics` for the list)", flagAddMetric)
	}

	periodType := model.PeriodType(flagAddPeriod)
	p := model.Period{Type: periodType, Year: flagYear}
	switch periodType {
	case model.PeriodMonthly:
		if flagAddMonth < 1 || flagAddMonth > 12 {
			return fmt.Errorf("month %d out of range", flagAddMonth)
		}
		p.Month = flagAddMonth
	case model.PeriodQuarterly:
		if flagAddQuarter < 1 || flagAddQuarter > 4 {
			return fmt.Errorf("quarter %d out of range", flagAddQuarter)
		}
		p.Quarter = flagAddQuarter
	case model.PeriodYearly:
	default:
		return fmt.Errorf("unknown period type %q", flagAddPeriod)
	}

	if flagAddTarget <= 0 {
		return fmt.Errorf("target must be positive")
	}

	dist := model.Distribution(flagAddDist)
	switch dist {
	case model.DistLinear, model.DistFrontLoaded, model.DistBackLoaded, model.DistCustom:
	default:
		return fmt.Errorf("unknown distribution %q", flagAddDist)
	}

	milestones, err := parseMilestones(flagAddMilestones)
	if err != nil {
		return err
	}
	if dist == model.DistCustom && len(milestones) == 0 {
		return fmt.Errorf("custom distribution needs at least one --milestone day:amount")
	}

	o := model.NewObjective(flagAddName, metric, p, flagAddTarget)
	o.StartingAmount = flagAddStarting
	o.Distribution = dist
	o.Milestones = milestones
	o.Filters = model.Filters{
		Segment:         flagAddSegment,
		Product:         flagAddProduct,
		Category:        flagAddCategory,
		ExpenseCategory: flagAddExpenseCat,
		ClientID:        flagAddClient,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveObjective(o); err != nil {
		return fmt.Errorf("saving objective: %w", err)
	}

	fmt.Printf("\n  Created %q: %s %s for %s\n  id: %s\n\n",
		o.Name,
		cli.MetricLabel(o.Metric),
		cli.FormatMetricValue(o.Metric, currencySymbol(), o.TargetAmount),
		cli.FormatPeriod(o.Period),
		o.ID)

	return nil
}

// runAddForm fills the missing add flags interactively.
func runAddForm() error {
	metricOptions := make([]huh.Option[string], 0, len(model.AllMetrics))
	for _, m := range model.AllMetrics {
		metricOptions = append(metricOptions, huh.NewOption(cli.MetricLabel(m), string(m)))
	}

	targetStr := ""
	if flagAddTarget > 0 {
		targetStr = strconv.FormatFloat(flagAddTarget, 'f', -1, 64)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Objective name").
				Value(&flagAddName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Metric").
				Options(metricOptions...).
				Value(&flagAddMetric),
			huh.NewSelect[string]().
				Title("Period").
				Options(
					huh.NewOption("Monthly", "monthly"),
					huh.NewOption("Quarterly", "quarterly"),
					huh.NewOption("Yearly", "yearly"),
				).
				Value(&flagAddPeriod),
			huh.NewInput().
				Title("Target amount").
				Value(&targetStr).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Distribution").
				Description("How progress is expected to accrue over the period").
				Options(
					huh.NewOption("Linear", "linear"),
					huh.NewOption("Front-loaded", "front_loaded"),
					huh.NewOption("Back-loaded", "back_loaded"),
				).
				Value(&flagAddDist),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	flagAddTarget, _ = strconv.ParseFloat(strings.TrimSpace(targetStr), 64)
	flagAddName = strings.TrimSpace(flagAddName)
	return nil
}

func validMetric(m model.Metric) bool {
	for _, known := range model.AllMetrics {
		if m == known {
			return true
		}
	}
	return false
}

// parseMilestones decodes repeated day:amount flags.
func parseMilestones(raw []string) ([]model.Milestone, error) {
	var out []model.Milestone
	for _, r := range raw {
		day, amount, ok := strings.Cut(r, ":")
		if !ok {
			return nil, fmt.Errorf("milestone %q: want day:amount", r)
		}
		d, err := strconv.Atoi(strings.TrimSpace(day))
		if err != nil || d < 1 {
			return nil, fmt.Errorf("milestone %q: bad day", r)
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return nil, fmt.Errorf("milestone %q: bad amount", r)
		}
		out = append(out, model.Milestone{Day: d, Amount: a})
	}
	return out, nil
}
