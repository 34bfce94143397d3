// Package tui provides the interactive Bubble Tea dashboard for pacer.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/pacerhq/pacer/internal/cli"
	"github.com/pacerhq/pacer/internal/model"
	"github.com/pacerhq/pacer/internal/pipeline"
	"github.com/pacerhq/pacer/internal/source"
	"github.com/pacerhq/pacer/internal/store"
	"github.com/pacerhq/pacer/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []string{"Overview", "Objectives", "Insights"}

const (
	tabOverview = iota
	tabObjectives
	tabInsights
)

const minTerminalWidth = 70

// dataLoadedMsg is sent when the load pipeline finishes.
type dataLoadedMsg struct {
	progress []model.Progress
	insights []model.Insight
	snap     pipeline.Snapshot
	loadTime time.Duration
	err      error
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	progress []model.Progress
	insights []model.Insight
	snap     pipeline.Snapshot
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// UI state
	width     int
	height    int
	activeTab int
	cursor    int
	showHelp  bool

	spinner spinner.Model

	// Load parameters
	dataDir string
	year    int
	symbol  string
}

// NewApp creates a new TUI app model.
func NewApp(dataDir string, year int, currencySymbol string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		dataDir: dataDir,
		year:    year,
		symbol:  currencySymbol,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(a.dataDir, a.year),
		a.spinner.Tick,
	)
}

// loadDataCmd runs the full load and evaluation pipeline off the UI thread.
func loadDataCmd(dataDir string, year int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		now := time.Now().UTC()

		st, err := store.Open(store.DefaultPath())
		if err != nil {
			return dataLoadedMsg{err: err, loadTime: time.Since(start)}
		}
		defer st.Close()

		objectives, err := st.ListObjectives()
		if err != nil {
			return dataLoadedMsg{err: err, loadTime: time.Since(start)}
		}
		var forYear []*model.Objective
		for _, o := range objectives {
			if o.Period.Year == year {
				forYear = append(forYear, o)
			}
		}

		result, err := source.Load(dataDir, year, st, nil)
		if err != nil {
			return dataLoadedMsg{err: err, loadTime: time.Since(start)}
		}

		snap := pipeline.Snapshot{}
		if result.LedgerFound {
			ledger := result.Ledger
			snap.Ledger = &ledger
		}
		if result.ClientsFound {
			clients := result.Clients
			snap.Clients = &clients
		}

		progress := pipeline.EvaluateAll(forYear, snap, now)
		insights := pipeline.GenerateInsights(progress, snap)

		return dataLoadedMsg{
			progress: progress,
			insights: insights,
			snap:     snap,
			loadTime: time.Since(start),
		}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" || key == "q" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "o", "1":
			a.activeTab = tabOverview
		case "b", "2":
			a.activeTab = tabObjectives
		case "i", "3":
			a.activeTab = tabInsights
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(Tabs)) % len(Tabs)
		case "right", "l", "tab":
			a.activeTab = (a.activeTab + 1) % len(Tabs)
		case "j", "down":
			if a.activeTab == tabObjectives && a.cursor < len(a.progress)-1 {
				a.cursor++
			}
		case "k", "up":
			if a.activeTab == tabObjectives && a.cursor > 0 {
				a.cursor--
			}
		case "r":
			a.loaded = false
			return a, tea.Batch(loadDataCmd(a.dataDir, a.year), a.spinner.Tick)
		}
		return a, nil

	case dataLoadedMsg:
		a.progress = msg.progress
		a.insights = msg.insights
		a.snap = msg.snap
		a.loadErr = msg.err
		a.loadTime = msg.loadTime
		a.loaded = true
		if a.cursor >= len(a.progress) {
			a.cursor = 0
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols); pacer needs %d.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewError()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(fmt.Sprintf("%s Loading %d exports...", a.spinner.View(), a.year))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewError() string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.Red)
	return fmt.Sprintf("\n  %s\n\n  Press q to quit.\n",
		style.Render("Load failed: "+a.loadErr.Error()))
}

func (a App) viewHelp() string {
	t := theme.Active
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	bindings := []struct{ key, desc string }{
		{"o b i", "Jump to tab"},
		{"← → / tab", "Cycle tabs"},
		{"j k", "Select objective"},
		{"r", "Reload exports"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render("Keyboard"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "%s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	header := a.renderTabBar()
	status := a.renderStatusBar()

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(status)
	if contentH < 3 {
		contentH = 3
	}

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverview()
	case tabObjectives:
		content = a.renderObjectives(contentH)
	case tabInsights:
		content = a.renderInsights()
	}
	content = fitHeight(content, contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (a App) renderTabBar() string {
	t := theme.Active
	active := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 2)
	inactive := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 2)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == a.activeTab {
			parts = append(parts, active.Render(tab))
		} else {
			parts = append(parts, inactive.Render(tab))
		}
	}

	bar := strings.Join(parts, lipgloss.NewStyle().Foreground(t.Border).Render("│"))
	rule := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", a.width))
	return bar + "\n" + rule
}

func (a App) renderStatusBar() string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim)
	return dim.Render(fmt.Sprintf(" %d · %d objectives · loaded in %.1fs · ? help · q quit",
		a.year, len(a.progress), a.loadTime.Seconds()))
}

func (a App) renderOverview() string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)

	counts := map[model.GoalStatus]int{}
	for _, p := range a.progress {
		counts[p.Status]++
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(label.Render("  Status summary"))
	b.WriteString("\n\n")
	statusLine := []struct {
		status model.GoalStatus
		color  lipgloss.Color
	}{
		{model.GoalAchieved, t.Green},
		{model.GoalOnTrack, t.Green},
		{model.GoalAtRisk, t.Yellow},
		{model.GoalBehind, t.Red},
		{model.GoalNotStarted, t.TextDim},
	}
	for _, s := range statusLine {
		style := lipgloss.NewStyle().Foreground(s.color)
		fmt.Fprintf(&b, "  %s %s\n",
			value.Render(fmt.Sprintf("%2d", counts[s.status])),
			style.Render(cli.StatusLabel(s.status)))
	}

	b.WriteString("\n")
	b.WriteString(label.Render("  Key metrics"))
	b.WriteString("\n\n")

	now := time.Now().UTC()
	p := model.Period{Type: model.PeriodYearly, Year: a.year}
	keyMetrics := []model.Metric{
		model.MetricRevenue, model.MetricNetProfit, model.MetricActiveClients,
		model.MetricNewClients, model.MetricChurnRate, model.MetricARPU,
	}
	for _, m := range keyMetrics {
		if pipeline.RequiresLedger(m) && a.snap.Ledger.Empty() ||
			pipeline.RequiresClients(m) && a.snap.Clients.Empty() {
			fmt.Fprintf(&b, "  %-16s %s\n", cli.MetricLabel(m), label.Render("no data"))
			continue
		}
		v := pipeline.ComputeMetric(m, p, model.Filters{}, a.snap, now)
		fmt.Fprintf(&b, "  %-16s %s\n", cli.MetricLabel(m),
			value.Render(cli.FormatMetricValue(m, a.symbol, v)))
	}

	return b.String()
}

func (a App) renderObjectives(contentH int) string {
	t := theme.Active
	if len(a.progress) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).
			Render("\n  No objectives for this year. Create one with `pacer add`.")
	}

	selected := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceHover).
		Bold(true)
	normal := lipgloss.NewStyle().Foreground(t.TextMuted)

	var list strings.Builder
	list.WriteString("\n")
	for i, p := range a.progress {
		line := fmt.Sprintf(" %-24s %8s ",
			truncate(p.Objective.Name, 24),
			cli.FormatPercent(p.ProgressPercent))
		if i == a.cursor {
			list.WriteString(selected.Render("▸" + line))
		} else {
			list.WriteString(normal.Render(" " + line))
		}
		list.WriteString("\n")
	}

	detail := a.renderObjectiveDetail(a.progress[a.cursor])

	listW := 38
	detailW := a.width - listW - 3
	if detailW < 30 {
		return list.String()
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listW).Height(contentH).Render(list.String()),
		lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("│\n", contentH)),
		lipgloss.NewStyle().Width(detailW).Render(detail),
	)
}

func (a App) renderObjectiveDetail(p model.Progress) string {
	t := theme.Active
	o := p.Objective
	label := lipgloss.NewStyle().Foreground(t.TextMuted)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)

	var b strings.Builder
	b.WriteString("\n ")
	b.WriteString(title.Render(o.Name))
	b.WriteString("\n\n")

	if p.NoData {
		b.WriteString(label.Render(" No export data for this metric."))
		return b.String()
	}

	fmt.Fprintf(&b, " %s %s\n", label.Render("Metric:  "),
		value.Render(cli.MetricLabel(o.Metric)))
	fmt.Fprintf(&b, " %s %s\n", label.Render("Period:  "),
		value.Render(cli.FormatPeriod(o.Period)))
	fmt.Fprintf(&b, " %s %s of %s\n", label.Render("Actual:  "),
		value.Render(cli.FormatMetricValue(o.Metric, a.symbol, p.ActualAmount)),
		value.Render(cli.FormatMetricValue(o.Metric, a.symbol, o.TargetAmount)))
	fmt.Fprintf(&b, " %s %s vs %s expected\n", label.Render("Pace:    "),
		value.Render(cli.FormatPercent(p.ProgressPercent)),
		value.Render(cli.FormatPercent(p.ExpectedProgress)))
	fmt.Fprintf(&b, " %s %s, %d days left\n\n", label.Render("Status:  "),
		cli.RenderStatusBadge(p.Status), p.DaysRemaining)

	b.WriteString(" ")
	b.WriteString(cli.RenderProgressBar(p.ProgressPercent, p.ExpectedProgress, p.Status, 32))
	b.WriteString("\n\n")

	now := time.Now().UTC()
	series := pipeline.BuildHistoricalSeries(o, a.snap, now)
	if len(series) > 0 {
		actuals := make([]float64, len(series))
		for i, pt := range series {
			actuals[i] = pt.Actual
		}
		fmt.Fprintf(&b, " %s %s\n", label.Render("History: "), cli.RenderSparkline(actuals))
	}

	forecast := pipeline.BuildForecast(series, o, now)
	if len(forecast) > 0 {
		final := forecast[len(forecast)-1]
		style := lipgloss.NewStyle().Foreground(t.Green)
		if final.Projected < o.TargetAmount {
			style = lipgloss.NewStyle().Foreground(t.Orange)
		}
		fmt.Fprintf(&b, " %s %s (%s confidence)\n", label.Render("Forecast:"),
			style.Render(cli.FormatMetricValue(o.Metric, a.symbol, final.Projected)),
			cli.FormatPercent(final.Confidence))
	}

	return b.String()
}

func (a App) renderInsights() string {
	t := theme.Active
	if len(a.insights) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Render("\n  Nothing to report.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, in := range a.insights {
		b.WriteString(cli.RenderInsight(in))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func fitHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		return strings.Join(lines[:h], "\n")
	}
	return s + strings.Repeat("\n", h-len(lines))
}
