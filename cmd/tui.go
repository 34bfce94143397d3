package cmd

import (
	"fmt"

	"github.com/pacerhq/pacer/internal/config"
	"github.com/pacerhq/pacer/internal/tui"
	"github.com/pacerhq/pacer/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor so styling always produces ANSI codes; lipgloss may
	// otherwise fall back to the Ascii profile.
	if cfg.Appearance.Theme != "terminal" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	app := tui.NewApp(dataDir(), flagYear, currencySymbol())
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
