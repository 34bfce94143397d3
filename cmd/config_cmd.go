// Package cmd implements the pacer CLI commands.
package cmd

import (
	"fmt"

	"github.com/pacerhq/pacer/internal/config"
	"github.com/pacerhq/pacer/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Keys: company_name, currency, data_dir, distribution, theme.",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.CompanyName != "" {
		fmt.Printf("    Company:              %s\n", cfg.General.CompanyName)
	}
	fmt.Printf("    Currency symbol:      %s\n", cfg.General.CurrencySymbol)
	fmt.Printf("    Default distribution: %s\n", cfg.General.DefaultDistribution)
	fmt.Println()

	fmt.Println("  [Data]")
	fmt.Printf("    Export directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    Database:         %s\n", store.DefaultPath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `pacer config set <key> <value>` to change a value.")
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "company_name":
		cfg.General.CompanyName = value
	case "currency":
		cfg.General.CurrencySymbol = value
	case "data_dir":
		cfg.Data.Dir = value
	case "distribution":
		switch value {
		case "linear", "front_loaded", "back_loaded":
		default:
			return fmt.Errorf("distribution must be linear, front_loaded, or back_loaded")
		}
		cfg.General.DefaultDistribution = value
	case "theme":
		cfg.Appearance.Theme = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("  Saved %s to %s\n", key, config.ConfigPath())
	return nil
}
