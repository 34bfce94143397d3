package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pacerhq/pacer/internal/config"
	"github.com/pacerhq/pacer/internal/pipeline"
	"github.com/pacerhq/pacer/internal/source"
	"github.com/pacerhq/pacer/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagYear    int
	flagDataDir string
	flagNoCache bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "Business pacing CLI",
	Long:  "Track business objectives against your ledger and client data: progress, pace, forecasts, and insights.",
	RunE:  runObjectives,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagYear, "year", "y", time.Now().Year(), "Year to evaluate against")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Export directory (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse exports")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// dataDir resolves the export directory: flag first, then config.
func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	cfg, _ := config.Load()
	return config.DataDir(cfg)
}

// currencySymbol is the configured money prefix for all output.
func currencySymbol() string {
	cfg, _ := config.Load()
	if cfg.General.CurrencySymbol != "" {
		return cfg.General.CurrencySymbol
	}
	return "$"
}

// openStore opens the objectives database, creating it on first run.
func openStore() (*store.Store, error) {
	st, err := store.Open(store.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return st, nil
}

// loadData is the shared data loading path used by all commands. The store
// doubles as a parse cache so unchanged exports are not re-read.
func loadData(st *store.Store) (*source.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning exports...\n")
	}

	progressFn := func(done, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Loading [%d/%d]", done, total)
	}

	cacheStore := st
	if flagNoCache {
		cacheStore = nil
	}

	result, err := source.Load(dataDir(), flagYear, cacheStore, progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		switch {
		case !result.LedgerFound && !result.ClientsFound:
			fmt.Fprintf(os.Stderr, "\r  No exports found in %s    \n", dataDir())
		case result.Reparsed == 0:
			fmt.Fprintf(os.Stderr, "\r  Loaded from cache    \n")
		default:
			fmt.Fprintf(os.Stderr, "\r  %d cached, %d parsed    \n", result.CacheHits, result.Reparsed)
		}
		if result.ParseErrors > 0 {
			fmt.Fprintf(os.Stderr, "  Skipped %d malformed lines\n", result.ParseErrors)
		}
	}

	return result, nil
}

// snapshotOf adapts a load result into the evaluation snapshot.
func snapshotOf(result *source.LoadResult) pipeline.Snapshot {
	snap := pipeline.Snapshot{}
	if result.LedgerFound {
		ledger := result.Ledger
		snap.Ledger = &ledger
	}
	if result.ClientsFound {
		clients := result.Clients
		snap.Clients = &clients
	}
	return snap
}
