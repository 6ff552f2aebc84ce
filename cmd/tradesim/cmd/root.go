package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
)

var rootCmd = &cobra.Command{
	Use:   "tradesim",
	Short: "A simulated securities trading platform",
	Long: `Tradesim is a simulated securities trading platform written in Go.

It provides tools for:
  - Executing simulated buy and sell orders against a virtual cash balance
  - Tracking positions with average-cost accounting
  - Auditable cash ledgers (every balance change has a matching entry)
  - Portfolio summaries revalued at current prices
  - A seeded NSE instrument universe

Complete documentation is available at https://github.com/rustyeddy/tradesim`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default settings when omitted)")
}

// loadConfig returns the configuration from --config, or the defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

// openStore opens the configured ledger backend.
func openStore() (ledger.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Ledger.Type {
	case "memory":
		return ledger.NewMemory(), cfg, nil
	default:
		store, err := ledger.NewSQLite(cfg.Ledger.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open ledger db: %w", err)
		}
		return store, cfg, nil
	}
}

// catalog is the shared in-memory price source for all commands.
func catalog() *market.Catalog {
	return market.DefaultCatalog()
}
