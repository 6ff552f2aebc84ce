package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/engine"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage cash accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a cash account with the starting balance",
	Long: `Register a new owner with a cash account funded at the configured
starting balance.

Example:
  tradesim account create --owner alice`,
	RunE: runAccountCreate,
}

var (
	accountOwner   string
	accountBalance string
)

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd)

	accountCreateCmd.Flags().StringVarP(&accountOwner, "owner", "o", "", "owner id (required)")
	accountCreateCmd.Flags().StringVarP(&accountBalance, "balance", "b", "", "starting balance (defaults to config)")
	accountCreateCmd.MarkFlagRequired("owner")
}

func runAccountCreate(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if accountBalance == "" {
		accountBalance = cfg.Account.StartingBalance
	}
	balance, err := decimalFromFlag(accountBalance)
	if err != nil {
		return fmt.Errorf("parse balance: %w", err)
	}

	eng := engine.New(catalog(), store)
	if err := eng.Register(context.Background(), accountOwner, balance); err != nil {
		return err
	}

	fmt.Printf("✓ Created account for %s with balance %s %s\n", accountOwner, balance, cfg.Account.Currency)
	return nil
}
