package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/engine"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect and move cash",
	Long: `Inspect an owner's cash balance and transaction ledger, or move
funds in and out of the account.

Examples:
  tradesim wallet balance --owner alice
  tradesim wallet transactions --owner alice
  tradesim wallet deposit --owner alice --amount 5000
  tradesim wallet withdraw --owner alice --amount 2500`,
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current cash balance",
	RunE:  runWalletBalance,
}

var walletTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List the cash ledger, newest first",
	RunE:  runWalletTransactions,
}

var walletDepositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Add funds to the account",
	RunE:  runWalletDeposit,
}

var walletWithdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Remove funds from the account",
	RunE:  runWalletWithdraw,
}

var (
	walletOwner  string
	walletAmount string
)

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletBalanceCmd)
	walletCmd.AddCommand(walletTransactionsCmd)
	walletCmd.AddCommand(walletDepositCmd)
	walletCmd.AddCommand(walletWithdrawCmd)

	for _, c := range []*cobra.Command{walletBalanceCmd, walletTransactionsCmd, walletDepositCmd, walletWithdrawCmd} {
		c.Flags().StringVarP(&walletOwner, "owner", "o", "", "owner id (required)")
		c.MarkFlagRequired("owner")
	}
	for _, c := range []*cobra.Command{walletDepositCmd, walletWithdrawCmd} {
		c.Flags().StringVarP(&walletAmount, "amount", "a", "", "amount to move (required)")
		c.MarkFlagRequired("amount")
	}
}

func runWalletBalance(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	eng := engine.New(catalog(), store)
	balance, err := eng.Balance(context.Background(), walletOwner)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", balance, cfg.Account.Currency)
	return nil
}

func runWalletTransactions(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	eng := engine.New(catalog(), store)
	entries, err := eng.Transactions(context.Background(), walletOwner)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no transactions")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-11s %12s  balance %12s  %s\n",
			e.Time.Format("2006-01-02 15:04:05"), e.Kind, e.Amount, e.BalanceAfter, e.Description)
	}
	return nil
}

func runWalletDeposit(cmd *cobra.Command, args []string) error {
	return runCashOp(true)
}

func runWalletWithdraw(cmd *cobra.Command, args []string) error {
	return runCashOp(false)
}

func runCashOp(deposit bool) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	amount, err := decimalFromFlag(walletAmount)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}

	eng := engine.New(catalog(), store)
	ctx := context.Background()

	var balance decimal.Decimal
	if deposit {
		balance, err = eng.Deposit(ctx, walletOwner, amount)
	} else {
		balance, err = eng.Withdraw(ctx, walletOwner, amount)
	}
	if err != nil {
		return err
	}
	fmt.Printf("✓ new balance: %s\n", balance)
	return nil
}
