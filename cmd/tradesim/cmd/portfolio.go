package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/engine"
	"github.com/rustyeddy/tradesim/portfolio"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show holdings revalued at current prices",
	RunE:  runPortfolio,
}

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List executed trades, newest first",
	RunE:  runTrades,
}

var portfolioOwner string

func init() {
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(tradesCmd)

	for _, c := range []*cobra.Command{portfolioCmd, tradesCmd} {
		c.Flags().StringVarP(&portfolioOwner, "owner", "o", "", "owner id (required)")
		c.MarkFlagRequired("owner")
	}
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := portfolio.Summarize(context.Background(), store, catalog(), portfolioOwner)
	if err != nil {
		return err
	}

	if len(report.Holdings) == 0 {
		fmt.Println("no holdings")
		return nil
	}

	for _, h := range report.Holdings {
		fmt.Printf("%-12s %6d shares  avg %10s  invested %12s  value %12s  p/l %12s\n",
			h.Symbol, h.Quantity, h.AverageCost, h.TotalInvestment, h.CurrentValue, h.ProfitLoss)
	}
	fmt.Printf("\ninvested %s  value %s  p/l %s (%s%%)\n",
		report.TotalInvestment, report.CurrentValue, report.ProfitLoss, report.ProfitLossPercent)
	return nil
}

func runTrades(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	eng := engine.New(catalog(), store)
	trades, err := eng.TradeHistory(context.Background(), portfolioOwner)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Println("no trades")
		return nil
	}
	for _, t := range trades {
		fmt.Printf("%s  %-4s %6d %-12s @ %s\n",
			t.Time.Format("2006-01-02 15:04:05"), t.Side, t.Quantity, t.Symbol, t.Price)
	}
	return nil
}
