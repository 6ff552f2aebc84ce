package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "Inspect the tracked instrument universe",
}

var stocksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked instruments",
	RunE:  runStocksList,
}

var stocksPriceCmd = &cobra.Command{
	Use:   "price SYMBOL",
	Short: "Show the current quote for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runStocksPrice,
}

func init() {
	rootCmd.AddCommand(stocksCmd)
	stocksCmd.AddCommand(stocksListCmd)
	stocksCmd.AddCommand(stocksPriceCmd)
}

func runStocksList(cmd *cobra.Command, args []string) error {
	for _, q := range catalog().List() {
		fmt.Printf("%-12s %-32s %10s  (%s%%)\n", q.Symbol, q.Name, q.Price, q.ChangePercent())
	}
	return nil
}

func runStocksPrice(cmd *cobra.Command, args []string) error {
	q, err := catalog().GetQuote(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", q.Symbol, q.Name)
	fmt.Printf("  price:          %s\n", q.Price)
	fmt.Printf("  previous close: %s\n", q.PreviousClose)
	fmt.Printf("  change:         %s (%s%%)\n", q.Change(), q.ChangePercent())
	fmt.Printf("  day range:      %s - %s\n", q.DayLow, q.DayHigh)
	fmt.Printf("  updated:        %s\n", q.Updated.Format("2006-01-02 15:04:05"))
	return nil
}
