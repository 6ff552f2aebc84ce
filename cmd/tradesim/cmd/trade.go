package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradesim/engine"
	"github.com/rustyeddy/tradesim/ledger"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Execute buy and sell orders",
	Long: `Execute a simulated trade against the owner's cash account.

Examples:
  tradesim trade buy --owner alice --symbol TCS --quantity 10
  tradesim trade sell --owner alice --symbol TCS --quantity 5`,
}

var tradeBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy shares at the current price",
	RunE:  func(cmd *cobra.Command, args []string) error { return runTrade(ledger.Buy) },
}

var tradeSellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Sell held shares at the current price",
	RunE:  func(cmd *cobra.Command, args []string) error { return runTrade(ledger.Sell) },
}

var (
	tradeOwner    string
	tradeSymbol   string
	tradeQuantity int64
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeBuyCmd)
	tradeCmd.AddCommand(tradeSellCmd)

	for _, c := range []*cobra.Command{tradeBuyCmd, tradeSellCmd} {
		c.Flags().StringVarP(&tradeOwner, "owner", "o", "", "owner id (required)")
		c.Flags().StringVarP(&tradeSymbol, "symbol", "s", "", "instrument symbol (required)")
		c.Flags().Int64VarP(&tradeQuantity, "quantity", "q", 0, "number of shares (required)")
		c.MarkFlagRequired("owner")
		c.MarkFlagRequired("symbol")
		c.MarkFlagRequired("quantity")
	}
}

func runTrade(side ledger.Side) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	eng := engine.New(catalog(), store)
	receipt, err := eng.Execute(context.Background(), tradeOwner, tradeSymbol, side, tradeQuantity)
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s %d %s @ %s\n", side, receipt.Trade.Quantity, receipt.Trade.Symbol, receipt.Trade.Price)
	fmt.Printf("  balance: %s\n", receipt.Balance)
	if receipt.Position != nil {
		p := receipt.Position
		fmt.Printf("  position: %d shares, avg cost %s, invested %s\n",
			p.Quantity, p.AverageCost, p.TotalInvestment)
	} else {
		fmt.Println("  position closed")
	}
	return nil
}
