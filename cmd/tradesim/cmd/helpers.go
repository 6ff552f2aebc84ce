package cmd

import (
	"github.com/shopspring/decimal"
)

func decimalFromFlag(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
