package market

import (
	"time"

	"github.com/shopspring/decimal"
)

type listing struct {
	symbol        string
	name          string
	price         string
	previousClose string
}

// Default NSE universe for the simulation. Prices are the seeded session
// values; SetPrice moves them once the simulation is running.
var listings = []listing{
	{"RELIANCE", "Reliance Industries Ltd", "2875.40", "2850.75"},
	{"TCS", "Tata Consultancy Services", "3720.25", "3680.50"},
	{"HDFCBANK", "HDFC Bank Ltd", "1650.30", "1640.25"},
	{"INFY", "Infosys Ltd", "1480.75", "1510.50"},
	{"BHARTIARTL", "Bharti Airtel Ltd", "910.25", "905.60"},
	{"ICICIBANK", "ICICI Bank Ltd", "875.40", "865.20"},
	{"ITC", "ITC Ltd", "440.15", "437.50"},
	{"SBIN", "State Bank of India", "630.75", "625.30"},
	{"WIPRO", "Wipro Ltd", "480.25", "488.75"},
	{"HCLTECH", "HCL Technologies Ltd", "1450.60", "1435.25"},
	{"TATASTEEL", "Tata Steel Ltd", "140.50", "138.25"},
	{"TATAMOTORS", "Tata Motors Ltd", "860.40", "835.75"},
	{"MARUTI", "Maruti Suzuki India Ltd", "11250.30", "11200.75"},
	{"ADANIPORTS", "Adani Ports & SEZ Ltd", "875.60", "865.25"},
	{"SUNPHARMA", "Sun Pharmaceutical Industries", "1180.35", "1170.50"},
	{"DRREDDY", "Dr. Reddy's Laboratories", "5430.75", "5390.25"},
	{"ASIANPAINT", "Asian Paints Ltd", "3280.45", "3260.80"},
	{"BAJFINANCE", "Bajaj Finance Ltd", "7150.25", "7120.50"},
	{"AXISBANK", "Axis Bank Ltd", "1030.60", "1020.75"},
	{"KOTAKBANK", "Kotak Mahindra Bank Ltd", "1740.35", "1730.25"},
}

// DefaultCatalog returns a catalog seeded with the default universe.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	now := time.Now().UTC()
	for _, l := range listings {
		price := decimal.RequireFromString(l.price)
		prev := decimal.RequireFromString(l.previousClose)
		c.Set(Quote{
			Symbol:        l.symbol,
			Name:          l.name,
			Price:         price,
			PreviousClose: prev,
			Open:          prev,
			DayHigh:       decimal.Max(price, prev),
			DayLow:        decimal.Min(price, prev),
			Volume:        1_000_000,
			Updated:       now,
		})
	}
	return c
}
