package models

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount with a currency symbol, thousands separators and two decimals.
func FormatCurrency(symbol string, amount decimal.Decimal) string {
	value := amount.Round(2).InexactFloat64()
	if value < 0 {
		return "-" + symbol + humanize.FormatFloat("#,###.##", -value)
	}
	return symbol + humanize.FormatFloat("#,###.##", value)
}
