package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "₹0.00"},
		{"0.01", "₹0.01"},
		{"1234.5", "₹1,234.50"},
		{"1000000", "₹1,000,000.00"},
		{"-42.1", "-₹42.10"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency("₹", decimal.RequireFromString(tt.amount)))
		})
	}
}
