package storefront

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "$0.00"},
		{"whole dollars", "5", "$5.00"},
		{"cents kept", "19.99", "$19.99"},
		{"rounds to two places", "19.999", "$20.00"},
		{"thousands grouped", "1234.5", "$1,234.50"},
		{"millions grouped", "1234567.89", "$1,234,567.89"},
		{"exactly one thousand", "1000", "$1,000.00"},
		{"negative", "-5", "-$5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			assert.Equal(t, tt.want, FormatCurrency(amount))
		})
	}
}
