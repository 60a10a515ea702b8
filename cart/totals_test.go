package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}

	totals := ComputeTotals(lines)

	assert.Equal(t, 3, totals.ItemCount)
	assert.True(t, totals.Amount.Equal(decimal.RequireFromString("25.00")))
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Zero(t, totals.ItemCount)
	assert.True(t, totals.Amount.Equal(decimal.RequireFromString("0.00")))
}

func TestComputeTotals_FractionalPrices(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
	}

	totals := ComputeTotals(lines)

	assert.Equal(t, 3, totals.ItemCount)
	assert.True(t, totals.Amount.Equal(decimal.RequireFromString("0.30")))
}
