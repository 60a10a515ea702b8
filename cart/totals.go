package cart

import "github.com/shopspring/decimal"

// Totals are the derived cart summary. They are recomputed from the line
// sequence on every use and never stored, so they cannot desynchronize from
// the lines.
type Totals struct {
	ItemCount int
	Amount    decimal.Decimal
}

// ComputeTotals derives the item count and total amount from a line
// sequence.
func ComputeTotals(lines []Line) Totals {
	t := Totals{Amount: decimal.Zero}
	for _, l := range lines {
		t.ItemCount += l.Quantity
		t.Amount = t.Amount.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return t
}
