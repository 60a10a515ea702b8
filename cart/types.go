package cart

import "github.com/shopspring/decimal"

// Line is one cart entry, joined at fetch time with a denormalized snapshot
// of the product's name and price. A line always has quantity >= 1; removal
// deletes the line rather than zeroing it.
type Line struct {
	CartItemID  int64
	ProductID   int64
	Quantity    int
	UnitPrice   decimal.Decimal
	ProductName string
}
