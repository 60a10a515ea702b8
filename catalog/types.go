package catalog

import "github.com/shopspring/decimal"

// Product is a single catalog entry. Products are immutable from the
// client's perspective except via an explicit rename, and are rebuilt
// wholesale on every refresh.
type Product struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategoryName string          `json:"category_name"`
}
