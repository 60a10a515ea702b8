package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/storefront/auth"
	"github.com/creastat/storefront/cart"
	"github.com/creastat/storefront/catalog"
)

func session() *auth.Session {
	return &auth.Session{
		UserID:      uuid.New(),
		Email:       "shopper@example.com",
		AccessToken: "token-1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func product(id int64, name string, price string, stock int) catalog.Product {
	return catalog.Product{
		ProductID: id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
	}
}

func TestDerive_SignedOut(t *testing.T) {
	products := []catalog.Product{product(1, "Widget", "19.99", 100)}

	m := Derive(nil, products, nil, UIState{})

	assert.False(t, m.SignedIn)
	assert.Empty(t, m.Email)
	require.Len(t, m.Cards, 1)
	assert.False(t, m.Cards[0].Editable)
	assert.False(t, m.Cart.Visible)
}

func TestDerive_SignedIn(t *testing.T) {
	products := []catalog.Product{product(1, "Widget", "19.99", 100)}

	m := Derive(session(), products, nil, UIState{})

	assert.True(t, m.SignedIn)
	assert.Equal(t, "shopper@example.com", m.Email)
	require.Len(t, m.Cards, 1)
	assert.True(t, m.Cards[0].Editable)
	assert.True(t, m.Cart.Visible)
}

func TestDerive_CardFields(t *testing.T) {
	p := product(7, "Widget", "1234.5", 10)
	p.Description = "A fine widget"
	p.CategoryName = "Hardware"

	m := Derive(nil, []catalog.Product{p}, nil, UIState{})

	require.Len(t, m.Cards, 1)
	card := m.Cards[0]
	assert.Equal(t, int64(7), card.ProductID)
	assert.Equal(t, "Widget", card.Name)
	assert.Equal(t, "A fine widget", card.Description)
	assert.Equal(t, "Hardware", card.Category)
	assert.Equal(t, "$1,234.50", card.Price)
}

func TestDerive_CategoryFallback(t *testing.T) {
	m := Derive(nil, []catalog.Product{product(1, "Widget", "1.00", 10)}, nil, UIState{})

	require.Len(t, m.Cards, 1)
	assert.Equal(t, "Uncategorized", m.Cards[0].Category)
}

func TestDerive_LowStockThreshold(t *testing.T) {
	products := []catalog.Product{
		product(1, "Scarce", "1.00", 49),
		product(2, "Plenty", "1.00", 50),
	}

	m := Derive(nil, products, nil, UIState{})

	require.Len(t, m.Cards, 2)
	assert.True(t, m.Cards[0].LowStock)
	assert.False(t, m.Cards[1].LowStock)
}

func TestDerive_EditingCardShowsPreEditName(t *testing.T) {
	products := []catalog.Product{product(3, "Gadget", "1.00", 10)}
	ui := UIState{Editing: map[int64]EditState{
		3: {Original: "Gadget", Draft: "Temp"},
	}}

	m := Derive(session(), products, nil, ui)

	require.Len(t, m.Cards, 1)
	assert.True(t, m.Cards[0].Editing)
	assert.Equal(t, "Gadget", m.Cards[0].Name)
	assert.Equal(t, "Temp", m.Cards[0].Draft)
}

func TestDerive_EditStateIgnoredWhenSignedOut(t *testing.T) {
	products := []catalog.Product{product(3, "Gadget", "1.00", 10)}
	ui := UIState{Editing: map[int64]EditState{
		3: {Original: "Gadget", Draft: "Temp"},
	}}

	m := Derive(nil, products, nil, ui)

	require.Len(t, m.Cards, 1)
	assert.False(t, m.Cards[0].Editing)
	assert.Equal(t, "Gadget", m.Cards[0].Name)
}

func TestDerive_CartPanelTotals(t *testing.T) {
	lines := []cart.Line{
		{ProductID: 1, ProductName: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: 2, ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}

	m := Derive(session(), nil, lines, UIState{CartOpen: true})

	assert.True(t, m.Cart.Open)
	assert.Equal(t, 3, m.Cart.ItemCount)
	assert.Equal(t, "$25.00", m.Cart.Total)
	require.Len(t, m.Cart.Rows, 2)
	assert.Equal(t, "$20.00", m.Cart.Rows[0].LineTotal)
	assert.Equal(t, "$5.00", m.Cart.Rows[1].LineTotal)
}

func TestDerive_EmptyCartTotals(t *testing.T) {
	m := Derive(session(), nil, nil, UIState{})

	assert.Zero(t, m.Cart.ItemCount)
	assert.Equal(t, "$0.00", m.Cart.Total)
	assert.Empty(t, m.Cart.Rows)
}

func TestDerive_CartNeverOpenWhenSignedOut(t *testing.T) {
	m := Derive(nil, nil, nil, UIState{CartOpen: true})

	assert.False(t, m.Cart.Visible)
	assert.False(t, m.Cart.Open)
}

func TestDerive_PassesThroughErrorAndNotice(t *testing.T) {
	m := Derive(nil, nil, nil, UIState{CatalogError: "boom", Notice: "heads up"})

	assert.Equal(t, "boom", m.CatalogError)
	assert.Equal(t, "heads up", m.Notice)
}
