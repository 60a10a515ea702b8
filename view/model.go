// Package view derives what the storefront displays from the session,
// catalog and cart state. Derivation is a pure function so the display
// logic is testable independent of any UI toolkit; Controller owns the
// transient UI state and talks to the services.
package view

import (
	"github.com/shopspring/decimal"

	"github.com/creastat/storefront"
	"github.com/creastat/storefront/auth"
	"github.com/creastat/storefront/cart"
	"github.com/creastat/storefront/catalog"
)

// Products with less stock than this are flagged for visual feedback.
const lowStockThreshold = 50

const fallbackCategory = "Uncategorized"

// EditState is the per-card edit state: the displayed value captured when
// editing began, and the user's draft.
type EditState struct {
	Original string
	Draft    string
}

// UIState is the transient, purely local display state. It carries no data
// of its own beyond mode flags and drafts.
type UIState struct {
	// Editing maps product IDs in edit mode to their edit state.
	Editing map[int64]EditState

	// CartOpen reports whether the cart panel is open.
	CartOpen bool

	// CatalogError is the error panel text shown in place of content when
	// the catalog has never loaded.
	CatalogError string

	// Notice is a blocking notice from the last user action.
	Notice string
}

// ProductCard is one rendered catalog entry.
type ProductCard struct {
	ProductID   int64
	Name        string
	Description string
	Category    string
	Price       string
	Stock       int
	LowStock    bool
	Editable    bool
	Editing     bool
	Draft       string
}

// CartRow is one rendered cart line.
type CartRow struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// CartPanel is the rendered cart. Totals are recomputed on every render.
type CartPanel struct {
	Visible   bool
	Open      bool
	Rows      []CartRow
	ItemCount int
	Total     string
}

// Model is everything the rendering adapter needs to draw the page.
type Model struct {
	SignedIn     bool
	Email        string
	Cards        []ProductCard
	Cart         CartPanel
	CatalogError string
	Notice       string
}

// Derive computes the render model from the three owned states and the
// transient UI state.
func Derive(sess *auth.Session, products []catalog.Product, lines []cart.Line, ui UIState) Model {
	signedIn := sess != nil

	m := Model{
		SignedIn:     signedIn,
		CatalogError: ui.CatalogError,
		Notice:       ui.Notice,
	}
	if signedIn {
		m.Email = sess.Email
	}

	m.Cards = make([]ProductCard, 0, len(products))
	for _, p := range products {
		card := ProductCard{
			ProductID:   p.ProductID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.CategoryName,
			Price:       storefront.FormatCurrency(p.Price),
			Stock:       p.Stock,
			LowStock:    p.Stock < lowStockThreshold,
			Editable:    signedIn,
		}
		if card.Category == "" {
			card.Category = fallbackCategory
		}
		if es, ok := ui.Editing[p.ProductID]; ok && signedIn {
			card.Name = es.Original
			card.Editing = true
			card.Draft = es.Draft
		}
		m.Cards = append(m.Cards, card)
	}

	totals := cart.ComputeTotals(lines)
	m.Cart = CartPanel{
		Visible:   signedIn,
		Open:      ui.CartOpen && signedIn,
		Rows:      make([]CartRow, 0, len(lines)),
		ItemCount: totals.ItemCount,
		Total:     storefront.FormatCurrency(totals.Amount),
	}
	for _, l := range lines {
		qty := decimalQuantity(l.Quantity)
		m.Cart.Rows = append(m.Cart.Rows, CartRow{
			ProductID: l.ProductID,
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			UnitPrice: storefront.FormatCurrency(l.UnitPrice),
			LineTotal: storefront.FormatCurrency(l.UnitPrice.Mul(qty)),
		})
	}

	return m
}

func decimalQuantity(q int) decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}
