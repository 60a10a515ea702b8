package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/creastat/storefront"
	"github.com/creastat/storefront/auth"
	"github.com/creastat/storefront/cart"
	"github.com/creastat/storefront/catalog"
)

// Catalog is the slice of the catalog service the controller uses.
type Catalog interface {
	Products() []catalog.Product
	Product(productID int64) (catalog.Product, bool)
	Rename(ctx context.Context, productID int64, newName string) error
}

// Cart is the slice of the cart service the controller uses.
type Cart interface {
	Lines() []cart.Line
	AddItem(ctx context.Context, productID int64, quantity int) error
	RemoveItem(ctx context.Context, productID int64, quantity int) error
}

// Sessions is the slice of the session store the controller uses.
type Sessions interface {
	Current() *auth.Session
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

// Renderer is the rendering adapter. The controller pushes a fresh model
// after every state change.
type Renderer interface {
	Render(Model)
}

// Controller wires user intents to the services and re-renders. Its only
// owned state is transient UI mode: per-card edit state, the cart panel
// flag, the initial-load error panel and the last notice.
type Controller struct {
	sessions Sessions
	catalog  Catalog
	cart     Cart
	renderer Renderer
	logger   *slog.Logger

	mu            sync.Mutex
	editing       map[int64]EditState
	cartOpen      bool
	catalogLoaded bool
	catalogErr    string
	notice        string
}

// Option is a functional option for configuring a Controller.
type Option func(*Controller)

// WithLogger sets the logger used by the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a view controller.
func NewController(sessions Sessions, cat Catalog, crt Cart, renderer Renderer, opts ...Option) *Controller {
	c := &Controller{
		sessions: sessions,
		catalog:  cat,
		cart:     crt,
		renderer: renderer,
		logger:   slog.Default(),
		editing:  make(map[int64]EditState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartEdit switches a product card from viewing to editing, capturing the
// displayed name so cancel can restore it exactly. Purely local.
func (c *Controller) StartEdit(productID int64) {
	if c.sessions.Current() == nil {
		return
	}
	p, ok := c.catalog.Product(productID)
	if !ok {
		return
	}

	c.mu.Lock()
	c.editing[productID] = EditState{Original: p.Name, Draft: p.Name}
	c.notice = ""
	c.mu.Unlock()

	c.render()
}

// SetDraft updates the draft name of a card in edit mode. Purely local.
func (c *Controller) SetDraft(productID int64, draft string) {
	c.mu.Lock()
	es, ok := c.editing[productID]
	if ok {
		es.Draft = draft
		c.editing[productID] = es
	}
	c.mu.Unlock()

	if ok {
		c.render()
	}
}

// CancelEdit returns a card to viewing with its pre-edit name. No network
// call is made.
func (c *Controller) CancelEdit(productID int64) {
	c.mu.Lock()
	delete(c.editing, productID)
	c.notice = ""
	c.mu.Unlock()

	c.render()
}

// SaveEdit submits the draft name. On success the card returns to viewing
// with refreshed data; on failure it stays in edit mode and the failure is
// surfaced as a notice.
func (c *Controller) SaveEdit(ctx context.Context, productID int64) error {
	c.mu.Lock()
	es, ok := c.editing[productID]
	c.notice = ""
	c.mu.Unlock()
	if !ok {
		return nil
	}

	if err := c.catalog.Rename(ctx, productID, es.Draft); err != nil {
		c.fail(err, map[error]string{
			storefront.ErrValidation: "Name cannot be empty.",
			storefront.ErrAuth:       "You must be logged in to edit.",
			storefront.ErrFetch:      "Error updating product.",
		})
		return err
	}

	c.mu.Lock()
	delete(c.editing, productID)
	c.mu.Unlock()

	c.render()
	return nil
}

// ToggleCart opens or closes the cart panel. Pure UI state.
func (c *Controller) ToggleCart() {
	c.mu.Lock()
	c.cartOpen = !c.cartOpen
	c.mu.Unlock()

	c.render()
}

// AddToCart adds one unit of the product to the cart. Without a session the
// intent is routed to the login affordance rather than dropped.
func (c *Controller) AddToCart(ctx context.Context, productID int64) error {
	c.clearNotice()
	if err := c.cart.AddItem(ctx, productID, 1); err != nil {
		c.fail(err, map[error]string{
			storefront.ErrAuth:  "Please log in to add items to your cart.",
			storefront.ErrFetch: "Error updating cart.",
		})
		return err
	}
	c.render()
	return nil
}

// RemoveFromCart removes one unit of the product from the cart.
func (c *Controller) RemoveFromCart(ctx context.Context, productID int64) error {
	c.clearNotice()
	if err := c.cart.RemoveItem(ctx, productID, 1); err != nil {
		c.fail(err, map[error]string{
			storefront.ErrAuth:  "Please log in to manage your cart.",
			storefront.ErrFetch: "Error updating cart.",
		})
		return err
	}
	c.render()
	return nil
}

// SignIn submits credentials from the login affordance.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	c.clearNotice()
	if err := c.sessions.SignIn(ctx, email, password); err != nil {
		c.fail(err, map[error]string{
			storefront.ErrValidation: "Please enter email and password.",
			storefront.ErrAuth:       "Login failed.",
		})
		return err
	}
	return nil
}

// SignUp registers a new account.
func (c *Controller) SignUp(ctx context.Context, email, password string) error {
	c.clearNotice()
	if err := c.sessions.SignUp(ctx, email, password); err != nil {
		c.fail(err, map[error]string{
			storefront.ErrValidation: "Please enter email and password.",
		})
		return err
	}

	c.mu.Lock()
	c.notice = "Registration successful! Please check your email."
	c.mu.Unlock()
	c.render()
	return nil
}

// SignOut signs the current user out.
func (c *Controller) SignOut(ctx context.Context) error {
	c.clearNotice()
	if err := c.sessions.SignOut(ctx); err != nil {
		c.fail(err, nil)
		return err
	}
	return nil
}

// CatalogRefreshed reports a successful catalog refresh and re-renders.
func (c *Controller) CatalogRefreshed() {
	c.mu.Lock()
	c.catalogLoaded = true
	c.catalogErr = ""
	c.mu.Unlock()

	c.render()
}

// CatalogFailed reports a failed catalog refresh. Before the first
// successful load the error panel replaces the content; afterwards the
// last-known-good catalog stays up and the failure becomes a notice.
func (c *Controller) CatalogFailed(err error) {
	c.mu.Lock()
	if c.catalogLoaded {
		c.notice = "Error loading products."
	} else {
		c.catalogErr = err.Error()
	}
	c.mu.Unlock()

	c.render()
}

// Rerender pushes a fresh model without changing any state. The app calls
// this after cart refreshes and session transitions.
func (c *Controller) Rerender() {
	c.render()
}

func (c *Controller) clearNotice() {
	c.mu.Lock()
	c.notice = ""
	c.mu.Unlock()
}

// fail maps a service error onto a user-visible notice and re-renders.
func (c *Controller) fail(err error, notices map[error]string) {
	msg := err.Error()
	for sentinel, text := range notices {
		if errors.Is(err, sentinel) {
			msg = text
			break
		}
	}

	c.logger.Warn("user action failed", "error", err)

	c.mu.Lock()
	c.notice = msg
	c.mu.Unlock()

	c.render()
}

func (c *Controller) render() {
	c.mu.Lock()
	ui := UIState{
		Editing:      make(map[int64]EditState, len(c.editing)),
		CartOpen:     c.cartOpen,
		CatalogError: c.catalogErr,
		Notice:       c.notice,
	}
	for id, es := range c.editing {
		ui.Editing[id] = es
	}
	c.mu.Unlock()

	c.renderer.Render(Derive(c.sessions.Current(), c.catalog.Products(), c.cart.Lines(), ui))
}
