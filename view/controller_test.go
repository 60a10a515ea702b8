package view

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/storefront"
	"github.com/creastat/storefront/auth"
	"github.com/creastat/storefront/cart"
	"github.com/creastat/storefront/catalog"
)

type fakeRenderer struct {
	models []Model
}

func (r *fakeRenderer) Render(m Model) {
	r.models = append(r.models, m)
}

func (r *fakeRenderer) last(t *testing.T) Model {
	t.Helper()
	require.NotEmpty(t, r.models)
	return r.models[len(r.models)-1]
}

type fakeCatalog struct {
	products    []catalog.Product
	renameErr   error
	renameCalls int
}

func (f *fakeCatalog) Products() []catalog.Product {
	out := make([]catalog.Product, len(f.products))
	copy(out, f.products)
	return out
}

func (f *fakeCatalog) Product(productID int64) (catalog.Product, bool) {
	for _, p := range f.products {
		if p.ProductID == productID {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (f *fakeCatalog) Rename(ctx context.Context, productID int64, newName string) error {
	f.renameCalls++
	if f.renameErr != nil {
		return f.renameErr
	}
	for i := range f.products {
		if f.products[i].ProductID == productID {
			f.products[i].Name = newName
		}
	}
	return nil
}

type fakeCart struct {
	lines       []cart.Line
	addErr      error
	removeErr   error
	addCalls    int
	removeCalls int
}

func (f *fakeCart) Lines() []cart.Line {
	out := make([]cart.Line, len(f.lines))
	copy(out, f.lines)
	return out
}

func (f *fakeCart) AddItem(ctx context.Context, productID int64, quantity int) error {
	f.addCalls++
	return f.addErr
}

func (f *fakeCart) RemoveItem(ctx context.Context, productID int64, quantity int) error {
	f.removeCalls++
	return f.removeErr
}

type fakeSessions struct {
	session    *auth.Session
	signInErr  error
	signUpErr  error
	signOutErr error
}

func (f *fakeSessions) Current() *auth.Session { return f.session }

func (f *fakeSessions) SignIn(ctx context.Context, email, password string) error {
	if f.signInErr == nil {
		f.session = activeSession()
	}
	return f.signInErr
}

func (f *fakeSessions) SignUp(ctx context.Context, email, password string) error {
	return f.signUpErr
}

func (f *fakeSessions) SignOut(ctx context.Context) error {
	if f.signOutErr == nil {
		f.session = nil
	}
	return f.signOutErr
}

func activeSession() *auth.Session {
	return &auth.Session{
		UserID:      uuid.New(),
		Email:       "shopper@example.com",
		AccessToken: "token-1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func fixture(signedIn bool) (*Controller, *fakeCatalog, *fakeCart, *fakeSessions, *fakeRenderer) {
	cat := &fakeCatalog{products: []catalog.Product{
		{ProductID: 3, Name: "Gadget", Price: decimal.RequireFromString("19.99"), Stock: 100},
	}}
	crt := &fakeCart{}
	sessions := &fakeSessions{}
	if signedIn {
		sessions.session = activeSession()
	}
	renderer := &fakeRenderer{}
	return NewController(sessions, cat, crt, renderer), cat, crt, sessions, renderer
}

func TestController_CancelEditIsLocal(t *testing.T) {
	ctrl, cat, _, _, renderer := fixture(true)

	ctrl.StartEdit(3)
	ctrl.SetDraft(3, "Temp")

	m := renderer.last(t)
	require.Len(t, m.Cards, 1)
	assert.True(t, m.Cards[0].Editing)
	assert.Equal(t, "Gadget", m.Cards[0].Name)
	assert.Equal(t, "Temp", m.Cards[0].Draft)

	ctrl.CancelEdit(3)

	m = renderer.last(t)
	require.Len(t, m.Cards, 1)
	assert.False(t, m.Cards[0].Editing)
	assert.Equal(t, "Gadget", m.Cards[0].Name)
	assert.Zero(t, cat.renameCalls)
}

func TestController_StartEditRequiresSession(t *testing.T) {
	ctrl, _, _, _, renderer := fixture(false)

	ctrl.StartEdit(3)

	assert.Empty(t, renderer.models)
}

func TestController_StartEditUnknownProduct(t *testing.T) {
	ctrl, _, _, _, renderer := fixture(true)

	ctrl.StartEdit(99)

	assert.Empty(t, renderer.models)
}

func TestController_SaveEdit(t *testing.T) {
	ctrl, cat, _, _, renderer := fixture(true)
	ctx := context.Background()

	ctrl.StartEdit(3)
	ctrl.SetDraft(3, "Widget")
	require.NoError(t, ctrl.SaveEdit(ctx, 3))

	assert.Equal(t, 1, cat.renameCalls)
	m := renderer.last(t)
	require.Len(t, m.Cards, 1)
	assert.False(t, m.Cards[0].Editing)
	assert.Equal(t, "Widget", m.Cards[0].Name)
}

func TestController_SaveEditValidationFailureStaysEditing(t *testing.T) {
	ctrl, cat, _, _, renderer := fixture(true)
	cat.renameErr = fmt.Errorf("name cannot be empty: %w", storefront.ErrValidation)
	ctx := context.Background()

	ctrl.StartEdit(3)
	ctrl.SetDraft(3, "")
	err := ctrl.SaveEdit(ctx, 3)

	require.ErrorIs(t, err, storefront.ErrValidation)
	m := renderer.last(t)
	assert.Equal(t, "Name cannot be empty.", m.Notice)
	require.Len(t, m.Cards, 1)
	assert.True(t, m.Cards[0].Editing)
}

func TestController_SaveEditWithoutEditState(t *testing.T) {
	ctrl, cat, _, _, _ := fixture(true)

	require.NoError(t, ctrl.SaveEdit(context.Background(), 3))
	assert.Zero(t, cat.renameCalls)
}

func TestController_AddToCartRoutesToLogin(t *testing.T) {
	ctrl, _, crt, _, renderer := fixture(false)
	crt.addErr = fmt.Errorf("add to cart: %w", storefront.ErrAuth)

	err := ctrl.AddToCart(context.Background(), 3)

	require.ErrorIs(t, err, storefront.ErrAuth)
	m := renderer.last(t)
	assert.Equal(t, "Please log in to add items to your cart.", m.Notice)
}

func TestController_AddToCart(t *testing.T) {
	ctrl, _, crt, _, renderer := fixture(true)
	crt.lines = []cart.Line{
		{ProductID: 3, ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("19.99")},
	}

	require.NoError(t, ctrl.AddToCart(context.Background(), 3))

	assert.Equal(t, 1, crt.addCalls)
	m := renderer.last(t)
	assert.Equal(t, 1, m.Cart.ItemCount)
	assert.Empty(t, m.Notice)
}

func TestController_RemoveFromCart(t *testing.T) {
	ctrl, _, crt, _, renderer := fixture(true)

	require.NoError(t, ctrl.RemoveFromCart(context.Background(), 3))

	assert.Equal(t, 1, crt.removeCalls)
	assert.Empty(t, renderer.last(t).Notice)
}

func TestController_ToggleCart(t *testing.T) {
	ctrl, _, _, _, renderer := fixture(true)

	ctrl.ToggleCart()
	assert.True(t, renderer.last(t).Cart.Open)

	ctrl.ToggleCart()
	assert.False(t, renderer.last(t).Cart.Open)
}

func TestController_SignInFailureNotice(t *testing.T) {
	ctrl, _, _, sessions, renderer := fixture(false)
	sessions.signInErr = fmt.Errorf("sign in: %w: bad credentials", storefront.ErrAuth)

	err := ctrl.SignIn(context.Background(), "shopper@example.com", "wrong")

	require.ErrorIs(t, err, storefront.ErrAuth)
	assert.Equal(t, "Login failed.", renderer.last(t).Notice)
}

func TestController_SignUpNotice(t *testing.T) {
	ctrl, _, _, _, renderer := fixture(false)

	require.NoError(t, ctrl.SignUp(context.Background(), "new@example.com", "hunter2"))

	assert.Equal(t, "Registration successful! Please check your email.", renderer.last(t).Notice)
}

func TestController_CatalogErrorPanelOnlyBeforeFirstLoad(t *testing.T) {
	ctrl, _, _, _, renderer := fixture(false)

	ctrl.CatalogFailed(errors.New("connection reset"))
	m := renderer.last(t)
	assert.Contains(t, m.CatalogError, "connection reset")

	ctrl.CatalogRefreshed()
	m = renderer.last(t)
	assert.Empty(t, m.CatalogError)

	// After a successful load, later failures keep the stale catalog and
	// surface as a notice instead.
	ctrl.CatalogFailed(errors.New("connection reset"))
	m = renderer.last(t)
	assert.Empty(t, m.CatalogError)
	assert.Equal(t, "Error loading products.", m.Notice)
}
