package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/auth"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/cart"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/domain"
	"github.com/Gurusaiprasadreddy/Canteen-Management-System-Campus-Bites/internal/menu"
)

type stubCartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *stubCartRepo) GetCart(_ context.Context, studentID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[studentID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	copied := *c
	copied.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &copied, nil
}

func (r *stubCartRepo) UpsertCart(_ context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	copied.Lines = append([]domain.CartLine(nil), c.Lines...)
	r.carts[c.StudentID] = &copied
	return nil
}

func (r *stubCartRepo) DeleteCart(_ context.Context, studentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, studentID)
	return nil
}

type stubCache struct{}

func (stubCache) Get(context.Context, string) (*domain.Cart, error) { return nil, cart.ErrCacheMiss }
func (stubCache) Set(context.Context, string, *domain.Cart) error   { return nil }
func (stubCache) Delete(context.Context, string) error              { return nil }

type stubMenuRepo struct {
	items map[string]*domain.MenuItem
}

func (r *stubMenuRepo) ListCanteens(context.Context) ([]*domain.Canteen, error) { return nil, nil }
func (r *stubMenuRepo) GetCanteen(context.Context, string) (*domain.Canteen, error) {
	return nil, menu.ErrCanteenNotFound
}
func (r *stubMenuRepo) ListMenu(context.Context, string) ([]*domain.MenuItem, error) {
	return nil, nil
}
func (r *stubMenuRepo) ListAvailable(_ context.Context, canteenID string) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, item := range r.items {
		if item.Available && (canteenID == "" || item.CanteenID == canteenID) {
			out = append(out, item)
		}
	}
	return out, nil
}
func (r *stubMenuRepo) GetItem(_ context.Context, itemID string) (*domain.MenuItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, menu.ErrItemNotFound
	}
	return item, nil
}
func (r *stubMenuRepo) CreateItem(context.Context, *domain.MenuItem) error { return nil }
func (r *stubMenuRepo) UpdateItem(context.Context, string, domain.MenuItemUpdate) error {
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func studentToken(t *testing.T, issuer *auth.TokenIssuer, userID string) string {
	t.Helper()
	token, err := issuer.Issue(&domain.User{ID: userID, Role: domain.RoleStudent})
	require.NoError(t, err)
	return token
}

func cartTestRouter(t *testing.T, menuItems map[string]*domain.MenuItem) (chi.Router, *auth.TokenIssuer) {
	t.Helper()
	cartSvc := cart.NewService(newStubCartRepo(), stubCache{}, quietLogger())
	handler := NewCartHandler(cartSvc, &stubMenuRepo{items: menuItems})
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware)
		r.Use(auth.RequireRole(domain.RoleStudent))
		r.Get("/cart", handler.GetCart)
		r.Post("/cart/items", handler.AddItem)
		r.Put("/cart/items/{item_id}", handler.UpdateQuantity)
		r.Delete("/cart/items/{item_id}", handler.RemoveItem)
		r.Delete("/cart", handler.ClearCart)
	})
	return r, issuer
}

func doJSON(t *testing.T, router chi.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddItem_ResolvesMenuItemServerSide(t *testing.T) {
	items := map[string]*domain.MenuItem{
		"item_1": {
			ID: "item_1", Name: "Masala Dosa", CanteenID: "canteen_1",
			Price: 60, Available: true,
			Nutrition: domain.Nutrition{Calories: 380, Protein: 8},
		},
	}
	router, issuer := cartTestRouter(t, items)
	token := studentToken(t, issuer, "stu_1")

	rec := doJSON(t, router, http.MethodPost, "/cart/items", token,
		AddItemRequestDTO{ItemID: "item_1", Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "item_1", got.Lines[0].ItemID)
	assert.Equal(t, "Masala Dosa", got.Lines[0].Name)
	assert.Equal(t, 60.0, got.Lines[0].Price)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, 380, got.Lines[0].Nutrition.Calories)
}

func TestAddItem_UnknownItem(t *testing.T) {
	router, issuer := cartTestRouter(t, nil)
	token := studentToken(t, issuer, "stu_1")

	rec := doJSON(t, router, http.MethodPost, "/cart/items", token,
		AddItemRequestDTO{ItemID: "item_missing", Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Code)
}

func TestAddItem_UnavailableItem(t *testing.T) {
	items := map[string]*domain.MenuItem{
		"item_1": {ID: "item_1", Name: "Sold Out Special", CanteenID: "canteen_1", Available: false},
	}
	router, issuer := cartTestRouter(t, items)
	token := studentToken(t, issuer, "stu_1")

	rec := doJSON(t, router, http.MethodPost, "/cart/items", token,
		AddItemRequestDTO{ItemID: "item_1", Quantity: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddItem_CanteenMismatch(t *testing.T) {
	items := map[string]*domain.MenuItem{
		"item_1": {ID: "item_1", Name: "Dosa", CanteenID: "canteen_1", Available: true},
		"item_2": {ID: "item_2", Name: "Momos", CanteenID: "canteen_2", Available: true},
	}
	router, issuer := cartTestRouter(t, items)
	token := studentToken(t, issuer, "stu_1")

	rec := doJSON(t, router, http.MethodPost, "/cart/items", token,
		AddItemRequestDTO{ItemID: "item_1", Quantity: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/cart/items", token,
		AddItemRequestDTO{ItemID: "item_2", Quantity: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "canteen_mismatch", resp.Code)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	router, issuer := cartTestRouter(t, nil)
	token := studentToken(t, issuer, "stu_1")

	for _, qty := range []int{0, -1, 100} {
		rec := doJSON(t, router, http.MethodPost, "/cart/items", token,
			AddItemRequestDTO{ItemID: "item_1", Quantity: qty})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "quantity %d", qty)
	}
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	items := map[string]*domain.MenuItem{
		"item_1": {ID: "item_1", Name: "Dosa", CanteenID: "canteen_1", Available: true},
	}
	router, issuer := cartTestRouter(t, items)
	token := studentToken(t, issuer, "stu_1")

	rec := doJSON(t, router, http.MethodPost, "/cart/items", token,
		AddItemRequestDTO{ItemID: "item_1", Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/cart/items/item_1", token,
		UpdateQuantityRequestDTO{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Lines)
}

func TestClearCart(t *testing.T) {
	items := map[string]*domain.MenuItem{
		"item_1": {ID: "item_1", Name: "Dosa", CanteenID: "canteen_1", Available: true},
	}
	router, issuer := cartTestRouter(t, items)
	token := studentToken(t, issuer, "stu_1")

	doJSON(t, router, http.MethodPost, "/cart/items", token,
		AddItemRequestDTO{ItemID: "item_1", Quantity: 1})

	rec := doJSON(t, router, http.MethodDelete, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Lines)
}

func TestCartRoutes_RequireAuth(t *testing.T) {
	router, issuer := cartTestRouter(t, nil)

	rec := doJSON(t, router, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	crewToken, err := issuer.Issue(&domain.User{ID: "crew_1", Role: domain.RoleCrew, CanteenID: "canteen_1"})
	require.NoError(t, err)
	rec = doJSON(t, router, http.MethodGet, "/cart", crewToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
