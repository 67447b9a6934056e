package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "shop-backend/model"
	"shop-backend/service"
	"shop-backend/store"
)

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.NewMemoryStore()
	svc := service.NewService(st, service.WithTokens("handler-secret", time.Hour))
	return &testServer{t: t, router: NewRouter(NewHandler(svc, st), zerolog.Nop())}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	pw := "Passw0rd!"
	rec := s.do(http.MethodPost, "/api/signup", "", map[string]string{
		"username": "tester", "email": email, "password": pw, "confirmPassword": pw,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": pw})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeBody[service.LoginResult](s.t, rec).Token
}

func (s *testServer) addProduct(name string, price float64, stock int) service.ProductDTO {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/addProduct", "", map[string]any{
		"name": name, "category": "tools", "price": price, "stock": stock,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[service.ProductDTO](s.t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductRoutes(t *testing.T) {
	s := newTestServer(t)
	p := s.addProduct("Hammer", 12.5, 3)

	rec := s.do(http.MethodGet, fmt.Sprintf("/api/viewProduct/%d", p.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hammer", decodeBody[service.ProductDTO](t, rec).Name)

	rec = s.do(http.MethodGet, "/api/viewProduct/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/viewProduct/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[errorBody](t, rec).Error)

	rec = s.do(http.MethodGet, "/api/filterProductByName?name=hamm", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]service.ProductDTO](t, rec), 1)

	rec = s.do(http.MethodGet, "/api/filterProductByName?name=saw", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/productsByCategory/tools", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/updateProduct/%d", p.ID), "", map[string]any{"price": "15.00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "15", decodeBody[service.ProductDTO](t, rec).Price.String())

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/deleteProduct/%d", p.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/listProduct", "", nil)
	assert.Empty(t, decodeBody[[]service.ProductDTO](t, rec))
}

func TestBuyAndRateRoutes(t *testing.T) {
	s := newTestServer(t)
	p := s.addProduct("Saw", 20, 5)

	rec := s.do(http.MethodGet, "/api/topRatedProducts", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "no rated products yet")

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/buyProduct/%d", p.ID), "", map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeBody[service.PurchaseResult](t, rec).Stock)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/buyProduct/%d", p.ID), "", map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeBody[errorBody](t, rec).Error)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/rateProduct/%d", p.ID), "", map[string]int{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeBody[errorBody](t, rec).Error)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/rateProduct/%d", p.ID), "", map[string]int{"rating": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/topRatedProducts?limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	top := decodeBody[[]service.ProductDTO](t, rec)
	require.Len(t, top, 1)
	require.NotNil(t, top[0].AverageRating)
	assert.Equal(t, 4.0, *top[0].AverageRating)

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/updateStock/%d", p.ID), "", map[string]int{"stock": 9})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, decodeBody[service.ProductDTO](t, rec).Stock)

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/updateStock/%d", p.ID), "", map[string]int{"stock": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/createCart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/wishlist", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeBody[errorBody](t, rec).Error)

	rec = s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "ghost@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAndWishlistRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login("buyer@example.com")
	other := s.login("other@example.com")
	p := s.addProduct("Drill", 50, 1)

	rec := s.do(http.MethodPost, "/api/createCart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decodeBody[service.CartView](t, rec)

	rec = s.do(http.MethodPost, "/api/createCart", token, nil)
	assert.Equal(t, cart.ID, decodeBody[service.CartView](t, rec).ID)

	addPath := fmt.Sprintf("/api/addToCart/%d", cart.ID)
	s.do(http.MethodPost, addPath, token, map[string]any{"productId": p.ID, "quantity": 2})
	rec = s.do(http.MethodPost, addPath, token, map[string]any{"productId": p.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeBody[service.CartView](t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, "250", view.Total.String())

	rec = s.do(http.MethodPost, addPath, token, map[string]any{"productId": p.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/cart/%d", cart.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "foreign carts are hidden")

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/removeFromCart/%d", cart.ID), token, map[string]any{"productId": p.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/addToWishlist", token, map[string]any{"productId": p.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/addToWishlist", token, map[string]any{"productId": p.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeBody[errorBody](t, rec).Error)

	rec = s.do(http.MethodGet, "/api/wishlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]service.ProductDTO](t, rec), 1)
}

func TestCustomerRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login("staff@example.com")

	rec := s.do(http.MethodPost, "/api/addCustomer", token, map[string]string{"firstName": "Grace", "email": "grace@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := decodeBody[models.Customer](t, rec)

	rec = s.do(http.MethodPut, "/api/updateCustomer/"+c.ID, token, map[string]string{"firstName": "Grace", "lastName": "Hopper", "email": "grace@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hopper", decodeBody[models.Customer](t, rec).LastName)

	rec = s.do(http.MethodGet, "/api/listCustomers", token, nil)
	assert.Len(t, decodeBody[[]models.Customer](t, rec), 1)

	rec = s.do(http.MethodDelete, "/api/deleteCustomer/"+c.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/viewCustomer/"+c.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOversizedBodyIsRejected(t *testing.T) {
	s := newTestServer(t)

	big := map[string]string{"name": strings.Repeat("x", maxBodyBytes+1)}
	rec := s.do(http.MethodPost, "/api/addProduct", "", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeBody[errorBody](t, rec).Error)

	rec = s.do(http.MethodGet, "/api/listProduct", "", nil)
	assert.Empty(t, decodeBody[[]service.ProductDTO](t, rec), "nothing may be created from a truncated body")
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return models.ErrStorageUnavailable }

func TestHealthReportsStorageOutage(t *testing.T) {
	svc := service.NewService(store.NewMemoryStore())
	router := NewRouter(NewHandler(svc, failingPinger{}), zerolog.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		models.ErrNotFound:           http.StatusNotFound,
		models.ErrInvalidInput:       http.StatusBadRequest,
		models.ErrInsufficientStock:  http.StatusBadRequest,
		models.ErrAlreadyExists:      http.StatusBadRequest,
		models.ErrUnauthorized:       http.StatusUnauthorized,
		models.ErrConflict:           http.StatusConflict,
		models.ErrStorageUnavailable: http.StatusServiceUnavailable,
		errors.New("boom"):           http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(fmt.Errorf("wrapped: %w", err)), "%v", err)
	}
}
