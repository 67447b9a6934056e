package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	models "shop-backend/model"
	"shop-backend/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the HTTP layer that talks to service.ServiceInterface
type Handler struct {
	svc    service.ServiceInterface
	health Pinger
}

func NewHandler(s service.ServiceInterface, health Pinger) *Handler {
	return &Handler{svc: s, health: health}
}

// RegisterRoutes registers all routes under /api plus /health.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	auth := h.RequireAuth

	// Accounts
	api.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Customers
	api.Handle("/listCustomers", auth(http.HandlerFunc(h.ListCustomers))).Methods(http.MethodGet)
	api.Handle("/viewCustomer/{id}", auth(http.HandlerFunc(h.ViewCustomer))).Methods(http.MethodGet)
	api.Handle("/addCustomer", auth(http.HandlerFunc(h.AddCustomer))).Methods(http.MethodPost)
	api.Handle("/updateCustomer/{id}", auth(http.HandlerFunc(h.UpdateCustomer))).Methods(http.MethodPut)
	api.Handle("/deleteCustomer/{id}", auth(http.HandlerFunc(h.DeleteCustomer))).Methods(http.MethodDelete)

	// Products
	api.HandleFunc("/addProduct", h.AddProduct).Methods(http.MethodPost)
	api.HandleFunc("/listProduct", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/viewProduct/{id}", h.ViewProduct).Methods(http.MethodGet)
	api.HandleFunc("/updateProduct/{id}", h.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/deleteProduct/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	api.HandleFunc("/filterProductByName", h.FilterProductByName).Methods(http.MethodGet)
	api.HandleFunc("/productsByCategory/{category}", h.ProductsByCategory).Methods(http.MethodGet)
	api.HandleFunc("/topRatedProducts", h.TopRatedProducts).Methods(http.MethodGet)

	// Stock and ratings
	api.HandleFunc("/buyProduct/{id}", h.BuyProduct).Methods(http.MethodPost)
	api.HandleFunc("/rateProduct/{id}", h.RateProduct).Methods(http.MethodPost)
	api.HandleFunc("/updateStock/{id}", h.UpdateStock).Methods(http.MethodPut)

	// Wishlist
	api.Handle("/addToWishlist", auth(http.HandlerFunc(h.AddToWishlist))).Methods(http.MethodPost)
	api.Handle("/wishlist", auth(http.HandlerFunc(h.Wishlist))).Methods(http.MethodGet)

	// Cart
	api.Handle("/createCart", auth(http.HandlerFunc(h.CreateCart))).Methods(http.MethodPost)
	api.Handle("/addToCart/{cartId}", auth(http.HandlerFunc(h.AddToCart))).Methods(http.MethodPost)
	api.Handle("/cart/{cartId}", auth(http.HandlerFunc(h.ViewCart))).Methods(http.MethodGet)
	api.Handle("/removeFromCart/{cartId}", auth(http.HandlerFunc(h.RemoveFromCart))).Methods(http.MethodPost)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
			writeErr(w, http.StatusServiceUnavailable, models.Kind(models.ErrStorageUnavailable), "storage unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ---

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, errorBody{Error: kind, Message: msg})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceErr reports err to the client. Internal failures are logged
// and hidden behind a generic message.
func writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	kind := models.Kind(err)
	if code >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("kind", kind).Msg("request failed")
		if code == http.StatusInternalServerError {
			writeErr(w, code, kind, "internal server error")
			return
		}
	}
	writeErr(w, code, kind, err.Error())
}

func badRequest(w http.ResponseWriter, msg string) {
	writeErr(w, http.StatusBadRequest, models.Kind(models.ErrInvalidInput), msg)
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, models.Kind(models.ErrInvalidInput), "request body too large")
			return false
		}
		badRequest(w, "invalid json")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}
