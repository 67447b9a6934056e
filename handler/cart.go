package handler

import (
	"net/http"

	"shop-backend/service"
)

type cartItemReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateCart handles POST /api/createCart
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	c, err := h.svc.CreateCart(r.Context(), userID)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddToCart handles POST /api/addToCart/{cartId}
// body: { "productId": 1, "quantity": 2 }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "cartId")
	if !ok {
		return
	}
	var req cartItemReq
	if !decode(w, r, &req) {
		return
	}
	userID, _ := UserIDFrom(r.Context())
	c, err := h.svc.AddItem(r.Context(), service.AddItemRequest{
		UserID:    userID,
		CartID:    cartID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ViewCart handles GET /api/cart/{cartId}
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "cartId")
	if !ok {
		return
	}
	userID, _ := UserIDFrom(r.Context())
	c, err := h.svc.GetCart(r.Context(), userID, cartID)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveFromCart handles POST /api/removeFromCart/{cartId}
// body: { "productId": 1 }
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "cartId")
	if !ok {
		return
	}
	var req cartItemReq
	if !decode(w, r, &req) {
		return
	}
	userID, _ := UserIDFrom(r.Context())
	if err := h.svc.RemoveItem(r.Context(), userID, cartID, req.ProductID); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type wishlistReq struct {
	ProductID int64 `json:"productId"`
}

// AddToWishlist handles POST /api/addToWishlist
// body: { "productId": 1 }
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistReq
	if !decode(w, r, &req) {
		return
	}
	if req.ProductID == 0 {
		badRequest(w, "productId is required")
		return
	}
	userID, _ := UserIDFrom(r.Context())
	if err := h.svc.AddToWishlist(r.Context(), userID, req.ProductID); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// Wishlist handles GET /api/wishlist
func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())
	ps, err := h.svc.Wishlist(r.Context(), userID)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}
