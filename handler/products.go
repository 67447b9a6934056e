package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	models "shop-backend/model"
	"shop-backend/service"
)

// AddProduct handles POST /api/addProduct
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProductRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.CreateProduct(r.Context(), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ListProducts handles GET /api/listProduct
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// ViewProduct handles GET /api/viewProduct/{id}
func (h *Handler) ViewProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProduct handles PUT /api/updateProduct/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.UpdateProductRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/deleteProduct/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// FilterProductByName handles GET /api/filterProductByName?name=...
func (h *Handler) FilterProductByName(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.FindByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeList(w, ps, "no products match that name")
}

// ProductsByCategory handles GET /api/productsByCategory/{category}
func (h *Handler) ProductsByCategory(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.FindByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeList(w, ps, "no products in that category")
}

// TopRatedProducts handles GET /api/topRatedProducts?limit=n
func (h *Handler) TopRatedProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	ps, err := h.svc.TopRated(r.Context(), limit)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeList(w, ps, "no rated products yet")
}

type buyReq struct {
	Quantity int `json:"quantity"`
}

// BuyProduct handles POST /api/buyProduct/{id}
// body: { "quantity": 2 }
func (h *Handler) BuyProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req buyReq
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Purchase(r.Context(), service.PurchaseRequest{ProductID: id, Quantity: req.Quantity})
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type rateReq struct {
	Rating int `json:"rating"`
}

// RateProduct handles POST /api/rateProduct/{id}
// body: { "rating": 4 }
func (h *Handler) RateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req rateReq
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.Rate(r.Context(), service.RateRequest{ProductID: id, Rating: req.Rating})
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updateStockReq struct {
	Stock *int `json:"stock"`
}

// UpdateStock handles PUT /api/updateStock/{id}
// body: { "stock": 10 }
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateStockReq
	if !decode(w, r, &req) {
		return
	}
	if req.Stock == nil {
		badRequest(w, "stock is required")
		return
	}
	p, err := h.svc.SetStock(r.Context(), id, *req.Stock)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// writeList answers 404 for an empty result.
func writeList(w http.ResponseWriter, ps []service.ProductDTO, empty string) {
	if len(ps) == 0 {
		writeErr(w, http.StatusNotFound, models.Kind(models.ErrNotFound), empty)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}
