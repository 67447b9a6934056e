package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"shop-backend/service"
)

// Signup handles POST /api/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListCustomers handles GET /api/listCustomers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// ViewCustomer handles GET /api/viewCustomer/{id}
func (h *Handler) ViewCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddCustomer handles POST /api/addCustomer
func (h *Handler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.CreateCustomer(r.Context(), req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCustomer handles PUT /api/updateCustomer/{id}
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCustomer(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCustomer handles DELETE /api/deleteCustomer/{id}
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCustomer(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
