package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/katapi/katapi/internal/catalog"
)

type ProductReq struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Weight float64 `json:"weight"`
}

type ProductsHandler struct {
	Store catalog.Store
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Post("/products", h.create)
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Create(ctx, req.Name, req.Price, req.Weight)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// unknown sort keys fall through to insertion order
	ps, err := h.Store.List(ctx, r.URL.Query().Get("sort_by"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ps == nil {
		ps = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.Update(ctx, chi.URLParam(r, "id"), req.Name, req.Price, req.Weight)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// delete is a silent no-op for unknown ids, like the store underneath.
func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
