package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/katapi/katapi/internal/orders"
	"github.com/katapi/katapi/internal/redisx"
)

type OrderReq struct {
	Lines  []orders.Line `json:"lines"`
	Status orders.Status `json:"status"`
}

// OrdersHandler exposes the order lifecycle. Redis may be nil; the status
// cache is then skipped.
type OrdersHandler struct {
	Service *orders.Service
	Redis   *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Get("/orders/{id}/status", h.status)
	r.Put("/orders/{id}", h.update)
	r.Delete("/orders/{id}", h.delete)
}

// badLines rejects requests the pricing engine should never see: every line
// needs a product reference and a positive quantity.
func badLines(lines []orders.Line) string {
	if len(lines) == 0 {
		return "lines are required"
	}
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			return "product_id and positive quantity are required"
		}
	}
	return ""
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req OrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := badLines(req.Lines); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Create(ctx, req.Lines, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	os, err := h.Service.List(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if os == nil {
		os = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, os)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

// status serves the order status from the Redis cache when possible and
// falls back to the store, refilling the cache on the way out.
func (h *OrdersHandler) status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	o, err := h.Service.Get(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	body, _ := json.Marshal(map[string]any{"status": o.Status})
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req OrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if msg := badLines(req.Lines); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Service.Update(ctx, chi.URLParam(r, "id"), req.Lines, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(ctx, id); err != nil {
		writeDomainError(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, id)).Err()
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

// cacheStatus refreshes the status cache; best effort, errors dropped.
func (h *OrdersHandler) cacheStatus(ctx context.Context, o orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}
