package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/katapi/katapi/internal/billing"
)

type BillsHandler struct {
	Ledger billing.Ledger
}

func (h *BillsHandler) Register(r *chi.Mux) {
	r.Get("/bills", h.list)
}

func (h *BillsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	bs, err := h.Ledger.List(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bs == nil {
		bs = []billing.Bill{}
	}
	writeJSON(w, http.StatusOK, bs)
}
