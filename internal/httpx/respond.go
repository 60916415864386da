package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/katapi/katapi/internal/catalog"
	"github.com/katapi/katapi/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeDomainError maps core errors onto HTTP codes. The mapping lives here
// so the core packages never see status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrNameTooShort), errors.Is(err, catalog.ErrNegativeValue):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
