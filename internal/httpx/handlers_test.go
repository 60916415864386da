package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katapi/katapi/internal/billing"
	"github.com/katapi/katapi/internal/catalog"
	"github.com/katapi/katapi/internal/orders"
)

func setupAPI(t *testing.T) http.Handler {
	t.Helper()
	store := catalog.NewMemoryStore()
	ledger := billing.NewMemoryLedger()
	svc := &orders.Service{
		Catalog:     store,
		Store:       orders.NewMemoryStore(),
		Ledger:      ledger,
		ServiceName: "katapi-test",
	}
	r := NewRouter()
	(&ProductsHandler{Store: store}).Register(r)
	(&OrdersHandler{Service: svc}).Register(r)
	(&BillsHandler{Ledger: ledger}).Register(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createProduct(t *testing.T, h http.Handler, name string, price, weight float64) catalog.Product {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/products", ProductReq{Name: name, Price: price, Weight: weight})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[catalog.Product](t, rec)
}

func TestHealthz(t *testing.T) {
	h := setupAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductCRUD(t *testing.T) {
	h := setupAPI(t)

	p := createProduct(t, h, "Laptopx", 1200.50, 2.5)
	assert.NotEmpty(t, p.ID)

	rec := doJSON(t, h, http.MethodGet, "/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.ID, decode[catalog.Product](t, rec).ID)

	rec = doJSON(t, h, http.MethodPut, "/products/"+p.ID, ProductReq{Name: "Laptopy", Price: 999.99, Weight: 2.0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Laptopy", decode[catalog.Product](t, rec).Name)

	rec = doJSON(t, h, http.MethodDelete, "/products/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/products/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// silent no-op delete maps to 200, not 404
	rec = doJSON(t, h, http.MethodDelete, "/products/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductValidation(t *testing.T) {
	h := setupAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/products", ProductReq{Name: "abc", Price: 1, Weight: 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/products", ProductReq{Name: "abcd", Price: 1, Weight: 1})
	assert.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProductListSorted(t *testing.T) {
	h := setupAPI(t)
	createProduct(t, h, "Bravo", 2.0, 1.0)
	createProduct(t, h, "Alpha", 1.0, 2.0)

	rec := doJSON(t, h, http.MethodGet, "/products?sort_by=name", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ps := decode[[]catalog.Product](t, rec)
	require.Len(t, ps, 2)
	assert.Equal(t, "Alpha", ps[0].Name)

	rec = doJSON(t, h, http.MethodGet, "/products?sort_by=bogus", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ps = decode[[]catalog.Product](t, rec)
	require.Len(t, ps, 2)
	assert.Equal(t, "Bravo", ps[0].Name)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	h := setupAPI(t)
	laptop := createProduct(t, h, "Laptopx", 1200.50, 2.5)
	phone := createProduct(t, h, "Phonexx", 800.00, 0.4)

	lines := []orders.Line{
		{ProductID: laptop.ID, Quantity: 1},
		{ProductID: phone.ID, Quantity: 2},
	}
	rec := doJSON(t, h, http.MethodPost, "/orders", OrderReq{Lines: lines})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o := decode[orders.Order](t, rec)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.InDelta(t, 2685.475, o.TotalAmount, 1e-9)
	assert.Equal(t, 25.0, o.ShipmentAmount)

	// no bill yet
	rec = doJSON(t, h, http.MethodGet, "/bills", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]billing.Bill](t, rec))

	// pay it
	rec = doJSON(t, h, http.MethodPut, "/orders/"+o.ID, OrderReq{Lines: lines, Status: orders.StatusPaid})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, orders.StatusPaid, decode[orders.Order](t, rec).Status)

	rec = doJSON(t, h, http.MethodGet, "/bills", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bills := decode[[]billing.Bill](t, rec)
	require.Len(t, bills, 1)
	assert.Equal(t, o.ID, bills[0].OrderID)
	assert.InDelta(t, 2685.475, bills[0].Amount, 1e-9)

	// pay again -> second bill
	rec = doJSON(t, h, http.MethodPut, "/orders/"+o.ID, OrderReq{Lines: lines, Status: orders.StatusPaid})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/bills", nil)
	assert.Len(t, decode[[]billing.Bill](t, rec), 2)

	// delete the order; bills stay
	rec = doJSON(t, h, http.MethodDelete, "/orders/"+o.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/orders/"+o.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/bills", nil)
	assert.Len(t, decode[[]billing.Bill](t, rec), 2)
}

func TestOrderRequestValidation(t *testing.T) {
	h := setupAPI(t)
	p := createProduct(t, h, "Widget", 10.0, 1.0)

	rec := doJSON(t, h, http.MethodPost, "/orders", OrderReq{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/orders", OrderReq{Lines: []orders.Line{{ProductID: p.ID, Quantity: 0}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/orders", OrderReq{Lines: []orders.Line{{ProductID: "missing", Quantity: 1}}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/orders/nope", OrderReq{Lines: []orders.Line{{ProductID: p.ID, Quantity: 1}}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderUpdateValidatesLinesLikeCreate(t *testing.T) {
	h := setupAPI(t)
	p := createProduct(t, h, "Widget", 10.0, 1.0)

	rec := doJSON(t, h, http.MethodPost, "/orders", OrderReq{Lines: []orders.Line{{ProductID: p.ID, Quantity: 1}}})
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decode[orders.Order](t, rec)

	// negative and zero quantities and empty product ids are rejected on
	// update just like on create
	for _, lines := range [][]orders.Line{
		{{ProductID: p.ID, Quantity: -5}},
		{{ProductID: p.ID, Quantity: 0}},
		{{ProductID: "", Quantity: 1}},
		nil,
	} {
		rec = doJSON(t, h, http.MethodPut, "/orders/"+o.ID, OrderReq{Lines: lines, Status: orders.StatusPending})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "lines=%v", lines)
	}

	// the stored order is untouched
	rec = doJSON(t, h, http.MethodGet, "/orders/"+o.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[orders.Order](t, rec)
	assert.Equal(t, o.TotalAmount, got.TotalAmount)
	assert.Equal(t, o.Weight, got.Weight)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 1, got.Lines[0].Quantity)
}

func TestOrderStatusEndpoint(t *testing.T) {
	h := setupAPI(t)
	p := createProduct(t, h, "Widget", 10.0, 1.0)

	lines := []orders.Line{{ProductID: p.ID, Quantity: 1}}
	rec := doJSON(t, h, http.MethodPost, "/orders", OrderReq{Lines: lines})
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decode[orders.Order](t, rec)

	rec = doJSON(t, h, http.MethodGet, "/orders/"+o.ID+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "pending"}, decode[map[string]string](t, rec))

	rec = doJSON(t, h, http.MethodPut, "/orders/"+o.ID, OrderReq{Lines: lines, Status: orders.StatusPaid})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/orders/"+o.ID+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "paid"}, decode[map[string]string](t, rec))

	rec = doJSON(t, h, http.MethodGet, "/orders/nope/status", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletedProductBreaksOrderUpdate(t *testing.T) {
	h := setupAPI(t)
	p := createProduct(t, h, "Widget", 10.0, 1.0)

	lines := []orders.Line{{ProductID: p.ID, Quantity: 1}}
	rec := doJSON(t, h, http.MethodPost, "/orders", OrderReq{Lines: lines})
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decode[orders.Order](t, rec)

	rec = doJSON(t, h, http.MethodDelete, "/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/orders/%s", o.ID), OrderReq{Lines: lines, Status: orders.StatusPaid})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), p.ID)
}
