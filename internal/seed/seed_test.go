package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katapi/katapi/internal/billing"
	"github.com/katapi/katapi/internal/catalog"
	"github.com/katapi/katapi/internal/orders"
)

func TestDemoSeedsOnce(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	ledger := billing.NewMemoryLedger()
	svc := &orders.Service{
		Catalog:     store,
		Store:       orders.NewMemoryStore(),
		Ledger:      ledger,
		ServiceName: "katapi-test",
	}

	require.NoError(t, Demo(ctx, store, svc))

	products, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 3)

	os, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, os, 1)
	assert.Equal(t, orders.StatusPaid, os[0].Status)
	// 1200.50 + 2*800.00 discounted + one shipment block
	assert.InDelta(t, 2685.475, os[0].TotalAmount, 1e-9)

	bills, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.InDelta(t, os[0].TotalAmount, bills[0].Amount, 1e-9)

	// second run: catalog is non-empty, nothing added
	require.NoError(t, Demo(ctx, store, svc))
	products, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 3)
	bills, err = ledger.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}
