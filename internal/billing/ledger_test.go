package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	ledger, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func TestMemoryLedgerAppendAndList(t *testing.T) {
	testLedger(t, NewMemoryLedger())
}

func TestSQLiteLedgerAppendAndList(t *testing.T) {
	testLedger(t, setupSQLiteLedger(t))
}

func testLedger(t *testing.T, ledger Ledger) {
	ctx := context.Background()

	first, err := ledger.Append(ctx, "order-1", 100.5)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "order-1", first.OrderID)
	assert.Equal(t, 100.5, first.Amount)
	assert.False(t, first.CreatedAt.IsZero())

	// same order again: the ledger never dedups
	second, err := ledger.Append(ctx, "order-1", 100.5)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	third, err := ledger.Append(ctx, "order-2", 42.0)
	require.NoError(t, err)

	bills, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 3)
	assert.Equal(t, first.ID, bills[0].ID)
	assert.Equal(t, second.ID, bills[1].ID)
	assert.Equal(t, third.ID, bills[2].ID)

	again, err := ledger.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, bills, again)
}

func TestSQLiteLedgerEmptyList(t *testing.T) {
	ledger := setupSQLiteLedger(t)
	bills, err := ledger.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bills)
}
