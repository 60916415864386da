package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is the append-only billing record. There is no update or delete:
// every paid transition appends one row, duplicates included.
type Ledger interface {
	Append(ctx context.Context, orderID string, amount float64) (Bill, error)
	List(ctx context.Context) ([]Bill, error)
}

// MemoryLedger keeps bills in insertion order behind a mutex.
type MemoryLedger struct {
	mu    sync.Mutex
	bills []Bill
}

func NewMemoryLedger() *MemoryLedger { return &MemoryLedger{} }

func (l *MemoryLedger) Append(ctx context.Context, orderID string, amount float64) (Bill, error) {
	b := Bill{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	l.mu.Lock()
	l.bills = append(l.bills, b)
	l.mu.Unlock()
	return b, nil
}

func (l *MemoryLedger) List(ctx context.Context) ([]Bill, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Bill, len(l.bills))
	copy(out, l.bills)
	return out, nil
}
