// Package seed inserts demo data on first start so the API is explorable
// without any setup.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katapi/katapi/internal/catalog"
	"github.com/katapi/katapi/internal/orders"
)

// Demo populates an empty catalog with three products and one paid order.
// The order is paid through the normal update path so the demo bill goes
// through the same billing rules as everything else.
func Demo(ctx context.Context, store catalog.Store, svc *orders.Service) error {
	existing, err := store.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	laptop, err := store.Create(ctx, "Laptop", 1200.50, 2.5)
	if err != nil {
		return fmt.Errorf("seed laptop: %w", err)
	}
	phone, err := store.Create(ctx, "Smartphone", 800.00, 0.4)
	if err != nil {
		return fmt.Errorf("seed smartphone: %w", err)
	}
	if _, err := store.Create(ctx, "Headphones", 150.75, 0.2); err != nil {
		return fmt.Errorf("seed headphones: %w", err)
	}

	lines := []orders.Line{
		{ProductID: laptop.ID, Quantity: 1},
		{ProductID: phone.ID, Quantity: 2},
	}
	o, err := svc.Create(ctx, lines, orders.StatusPending)
	if err != nil {
		return fmt.Errorf("seed order: %w", err)
	}
	if _, err := svc.Update(ctx, o.ID, lines, orders.StatusPaid); err != nil {
		return fmt.Errorf("seed pay order: %w", err)
	}

	slog.Info("demo products, order and bill seeded", "order_id", o.ID)
	return nil
}
