// Package audit tails the billing event stream and writes an audit log line
// per issued bill. It is a read-only consumer: the ledger itself is written
// synchronously by the order lifecycle.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/katapi/katapi/internal/kafka"
	"github.com/katapi/katapi/internal/orders"
	"github.com/katapi/katapi/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderPaid is wired as the consumer handler for the order.paid topic.
func (s *Service) HandleOrderPaid(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPaid {
		return nil // ignore
	}

	// dedup on event_id so redeliveries log once; Redis may be nil
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "audit", env.EventID)
		if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPaidPayload](env.Payload)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "order paid",
		"order_id", p.OrderID,
		"bill_id", p.BillID,
		"amount", p.Amount,
		"producer", env.Producer,
		"event_id", env.EventID,
		"trace_id", env.TraceID,
	)
	return nil
}
