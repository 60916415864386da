package orders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/katapi/katapi/internal/billing"
	kafkax "github.com/katapi/katapi/internal/kafka"
)

// Service owns the order lifecycle: it prices line sets against the catalog,
// persists the aggregate, and appends a bill every time an update sets the
// status to paid. Billing is deliberately asymmetric: an order created as
// paid issues no bill, only the update path does. Repeated paid updates
// produce repeated bills; there is no idempotence guard.
//
// Producer may be nil; events are then skipped.
type Service struct {
	Catalog     ProductResolver
	Store       Store
	Ledger      billing.Ledger
	Producer    *kafkax.Producer
	ServiceName string

	locks keyedMutex
}

// Create prices the lines and persists a new order. An empty status defaults
// to pending. No bill is issued here even when status is already paid.
func (s *Service) Create(ctx context.Context, lines []Line, status Status) (Order, error) {
	if status == "" {
		status = StatusPending
	}
	q, err := PriceOrder(ctx, lines, s.Catalog)
	if err != nil {
		return Order{}, err
	}
	now := time.Now().UTC()
	o := Order{
		ID:             uuid.NewString(),
		Status:         status,
		Lines:          lines,
		Weight:         q.Weight,
		ShipmentAmount: q.ShipmentAmount,
		TotalAmount:    q.TotalAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.Insert(ctx, o); err != nil {
		return Order{}, err
	}
	s.publish(ctx, EventOrderCreated, TopicOrderCreated, o.ID, kafkax.MustMarshal(OrderCreatedPayload{
		OrderID:     o.ID,
		Status:      o.Status,
		Lines:       o.Lines,
		TotalAmount: o.TotalAmount,
	}))
	return o, nil
}

// Update replaces the order's lines wholesale, recomputes the totals and
// stores the new status. Iff the new status is paid, exactly one bill is
// appended for the recomputed total. The whole read-price-write-bill
// sequence holds a per-order lock so concurrent updates to the same order
// cannot lose writes or double-bill within one call.
func (s *Service) Update(ctx context.Context, id string, lines []Line, status Status) (Order, error) {
	if status == "" {
		status = StatusPending
	}
	unlock := s.locks.lock(id)
	defer unlock()

	o, err := s.Store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	q, err := PriceOrder(ctx, lines, s.Catalog)
	if err != nil {
		return Order{}, err
	}
	o.Lines = lines
	o.Status = status
	o.Weight = q.Weight
	o.ShipmentAmount = q.ShipmentAmount
	o.TotalAmount = q.TotalAmount
	o.UpdatedAt = time.Now().UTC()
	if err := s.Store.Update(ctx, o); err != nil {
		return Order{}, err
	}

	if status == StatusPaid {
		bill, err := s.Ledger.Append(ctx, o.ID, o.TotalAmount)
		if err != nil {
			return Order{}, err
		}
		slog.InfoContext(ctx, "bill issued", "order_id", o.ID, "bill_id", bill.ID, "amount", bill.Amount)
		s.publish(ctx, EventOrderPaid, TopicOrderPaid, o.ID, kafkax.MustMarshal(OrderPaidPayload{
			OrderID: o.ID,
			BillID:  bill.ID,
			Amount:  bill.Amount,
		}))
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.Store.List(ctx)
}

// Delete removes the order. Bills already issued for it are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()
	return s.Store.Delete(ctx, id)
}

// newEnvelope stamps a v1 envelope; the trace id comes from the request id
// the router middleware put on the context, empty outside a request.
func newEnvelope(ctx context.Context, eventType, producer, orderID string, payload []byte) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: orderID,
		Payload:       payload,
	}
}

func (s *Service) publish(ctx context.Context, eventType, topic, orderID string, payload []byte) {
	if s.Producer == nil {
		return
	}
	ev := newEnvelope(ctx, eventType, s.ServiceName, orderID, payload)
	s.Producer.Publish(topic, PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// keyedMutex hands out one mutex per order id. Entries are kept for the
// process lifetime; the id space is small enough that this beats the
// bookkeeping of reference counting.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedMutex) lock(id string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*sync.Mutex)
	}
	l, ok := k.m[id]
	if !ok {
		l = &sync.Mutex{}
		k.m[id] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}
