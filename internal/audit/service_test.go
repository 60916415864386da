package audit

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/katapi/katapi/internal/kafka"
	"github.com/katapi/katapi/internal/orders"
)

func envelope(t *testing.T, eventType string, payload any) kafkago.Message {
	t.Helper()
	ev := orders.Envelope{
		EventID:      "evt-1",
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "katapi-test",
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(ev)}
}

func TestHandleOrderPaid(t *testing.T) {
	svc := &Service{ServiceName: "katapi-test-auditor"}
	m := envelope(t, orders.EventOrderPaid, orders.OrderPaidPayload{
		OrderID: "order-1",
		BillID:  "bill-1",
		Amount:  2685.475,
	})
	assert.NoError(t, svc.HandleOrderPaid(context.Background(), m))
}

func TestHandleOrderPaidIgnoresOtherEvents(t *testing.T) {
	svc := &Service{ServiceName: "katapi-test-auditor"}
	m := envelope(t, orders.EventOrderCreated, orders.OrderCreatedPayload{OrderID: "order-1"})
	assert.NoError(t, svc.HandleOrderPaid(context.Background(), m))
}

func TestHandleOrderPaidRejectsGarbage(t *testing.T) {
	svc := &Service{ServiceName: "katapi-test-auditor"}
	err := svc.HandleOrderPaid(context.Background(), kafkago.Message{Value: []byte("{")})
	require.Error(t, err)
}
