package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated = "OrderCreated"
	EventOrderPaid    = "OrderPaid"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "katapi-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID     string  `json:"order_id"`
	Status      Status  `json:"status"`
	Lines       []Line  `json:"lines"`
	TotalAmount float64 `json:"total_amount"`
}

type OrderPaidPayload struct {
	OrderID string  `json:"order_id"`
	BillID  string  `json:"bill_id"`
	Amount  float64 `json:"amount"`
}
