package orders

import "time"

// Line references a catalog product by id; it has no identity of its own
// outside the order that owns it.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order caches the totals computed at last write. Weight, ShipmentAmount and
// TotalAmount always equal a pricing run over Lines at that moment; they are
// never recomputed on read.
type Order struct {
	ID             string    `json:"id"`
	Status         Status    `json:"status"`
	Lines          []Line    `json:"lines"`
	Weight         float64   `json:"weight"`
	ShipmentAmount float64   `json:"shipment_amount"`
	TotalAmount    float64   `json:"total_amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
