package billing

import "time"

// Bill is immutable once appended. OrderID is a weak reference: bills outlive
// the order that produced them.
type Bill struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"creation_date"`
}
