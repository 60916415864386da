package orders

import (
	"context"
	"math"

	"github.com/katapi/katapi/internal/catalog"
)

const (
	discountThreshold = 1000.0
	discountRate      = 0.95

	shipmentBlockWeight = 10.0
	shipmentBlockFee    = 25.0

	// weightEpsilon absorbs float noise so an exact multiple of the block
	// weight (e.g. 20.0) never pays for an extra block.
	weightEpsilon = 1e-9
)

// ProductResolver is the slice of the catalog the pricing engine needs.
type ProductResolver interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// Quote is the result of pricing a line set. Subtotal is post-discount.
type Quote struct {
	Subtotal       float64
	Weight         float64
	ShipmentAmount float64
	TotalAmount    float64
}

// PriceOrder resolves every line against the catalog and computes the order
// totals. Resolution is all-or-nothing: the first missing product aborts the
// whole computation with catalog.ErrNotFound wrapping the product id.
func PriceOrder(ctx context.Context, lines []Line, products ProductResolver) (Quote, error) {
	var q Quote
	for _, l := range lines {
		p, err := products.Get(ctx, l.ProductID)
		if err != nil {
			return Quote{}, err
		}
		q.Subtotal += p.Price * float64(l.Quantity)
		q.Weight += p.Weight * float64(l.Quantity)
	}
	if q.Subtotal > discountThreshold {
		q.Subtotal *= discountRate
	}
	q.ShipmentAmount = shipmentFee(q.Weight)
	q.TotalAmount = q.Subtotal + q.ShipmentAmount
	return q, nil
}

// shipmentFee charges a flat fee per full or partial block of weight.
func shipmentFee(weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	blocks := math.Floor(weight / shipmentBlockWeight)
	if weight-blocks*shipmentBlockWeight > weightEpsilon {
		blocks++
	}
	if blocks == 0 {
		blocks = 1
	}
	return blocks * shipmentBlockFee
}
