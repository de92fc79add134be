package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Exchange is the transport boundary of the order pipeline. Both calls are
// single blocking round trips; neither retries.
type Exchange interface {
	// LastPrice returns the last traded price for symbol.
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// PlaceLimitOrder signs and submits the planned order. A nil return
	// means the exchange confirmed the order with a zero return code.
	PlaceLimitOrder(ctx context.Context, plan *OrderPlan) error
}

// Journal records order attempts for post-hoc inspection. Implementations
// must be safe to skip: a journal failure never fails an order.
type Journal interface {
	RecordAttempt(att *OrderAttempt) error
}
