package domain

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"quicky/pkg/quant"
)

// Side of an order, spelled the way the exchange expects it.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"

	// Every quick order is a PostOnly limit order: it rests on the book one
	// tick inside the current price and never executes as a taker.
	OrderTypeLimit      = "Limit"
	TimeInForcePostOnly = "PostOnly"
)

var hundred = decimal.New(100, 0)

// SideFromQty derives the order side from a signed quantity: positive buys,
// negative sells, zero is rejected.
func SideFromQty(qty int64) (Side, error) {
	switch {
	case qty > 0:
		return SideBuy, nil
	case qty < 0:
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: quantity must be non-zero", ErrInvalidParameter)
	}
}

// OrderPlan is a fully priced limit order, ready to be signed and submitted.
// It is built once per attempt and not reused.
type OrderPlan struct {
	Symbol      string
	Side        Side
	Qty         uint64 // absolute quantity
	LimitPrice  decimal.Decimal
	StopLoss    decimal.Decimal
	TimestampMS string // wall-clock capture, milliseconds since epoch
}

// PlanQuickLimitOrder derives the prices for a quick order from the last
// traded price. The limit price sits one tick inside the market (buy: one
// tick below, sell: one tick above) so the order rests as a maker but stays
// close enough to fill. The stop-loss offsets the quote by stopLossPcnt
// percent in the loss-limiting direction. Both prices are tick-aligned.
func PlanQuickLimitOrder(symbol string, side Side, qty uint64, lastPrice, tick, stopLossPcnt decimal.Decimal, nowMS int64) (*OrderPlan, error) {
	if lastPrice.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive quote %s", ErrInvalidParameter, lastPrice)
	}

	var rawLimit, rawStop decimal.Decimal
	pct := stopLossPcnt.Div(hundred)
	if side == SideBuy {
		rawLimit = lastPrice.Sub(tick)
		rawStop = lastPrice.Mul(decimal.New(1, 0).Sub(pct))
	} else {
		rawLimit = lastPrice.Add(tick)
		rawStop = lastPrice.Mul(decimal.New(1, 0).Add(pct))
	}

	limit, err := quant.RoundToTick(rawLimit, tick)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	stop, err := quant.RoundToTick(rawStop, tick)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return &OrderPlan{
		Symbol:      symbol,
		Side:        side,
		Qty:         qty,
		LimitPrice:  limit,
		StopLoss:    stop,
		TimestampMS: strconv.FormatInt(nowMS, 10),
	}, nil
}
