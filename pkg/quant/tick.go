// Package quant provides fixed-point helpers for aligning prices to an
// instrument's tick size.
package quant

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNonPositiveTick is returned when a tick size is zero or negative.
// Callers are expected to validate tick tables up front; this exists so a
// bad tick fails fast instead of looping.
var ErrNonPositiveTick = errors.New("tick size must be positive")

var one = decimal.New(1, 0)

// TickDecimals converts a tick size into the decimal-place count used for
// rounding: the smallest n >= 0 such that tick * 10^n >= 1.
// A tick of 0.0001 yields 4, 0.5 yields 1, anything >= 1 yields 0.
func TickDecimals(tick decimal.Decimal) (int32, error) {
	if tick.Sign() <= 0 {
		return 0, fmt.Errorf("%w: got %s", ErrNonPositiveTick, tick)
	}
	var n int32
	for v := tick; v.LessThan(one); v = v.Shift(1) {
		n++
	}
	return n, nil
}

// RoundToTick rounds price to the resolution implied by tick.
// Ties round half away from zero (decimal.Round semantics): at tick 0.01,
// 0.005 becomes 0.01 and -0.005 becomes -0.01. Rounding an already aligned
// price is a no-op.
func RoundToTick(price, tick decimal.Decimal) (decimal.Decimal, error) {
	n, err := TickDecimals(tick)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Round(n), nil
}
