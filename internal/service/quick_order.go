package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"quicky/internal/domain"
	"quicky/internal/infra"
)

// QuickOrderService drives one quick limit order end to end:
//
//	Validating -> QuotePending -> Computing -> Signing -> Submitting -> Done
//
// Local validations run strictly before any network call; the two round
// trips (quote fetch, order submission) are sequential and blocking; every
// failure is terminal for the invocation. The service holds no mutable
// state, so independent invocations may run concurrently.
type QuickOrderService struct {
	tickSteps    map[string]decimal.Decimal
	stopLossPcnt decimal.Decimal
	exchange     domain.Exchange
	journal      domain.Journal // nil disables journaling
	logger       *slog.Logger
	now          func() time.Time
}

// NewQuickOrderService wires the pipeline from configuration and an
// exchange boundary. journal may be nil.
func NewQuickOrderService(cfg *infra.Config, exchange domain.Exchange, journal domain.Journal) *QuickOrderService {
	return &QuickOrderService{
		tickSteps:    cfg.Trading.TickSteps,
		stopLossPcnt: cfg.Trading.StopLossPcnt,
		exchange:     exchange,
		journal:      journal,
		logger:       slog.Default().With("module", "quick_order"),
		now:          time.Now,
	}
}

// PlaceQuickLimitOrder places a PostOnly limit order for symbol. The sign of
// qty picks the side: positive buys, negative sells, zero is rejected. On
// success it returns the submitted plan.
func (s *QuickOrderService) PlaceQuickLimitOrder(ctx context.Context, symbol string, qty int64) (*domain.OrderPlan, error) {
	tick, ok := s.tickSteps[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoTickStep, symbol)
	}
	side, err := domain.SideFromQty(qty)
	if err != nil {
		return nil, err
	}
	absQty := uint64(qty)
	if qty < 0 {
		absQty = uint64(-qty)
	}

	start := time.Now()
	lastPrice, err := s.exchange.LastPrice(ctx, symbol)
	if err != nil {
		infra.GlobalMetrics.RecordError()
		return nil, err
	}
	infra.GlobalMetrics.RecordQuote(time.Since(start))
	s.logger.Debug("quote received",
		slog.String("symbol", symbol),
		slog.String("last_price", lastPrice.String()))

	plan, err := domain.PlanQuickLimitOrder(symbol, side, absQty, lastPrice, tick, s.stopLossPcnt, s.now().UnixMilli())
	if err != nil {
		return nil, err
	}

	start = time.Now()
	err = s.exchange.PlaceLimitOrder(ctx, plan)
	elapsed := time.Since(start)
	if err != nil {
		infra.GlobalMetrics.RecordError()
		s.record(plan, outcomeOf(err), err.Error(), elapsed)
		return nil, err
	}
	infra.GlobalMetrics.RecordOrder(elapsed)

	s.logger.Info("quick limit order placed",
		slog.String("symbol", symbol),
		slog.String("side", string(plan.Side)),
		slog.Uint64("qty", plan.Qty),
		slog.String("price", plan.LimitPrice.String()),
		slog.String("stop_loss", plan.StopLoss.String()),
		slog.Duration("elapsed", elapsed))
	s.record(plan, "success", "", elapsed)
	return plan, nil
}

// record appends an attempt to the journal. Journaling is best effort: a
// write failure is logged and never fails the order.
func (s *QuickOrderService) record(plan *domain.OrderPlan, outcome, detail string, elapsed time.Duration) {
	if s.journal == nil {
		return
	}
	att := &domain.OrderAttempt{
		Symbol:      plan.Symbol,
		Side:        string(plan.Side),
		Qty:         plan.Qty,
		LimitPrice:  plan.LimitPrice.String(),
		StopLoss:    plan.StopLoss.String(),
		TimestampMS: plan.TimestampMS,
		Outcome:     outcome,
		Detail:      detail,
		ElapsedMS:   elapsed.Milliseconds(),
	}
	if err := s.journal.RecordAttempt(att); err != nil {
		s.logger.Warn("journal write failed", slog.Any("error", err))
	}
}

// outcomeOf classifies a submission failure for the journal.
func outcomeOf(err error) string {
	var apiErr *domain.APIError
	var netErr *domain.NetworkError
	switch {
	case errors.As(err, &apiErr):
		return "api_rejected"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.Is(err, domain.ErrDecodeResponse):
		return "decode_error"
	default:
		return "internal_error"
	}
}
