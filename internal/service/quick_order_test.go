package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quicky/internal/domain"
	"quicky/internal/infra"
)

// Mock implementations

type mockExchange struct {
	lastPrice  decimal.Decimal
	quoteErr   error
	placeErr   error
	quoteCalls int
	placeCalls int
	gotPlan    *domain.OrderPlan
}

func (m *mockExchange) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	m.quoteCalls++
	if m.quoteErr != nil {
		return decimal.Zero, m.quoteErr
	}
	return m.lastPrice, nil
}

func (m *mockExchange) PlaceLimitOrder(ctx context.Context, plan *domain.OrderPlan) error {
	m.placeCalls++
	m.gotPlan = plan
	return m.placeErr
}

type mockJournal struct {
	attempts []*domain.OrderAttempt
	err      error
}

func (m *mockJournal) RecordAttempt(att *domain.OrderAttempt) error {
	m.attempts = append(m.attempts, att)
	return m.err
}

func newTestService(exchange domain.Exchange, journal domain.Journal) *QuickOrderService {
	cfg := &infra.Config{}
	cfg.Trading.StopLossPcnt = decimal.RequireFromString("0.2")
	cfg.Trading.TickSteps = map[string]decimal.Decimal{
		"BTCUSD": decimal.RequireFromString("0.01"),
		"XRPUSD": decimal.RequireFromString("0.0001"),
	}
	svc := NewQuickOrderService(cfg, exchange, journal)
	svc.now = func() time.Time { return time.UnixMilli(1600000000000) }
	return svc
}

func TestPlaceQuickLimitOrder_UnknownSymbol(t *testing.T) {
	ex := &mockExchange{}
	svc := newTestService(ex, nil)

	_, err := svc.PlaceQuickLimitOrder(context.Background(), "DOGEUSD", 10)

	assert.ErrorIs(t, err, domain.ErrNoTickStep)
	assert.Zero(t, ex.quoteCalls, "no network call may happen before validation passes")
	assert.Zero(t, ex.placeCalls)
}

func TestPlaceQuickLimitOrder_ZeroQuantity(t *testing.T) {
	ex := &mockExchange{}
	svc := newTestService(ex, nil)

	_, err := svc.PlaceQuickLimitOrder(context.Background(), "BTCUSD", 0)

	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
	assert.Zero(t, ex.quoteCalls, "no network call may happen before validation passes")
	assert.Zero(t, ex.placeCalls)
}

func TestPlaceQuickLimitOrder_Buy(t *testing.T) {
	ex := &mockExchange{lastPrice: decimal.RequireFromString("100.00")}
	journal := &mockJournal{}
	svc := newTestService(ex, journal)

	plan, err := svc.PlaceQuickLimitOrder(context.Background(), "BTCUSD", 10)
	require.NoError(t, err)

	assert.Equal(t, 1, ex.quoteCalls)
	assert.Equal(t, 1, ex.placeCalls)
	assert.Equal(t, domain.SideBuy, plan.Side)
	assert.Equal(t, uint64(10), plan.Qty)
	assert.True(t, plan.LimitPrice.Equal(decimal.RequireFromString("99.99")), "limit %s", plan.LimitPrice)
	assert.True(t, plan.StopLoss.Equal(decimal.RequireFromString("99.80")), "stop %s", plan.StopLoss)
	assert.Equal(t, "1600000000000", plan.TimestampMS)
	assert.Same(t, plan, ex.gotPlan)

	require.Len(t, journal.attempts, 1)
	assert.Equal(t, "success", journal.attempts[0].Outcome)
	assert.Equal(t, "99.99", journal.attempts[0].LimitPrice)
}

func TestPlaceQuickLimitOrder_Sell(t *testing.T) {
	ex := &mockExchange{lastPrice: decimal.RequireFromString("100.00")}
	svc := newTestService(ex, nil)

	plan, err := svc.PlaceQuickLimitOrder(context.Background(), "BTCUSD", -5)
	require.NoError(t, err)

	assert.Equal(t, domain.SideSell, plan.Side)
	assert.Equal(t, uint64(5), plan.Qty, "quantity is transmitted unsigned")
	assert.True(t, plan.LimitPrice.Equal(decimal.RequireFromString("100.01")), "limit %s", plan.LimitPrice)
	assert.True(t, plan.StopLoss.Equal(decimal.RequireFromString("100.20")), "stop %s", plan.StopLoss)
}

func TestPlaceQuickLimitOrder_QuoteFailurePropagates(t *testing.T) {
	quoteErr := &domain.APIError{RetCode: 10001, RetMsg: "invalid symbol"}
	ex := &mockExchange{quoteErr: quoteErr}
	svc := newTestService(ex, nil)

	_, err := svc.PlaceQuickLimitOrder(context.Background(), "BTCUSD", 10)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, quoteErr, apiErr, "quote failures propagate unchanged")
	assert.Equal(t, 1, ex.quoteCalls)
	assert.Zero(t, ex.placeCalls, "submission never starts after a failed quote")
}

func TestPlaceQuickLimitOrder_EmptyQuotePropagates(t *testing.T) {
	ex := &mockExchange{quoteErr: domain.ErrEmptyResult}
	svc := newTestService(ex, nil)

	_, err := svc.PlaceQuickLimitOrder(context.Background(), "BTCUSD", 10)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestPlaceQuickLimitOrder_RejectionJournaled(t *testing.T) {
	ex := &mockExchange{
		lastPrice: decimal.RequireFromString("100.00"),
		placeErr:  &domain.APIError{RetCode: 130021, RetMsg: "order cost not available"},
	}
	journal := &mockJournal{}
	svc := newTestService(ex, journal)

	_, err := svc.PlaceQuickLimitOrder(context.Background(), "BTCUSD", 10)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 130021, apiErr.RetCode)

	require.Len(t, journal.attempts, 1)
	assert.Equal(t, "api_rejected", journal.attempts[0].Outcome)
	assert.Contains(t, journal.attempts[0].Detail, "order cost not available")
}

func TestPlaceQuickLimitOrder_JournalFailureIsNonFatal(t *testing.T) {
	ex := &mockExchange{lastPrice: decimal.RequireFromString("100.00")}
	journal := &mockJournal{err: errors.New("disk full")}
	svc := newTestService(ex, journal)

	_, err := svc.PlaceQuickLimitOrder(context.Background(), "BTCUSD", 10)
	assert.NoError(t, err, "a journal write failure must not fail the order")
}

func TestOutcomeOf(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"API Rejection":     {&domain.APIError{RetCode: 1}, "api_rejected"},
		"Transport Failure": {domain.NewNetworkError("create order", errors.New("refused")), "network_error"},
		"Decode Failure":    {domain.ErrDecodeResponse, "decode_error"},
		"Anything Else":     {errors.New("boom"), "internal_error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, outcomeOf(tc.err))
		})
	}
}
