package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight in-process observability for the order
// pipeline. Atomic operations keep it safe for concurrent invocations.
type Metrics struct {
	quotesFetched atomic.Uint64
	ordersPlaced  atomic.Uint64
	errorsTotal   atomic.Uint64

	latencySumNs atomic.Int64
	latencyCount atomic.Uint64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordQuote records a completed quote fetch with its network latency.
func (m *Metrics) RecordQuote(latency time.Duration) {
	m.quotesFetched.Add(1)
	m.recordLatency(latency)
}

// RecordOrder records a confirmed order placement with its network latency.
func (m *Metrics) RecordOrder(latency time.Duration) {
	m.ordersPlaced.Add(1)
	m.recordLatency(latency)
}

// RecordError records a pipeline failure.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

func (m *Metrics) recordLatency(latency time.Duration) {
	m.latencySumNs.Add(latency.Nanoseconds())
	m.latencyCount.Add(1)
}

// QuotesFetched returns the number of successful quote fetches.
func (m *Metrics) QuotesFetched() uint64 { return m.quotesFetched.Load() }

// OrdersPlaced returns the number of confirmed orders.
func (m *Metrics) OrdersPlaced() uint64 { return m.ordersPlaced.Load() }

// ErrorsTotal returns the number of recorded failures.
func (m *Metrics) ErrorsTotal() uint64 { return m.errorsTotal.Load() }

// AvgLatency returns the mean latency across recorded network calls.
func (m *Metrics) AvgLatency() time.Duration {
	count := m.latencyCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(m.latencySumNs.Load() / int64(count))
}
