package domain

import (
	"time"
)

// OrderAttempt is an append-only audit row for one submission attempt: what
// was sent and how it went. It intentionally stores no exchange order ID and
// is never updated, so it records attempts without tracking order state.
type OrderAttempt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Symbol      string    `gorm:"index" json:"symbol"`
	Side        string    `json:"side"`
	Qty         uint64    `json:"qty"`
	LimitPrice  string    `json:"limit_price"`
	StopLoss    string    `json:"stop_loss"`
	TimestampMS string    `json:"timestamp_ms"`
	Outcome     string    `gorm:"index" json:"outcome"` // "success" or an error kind
	Detail      string    `json:"detail"`               // exchange ret_msg or error text
	ElapsedMS   int64     `json:"elapsed_ms"`
	CreatedAt   time.Time `json:"created_at"`
}
