package bybit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signer computes Bybit v2 private-request signatures.
type Signer struct {
	apiKey    string
	apiSecret string
}

// NewSigner creates a new Signer instance.
func NewSigner(apiKey, apiSecret string) *Signer {
	return &Signer{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// ParamString builds the canonical parameter string signed for an order.
// The field order is fixed by the exchange's signature-verification rule:
// api_key, order_type, price, qty, side, stop_loss, symbol, time_in_force,
// timestamp. It is deliberately NOT alphabetical and must never be re-sorted.
func (s *Signer) ParamString(req *createOrderRequest) string {
	return fmt.Sprintf(
		"api_key=%s&order_type=%s&price=%s&qty=%d&side=%s&stop_loss=%s&symbol=%s&time_in_force=%s&timestamp=%s",
		req.APIKey, req.OrderType, req.Price, req.Qty, req.Side,
		req.StopLoss, req.Symbol, req.TimeInForce, req.Timestamp,
	)
}

// Sign returns the lower-case hexadecimal HMAC-SHA256 digest of payload,
// keyed by the API secret. crypto/hmac keeps the computation constant-time
// with respect to the key material.
func (s *Signer) Sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(s.apiSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
