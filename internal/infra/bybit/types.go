package bybit

import "github.com/shopspring/decimal"

// Wire types for the Bybit v2 REST API.

// baseResponse is the generic envelope every endpoint replies with.
// ret_code 0 means success; anything else is an exchange-reported error.
type baseResponse struct {
	RetCode int    `json:"ret_code"`
	RetMsg  string `json:"ret_msg"`
	ExtCode string `json:"ext_code"`
	ExtInfo string `json:"ext_info"`
}

// tickerResult is the subset of a ticker row the pipeline consumes.
type tickerResult struct {
	Symbol    string `json:"symbol"`
	BidPrice  string `json:"bid_price"`
	AskPrice  string `json:"ask_price"`
	LastPrice string `json:"last_price"`
}

// tickersResponse answers GET /v2/public/tickers. The result field is
// absent on error responses.
type tickersResponse struct {
	baseResponse
	Result  []tickerResult `json:"result"`
	TimeNow string         `json:"time_now"`
}

// serverTimeResponse answers GET /v2/public/time.
type serverTimeResponse struct {
	baseResponse
	TimeNow string `json:"time_now"`
}

// createOrderRequest is the exact field set transmitted to the order
// endpoint, in the canonical signing order with the signature appended.
// Prices marshal as quoted decimal strings (shopspring default), matching
// the text that was signed.
type createOrderRequest struct {
	APIKey      string          `json:"api_key"`
	OrderType   string          `json:"order_type"`
	Price       decimal.Decimal `json:"price"`
	Qty         uint64          `json:"qty"`
	Side        string          `json:"side"`
	StopLoss    decimal.Decimal `json:"stop_loss"`
	Symbol      string          `json:"symbol"`
	TimeInForce string          `json:"time_in_force"`
	Timestamp   string          `json:"timestamp"`
	Sign        string          `json:"sign"`
}
