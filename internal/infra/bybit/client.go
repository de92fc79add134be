package bybit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"quicky/internal/domain"
	"quicky/internal/infra"
)

const (
	pathTickers     = "/v2/public/tickers"
	pathCreateOrder = "/v2/private/order/create"
	pathServerTime  = "/v2/public/time"
)

// Client is the Bybit v2 REST client (boundary layer). It implements
// domain.Exchange. Every call is a single blocking round trip bounded by the
// configured timeout; nothing retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     *Signer
	logger     *slog.Logger
}

// NewClient builds a client from configuration, selecting the live or
// testnet credential pair and base URL via the environment flag.
func NewClient(cfg *infra.Config) *Client {
	key, secret := cfg.ActiveKeyPair()
	return newClient(cfg.ActiveBaseURL(), key, secret, cfg.HTTPTimeout())
}

// NewClientWithBaseURL mirrors NewClient with an explicit endpoint and
// credentials, for tests against a local server.
func NewClientWithBaseURL(baseURL, apiKey, apiSecret string) *Client {
	return newClient(baseURL, apiKey, apiSecret, 10*time.Second)
}

func newClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer: NewSigner(apiKey, apiSecret),
		logger: slog.Default().With("module", "bybit_client"),
	}
}

// LastPrice returns the last traded price for symbol from the public ticker
// endpoint.
func (c *Client) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL + pathTickers)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrParseURL, err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrBuildRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, domain.NewNetworkError("get tickers", err)
	}
	defer resp.Body.Close()

	var body tickersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrDecodeResponse, err)
	}
	if body.RetCode != 0 {
		c.logger.Error("ticker request rejected",
			slog.String("symbol", symbol),
			slog.Int("ret_code", body.RetCode),
			slog.String("ret_msg", body.RetMsg))
		return decimal.Zero, &domain.APIError{RetCode: body.RetCode, RetMsg: body.RetMsg, ExtCode: body.ExtCode, ExtInfo: body.ExtInfo}
	}
	if len(body.Result) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no ticker rows for %s", domain.ErrEmptyResult, symbol)
	}

	price, err := decimal.NewFromString(body.Result[0].LastPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: last_price %q", domain.ErrParseNumeric, body.Result[0].LastPrice)
	}
	return price, nil
}

// PlaceLimitOrder signs the planned order and submits it to the private
// order-creation endpoint. The signature covers the canonical parameter
// string built from the same rendered values the JSON body carries.
func (c *Client) PlaceLimitOrder(ctx context.Context, plan *domain.OrderPlan) error {
	reqBody := &createOrderRequest{
		APIKey:      c.signer.apiKey,
		OrderType:   domain.OrderTypeLimit,
		Price:       plan.LimitPrice,
		Qty:         plan.Qty,
		Side:        string(plan.Side),
		StopLoss:    plan.StopLoss,
		Symbol:      plan.Symbol,
		TimeInForce: domain.TimeInForcePostOnly,
		Timestamp:   plan.TimestampMS,
	}
	reqBody.Sign = c.signer.Sign(c.signer.ParamString(reqBody))

	u, err := url.Parse(c.baseURL + pathCreateOrder)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBuildRequest, err)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEncodeRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBuildRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewNetworkError("create order", err)
	}
	defer resp.Body.Close()

	var body baseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecodeResponse, err)
	}
	if body.RetCode != 0 {
		c.logger.Error("order rejected",
			slog.String("symbol", plan.Symbol),
			slog.Int("ret_code", body.RetCode),
			slog.String("ret_msg", body.RetMsg),
			slog.String("ext_code", body.ExtCode))
		return &domain.APIError{RetCode: body.RetCode, RetMsg: body.RetMsg, ExtCode: body.ExtCode, ExtInfo: body.ExtInfo}
	}

	c.logger.Info("order accepted",
		slog.String("symbol", plan.Symbol),
		slog.String("side", string(plan.Side)),
		slog.Uint64("qty", plan.Qty),
		slog.String("price", plan.LimitPrice.String()),
		slog.String("stop_loss", plan.StopLoss.String()))
	return nil
}

// ServerTime fetches the exchange wall clock in epoch milliseconds. It is a
// standalone utility: the order pipeline uses the local clock and never
// calls this.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	u, err := url.Parse(c.baseURL + pathServerTime)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrParseURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrBuildRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, domain.NewNetworkError("get server time", err)
	}
	defer resp.Body.Close()

	var body serverTimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDecodeResponse, err)
	}
	if body.RetCode != 0 {
		return 0, &domain.APIError{RetCode: body.RetCode, RetMsg: body.RetMsg, ExtCode: body.ExtCode, ExtInfo: body.ExtInfo}
	}

	return parseTimeNow(body.TimeNow)
}

// time_now arrives as "seconds.microseconds"; the millisecond value is the
// seconds digits concatenated with the first three fractional digits.
var timeNowPattern = regexp.MustCompile(`^(\d+)\.(\d{3})\d{3}$`)

func parseTimeNow(s string) (int64, error) {
	m := timeNowPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: time_now %q", domain.ErrMalformedResponse, s)
	}
	ms, err := strconv.ParseInt(m[1]+m[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: time_now %q", domain.ErrMalformedResponse, s)
	}
	return ms, nil
}
