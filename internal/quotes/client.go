package quotes

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientConfig holds the settings for the HTTP quote client.
type ClientConfig struct {
	BaseURL   string
	APIToken  string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// Client fetches quotes from an IEX-style REST endpoint
// (GET {base}/stock/{symbol}/quote?token=...).
type Client struct {
	client  *resty.Client
	token   string
	logger  *zap.SugaredLogger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ Provider = (*Client)(nil)

// quoteResponse mirrors the provider's JSON payload. LatestPrice is in
// dollars with fractional cents possible.
type quoteResponse struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	LatestPrice float64 `json:"latestPrice"`
}

// NewClient creates a new HTTP quote client.
func NewClient(cfg ClientConfig, logger *zap.SugaredLogger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	return &Client{
		client:  client,
		token:   cfg.APIToken,
		logger:  logger,
		limiter: limiter,
	}
}

// Lookup fetches the current quote for symbol. Symbols are upper-cased
// before the request; an unknown symbol returns ErrNotFound.
func (c *Client) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrNotFound
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("quote rate limiter: %w", err)
	}

	var body quoteResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("token", c.token).
		SetResult(&body).
		Get(fmt.Sprintf("/stock/%s/quote", symbol))
	if err != nil {
		return nil, fmt.Errorf("quote request for %s: %w", symbol, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		// fall through
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		c.logger.Warnw("quote provider returned unexpected status",
			"symbol", symbol,
			"status", resp.StatusCode(),
		)
		return nil, fmt.Errorf("quote provider status %d for %s", resp.StatusCode(), symbol)
	}

	if body.Symbol == "" || body.LatestPrice <= 0 {
		return nil, ErrNotFound
	}

	return &Quote{
		Symbol: body.Symbol,
		Name:   body.CompanyName,
		Price:  int64(math.Round(body.LatestPrice * 100)),
	}, nil
}
