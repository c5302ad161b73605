package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const apiURL = "https://v6.exchangerate-api.com/v6"

// ErrBadResponse is returned when the rate provider answers with an
// unexpected shape or a non-success result.
var ErrBadResponse = errors.New("unexpected exchange rate response")

// RateSource supplies a conversion rate between two currency codes.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Client talks to the exchangerate-api.com v6 endpoint. Rates are cached for
// the process lifetime per currency pair, so repeated salary conversions in a
// scrape run hit the network once.
type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string

	cacheMu sync.RWMutex
	cache   map[string]float64
}

type latestResponse struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

func New(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: make(map[string]float64),
	}
}

// Rate returns the conversion rate from one currency to another. Lookup
// failures are surfaced to the caller; a wrong conversion silently passing
// would corrupt every downstream score.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	key := fmt.Sprintf("%s/%s", from, to)

	c.cacheMu.RLock()
	rate, ok := c.cache[key]
	c.cacheMu.RUnlock()
	if ok {
		return rate, nil
	}

	rate, err := c.fetchRate(ctx, from, to)
	if err != nil {
		return 0, err
	}

	c.cacheMu.Lock()
	c.cache[key] = rate
	c.cacheMu.Unlock()

	return rate, nil
}

func (c *Client) fetchRate(ctx context.Context, from, to string) (float64, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.APIURL, c.apiKey, from)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("fetching exchange rate", zap.String("from", from), zap.String("to", to))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching exchange rate: %w", err)
	}
	defer resp.Body.Close()

	var parsed latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decoding exchange rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Result != "success" {
		reason := strings.TrimSpace(parsed.ErrorType)
		if reason == "" {
			reason = resp.Status
		}
		return 0, fmt.Errorf("%w: %s", ErrBadResponse, reason)
	}

	rate, ok := parsed.ConversionRates[to]
	if !ok {
		return 0, fmt.Errorf("%w: no rate for %s", ErrBadResponse, to)
	}

	return rate, nil
}
