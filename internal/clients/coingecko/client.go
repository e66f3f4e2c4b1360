// Package coingecko provides a client for the CoinGecko API
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/petermason/folio/internal/cache"
	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 30 // requests per minute

	// QuoteTTL is how long a fetched crypto quote stays valid in the cache.
	QuoteTTL = time.Minute
	// SearchTTL is how long search results stay valid in the cache.
	SearchTTL = 10 * time.Minute
)

// coinIDs maps ticker symbols to CoinGecko coin identifiers for the common
// coins. Symbols not listed fall back to the lowercased symbol, which works
// for coins whose id happens to match their ticker. Configuration data, not
// logic — extend as needed.
var coinIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"USDT":  "tether",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"MATIC": "matic-network",
	"DOT":   "polkadot",
}

// CoinID returns the CoinGecko identifier for a ticker symbol.
func CoinID(symbol string) string {
	if id, ok := coinIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Client implements the CryptoClient interface against the CoinGecko API.
// All upstream failures are absorbed here: callers receive nil quotes or
// empty search results, never errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit in requests per minute
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}
}

// NewClient creates a new CoinGecko client. The cache is shared with other
// market-data clients; each entry carries its own TTL.
func NewClient(priceCache *cache.Cache, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		cache:   priceCache,
		logger:  common.NewSilentLogger(),
		limiter: rate.NewLimiter(rate.Every(time.Minute/DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CoinGecko API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("CoinGecko API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// simplePriceEntry is one coin's entry in the /simple/price response.
type simplePriceEntry struct {
	USD          *float64 `json:"usd"`
	USD24hChange float64  `json:"usd_24h_change"`
	USDMarketCap float64  `json:"usd_market_cap"`
	USD24hVol    float64  `json:"usd_24h_vol"`
}

// GetPrices resolves quotes for a set of symbols, serving from cache where
// possible and issuing exactly one batched upstream request for everything
// else. The result always contains an entry per distinct uppercased input
// symbol; unresolvable symbols map to nil.
func (c *Client) GetPrices(ctx context.Context, symbols []string) map[string]*models.CryptoQuote {
	result := make(map[string]*models.CryptoQuote)
	var missing []string

	for _, s := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		if symbol == "" {
			continue
		}
		if _, seen := result[symbol]; seen {
			continue
		}
		if cached, ok := c.cache.Get(quoteCacheKey(symbol)); ok {
			if quote, ok := cached.(*models.CryptoQuote); ok {
				result[symbol] = quote
				continue
			}
		}
		result[symbol] = nil
		missing = append(missing, symbol)
	}

	if len(missing) == 0 {
		return result
	}

	ids := make([]string, len(missing))
	for i, symbol := range missing {
		ids[i] = CoinID(symbol)
	}

	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")
	params.Set("include_market_cap", "true")
	params.Set("include_24hr_vol", "true")

	var payload map[string]simplePriceEntry
	if err := c.get(ctx, "/simple/price", params, &payload); err != nil {
		c.logger.Warn().Err(err).Strs("symbols", missing).Msg("Crypto price fetch failed")
		return result
	}

	for i, symbol := range missing {
		entry, ok := payload[ids[i]]
		if !ok || entry.USD == nil {
			c.logger.Warn().Str("symbol", symbol).Str("coin_id", ids[i]).Msg("No data for crypto symbol")
			continue
		}
		quote := &models.CryptoQuote{
			Symbol:           symbol,
			Price:            *entry.USD,
			Change24h:        entry.USD24hChange,
			ChangePercent24h: entry.USD24hChange,
			MarketCap:        entry.USDMarketCap,
			Volume:           entry.USD24hVol,
		}
		result[symbol] = quote
		c.cache.Set(quoteCacheKey(symbol), quote, QuoteTTL)
	}

	return result
}

// GetPrice retrieves the latest quote for a single symbol, or nil.
func (c *Client) GetPrice(ctx context.Context, symbol string) *models.CryptoQuote {
	prices := c.GetPrices(ctx, []string{symbol})
	return prices[strings.ToUpper(strings.TrimSpace(symbol))]
}

// searchResponse is the shape of the /search endpoint response.
type searchResponse struct {
	Coins []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
		Thumb  string `json:"thumb"`
	} `json:"coins"`
}

// Search finds coins matching the query. Results are cached by normalized
// query string; failures produce an empty slice.
func (c *Client) Search(ctx context.Context, query string) []models.CryptoSearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	cacheKey := "crypto_search_" + strings.ToLower(query)
	if cached, ok := c.cache.Get(cacheKey); ok {
		if results, ok := cached.([]models.CryptoSearchResult); ok {
			return results
		}
	}

	params := url.Values{}
	params.Set("query", query)

	var payload searchResponse
	if err := c.get(ctx, "/search", params, &payload); err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("Crypto search failed")
		return []models.CryptoSearchResult{}
	}

	results := make([]models.CryptoSearchResult, 0, len(payload.Coins))
	for _, coin := range payload.Coins {
		results = append(results, models.CryptoSearchResult{
			ID:     coin.ID,
			Symbol: strings.ToUpper(coin.Symbol),
			Name:   coin.Name,
			Thumb:  coin.Thumb,
		})
	}

	c.cache.Set(cacheKey, results, SearchTTL)
	return results
}

func quoteCacheKey(symbol string) string {
	return "crypto_price_" + symbol
}
