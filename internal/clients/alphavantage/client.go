// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/petermason/folio/internal/cache"
	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co/query"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per minute (free tier)

	// QuoteTTL is how long a fetched stock quote stays valid in the cache.
	// The free tier allows ~5 calls/minute, so caching is mandatory.
	QuoteTTL = 5 * time.Minute
	// SearchTTL is how long search results stay valid in the cache.
	SearchTTL = 10 * time.Minute
)

// flexFloat64 handles JSON values that may be either a number or a string,
// including percent-suffixed strings like "1.23%".
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client implements the StockClient interface against the Alpha Vantage API.
// The provider has no batch quote endpoint, so each symbol costs one call.
// All upstream failures are absorbed here: callers receive nil quotes or
// empty search results, never errors.
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new Alpha Vantage client. The cache is shared with
// other market-data clients; each entry carries its own TTL.
func NewClient(apiKey string, priceCache *cache.Cache, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
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
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, function string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("function", function)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Msg("Alpha Vantage API request")

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
			Function:   function,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// globalQuotePayload mirrors the GLOBAL_QUOTE response. Alpha Vantage keys
// every field with a numbered prefix and returns all values as strings.
// Rate-limit responses come back 200 OK with a "Note" or "Information"
// field instead of quote data.
type globalQuotePayload struct {
	GlobalQuote struct {
		Symbol        string      `json:"01. symbol"`
		High          flexFloat64 `json:"03. high"`
		Low           flexFloat64 `json:"04. low"`
		Price         flexFloat64 `json:"05. price"`
		Volume        flexFloat64 `json:"06. volume"`
		Change        flexFloat64 `json:"09. change"`
		ChangePercent flexFloat64 `json:"10. change percent"`
	} `json:"Global Quote"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// GetQuote retrieves the latest quote for a symbol, serving from cache when
// fresh. Returns nil on missing/empty upstream payload or request failure.
func (c *Client) GetQuote(ctx context.Context, symbol string) *models.StockQuote {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil
	}

	cacheKey := "stock_price_" + symbol
	if cached, ok := c.cache.Get(cacheKey); ok {
		if quote, ok := cached.(*models.StockQuote); ok {
			return quote
		}
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	var payload globalQuotePayload
	if err := c.get(ctx, "GLOBAL_QUOTE", params, &payload); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Stock quote fetch failed")
		return nil
	}

	if payload.Note != "" || payload.Information != "" {
		c.logger.Warn().Str("symbol", symbol).Msg("Alpha Vantage rate limit note in response")
		return nil
	}

	// An unknown symbol comes back as an empty Global Quote object.
	if payload.GlobalQuote.Symbol == "" && payload.GlobalQuote.Price == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("No data for stock symbol")
		return nil
	}

	quote := &models.StockQuote{
		Symbol:        symbol,
		Price:         float64(payload.GlobalQuote.Price),
		Change:        float64(payload.GlobalQuote.Change),
		ChangePercent: float64(payload.GlobalQuote.ChangePercent),
		High:          float64(payload.GlobalQuote.High),
		Low:           float64(payload.GlobalQuote.Low),
		Volume:        int64(payload.GlobalQuote.Volume),
	}

	c.cache.Set(cacheKey, quote, QuoteTTL)
	return quote
}

// searchPayload mirrors the SYMBOL_SEARCH response.
type searchPayload struct {
	BestMatches []struct {
		Symbol   string `json:"1. symbol"`
		Name     string `json:"2. name"`
		Type     string `json:"3. type"`
		Region   string `json:"4. region"`
		Currency string `json:"8. currency"`
	} `json:"bestMatches"`
}

// Search finds symbols matching the keywords. Results are cached by
// normalized keywords; failures produce an empty slice.
func (c *Client) Search(ctx context.Context, keywords string) []models.StockSearchResult {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil
	}

	cacheKey := "stock_search_" + strings.ToLower(keywords)
	if cached, ok := c.cache.Get(cacheKey); ok {
		if results, ok := cached.([]models.StockSearchResult); ok {
			return results
		}
	}

	params := url.Values{}
	params.Set("keywords", keywords)

	var payload searchPayload
	if err := c.get(ctx, "SYMBOL_SEARCH", params, &payload); err != nil {
		c.logger.Warn().Err(err).Str("keywords", keywords).Msg("Stock search failed")
		return []models.StockSearchResult{}
	}

	results := make([]models.StockSearchResult, 0, len(payload.BestMatches))
	for _, m := range payload.BestMatches {
		results = append(results, models.StockSearchResult{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Type:     m.Type,
			Region:   m.Region,
			Currency: m.Currency,
		})
	}

	c.cache.Set(cacheKey, results, SearchTTL)
	return results
}
