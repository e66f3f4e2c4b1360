// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/petermason/folio/internal/models"
)

// StockClient provides quotes and symbol search from the stock provider.
// The provider has no batch quote endpoint, so lookups are per-symbol.
//
// Provider failures never surface as errors here: a quote that cannot be
// resolved is returned as nil, and a failed search returns an empty slice.
type StockClient interface {
	// GetQuote retrieves the latest quote for a symbol, or nil when the
	// provider has no data or the request fails.
	GetQuote(ctx context.Context, symbol string) *models.StockQuote

	// Search finds symbols matching the keywords.
	Search(ctx context.Context, keywords string) []models.StockSearchResult
}

// CryptoClient provides quotes and coin search from the crypto provider.
// Quotes are fetched in one batched upstream call for all uncached symbols.
type CryptoClient interface {
	// GetPrices resolves quotes for a set of symbols. The result contains an
	// entry for every input symbol (uppercased); symbols the provider has no
	// data for, or that fail to fetch, map to nil.
	GetPrices(ctx context.Context, symbols []string) map[string]*models.CryptoQuote

	// GetPrice retrieves the latest quote for a single symbol, or nil.
	GetPrice(ctx context.Context, symbol string) *models.CryptoQuote

	// Search finds coins matching the query.
	Search(ctx context.Context, query string) []models.CryptoSearchResult
}
