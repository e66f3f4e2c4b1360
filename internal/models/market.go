package models

// StockQuote is a point-in-time price snapshot from the stock provider.
// Quotes are transient: produced fresh or from cache per request, never
// persisted.
type StockQuote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        int64   `json:"volume"`
}

// CryptoQuote is a point-in-time price snapshot from the crypto provider.
type CryptoQuote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Change24h        float64 `json:"change24h"`
	ChangePercent24h float64 `json:"changePercent24h"`
	MarketCap        float64 `json:"marketCap"`
	Volume           float64 `json:"volume"`
}

// StockSearchResult is one SYMBOL_SEARCH match.
type StockSearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// CryptoSearchResult is one coin search match.
type CryptoSearchResult struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Thumb  string `json:"thumb,omitempty"`
}
