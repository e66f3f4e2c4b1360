package server

import (
	"net/http"
	"strings"
	"sync"

	"github.com/petermason/folio/internal/models"
)

// handleStockQuote handles GET /api/market-data/stocks/{symbol}.
func (s *Server) handleStockQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market-data/stocks/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote := s.app.StockClient.GetQuote(r.Context(), symbol)
	if quote == nil {
		WriteError(w, http.StatusNotFound, "No data found for symbol: "+strings.ToUpper(symbol))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quote":   quote,
	})
}

// handleCryptoQuote handles GET /api/market-data/crypto/{symbol}.
func (s *Server) handleCryptoQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market-data/crypto/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	quote := s.app.CryptoClient.GetPrice(r.Context(), symbol)
	if quote == nil {
		WriteError(w, http.StatusNotFound, "No data found for symbol: "+strings.ToUpper(symbol))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quote":   quote,
	})
}

// handleMarketData handles GET /api/market-data/{symbol}?type=stock|crypto.
// The type defaults to stock, matching the original behaviour of the
// symbol-only endpoint.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := PathParam(r, "/api/market-data/", "")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	assetType := r.URL.Query().Get("type")
	switch assetType {
	case "crypto":
		s.handleCryptoQuoteBySymbol(w, r, symbol)
	case "stock", "":
		s.handleStockQuoteBySymbol(w, r, symbol)
	default:
		WriteError(w, http.StatusBadRequest, "Type must be 'stock' or 'crypto'")
	}
}

func (s *Server) handleStockQuoteBySymbol(w http.ResponseWriter, r *http.Request, symbol string) {
	quote := s.app.StockClient.GetQuote(r.Context(), symbol)
	if quote == nil {
		WriteError(w, http.StatusNotFound, "No data found for symbol: "+strings.ToUpper(symbol))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "quote": quote})
}

func (s *Server) handleCryptoQuoteBySymbol(w http.ResponseWriter, r *http.Request, symbol string) {
	quote := s.app.CryptoClient.GetPrice(r.Context(), symbol)
	if quote == nil {
		WriteError(w, http.StatusNotFound, "No data found for symbol: "+strings.ToUpper(symbol))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "quote": quote})
}

// searchResults carries the per-type search results. The two provider calls
// populate disjoint fields, so they run concurrently and join before the
// response is written.
type searchResults struct {
	Stocks []models.StockSearchResult  `json:"stocks,omitempty"`
	Crypto []models.CryptoSearchResult `json:"crypto,omitempty"`
}

// handleSearch handles GET /api/search?q=...&type=stock|crypto|all.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	searchType := r.URL.Query().Get("type")
	if searchType == "" {
		searchType = "all"
	}

	ctx := r.Context()
	var results searchResults
	var wg sync.WaitGroup

	if searchType == "stock" || searchType == "all" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.Stocks = s.app.StockClient.Search(ctx, query)
		}()
	}

	if searchType == "crypto" || searchType == "all" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.Crypto = s.app.CryptoClient.Search(ctx, query)
		}()
	}

	wg.Wait()

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}
