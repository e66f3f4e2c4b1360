// Package valuation computes live portfolio values from recorded investments.
package valuation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/interfaces"
	"github.com/petermason/folio/internal/models"
)

// Service implements ValuationService over the two market-data clients.
type Service struct {
	stocks interfaces.StockClient
	crypto interfaces.CryptoClient
	logger *common.Logger
}

// NewService creates a new valuation service.
func NewService(stocks interfaces.StockClient, crypto interfaces.CryptoClient, logger *common.Logger) *Service {
	return &Service{
		stocks: stocks,
		crypto: crypto,
		logger: logger,
	}
}

// ComputePortfolioValue enriches each investment with its current market
// price and derived metrics, and accumulates portfolio totals.
//
// Crypto prices are resolved through one batched lookup for the distinct
// symbols; stock prices are fetched per distinct symbol, concurrently, since
// the provider has no batch endpoint. A price that cannot be resolved
// contributes zero rather than failing the computation — the holding stays
// visible with profit equal to the negative of its cost basis.
//
// Buy and sell rows are valued identically as independent transactions;
// there is no netting between them.
func (s *Service) ComputePortfolioValue(ctx context.Context, investments []models.Investment) (*models.PortfolioValuation, error) {
	for i := range investments {
		if err := investments[i].Validate(); err != nil {
			return nil, fmt.Errorf("investment %s: %w", investments[i].Symbol, err)
		}
	}

	cryptoPrices := s.fetchCryptoPrices(ctx, investments)
	stockPrices := s.fetchStockPrices(ctx, investments)

	valuation := &models.PortfolioValuation{
		Investments: make([]models.EnrichedInvestment, 0, len(investments)),
	}

	for _, inv := range investments {
		symbol := strings.ToUpper(inv.Symbol)

		var currentPrice float64
		switch inv.AssetType {
		case models.AssetTypeCrypto:
			if quote := cryptoPrices[symbol]; quote != nil {
				currentPrice = quote.Price
			}
		case models.AssetTypeStock:
			if quote := stockPrices[symbol]; quote != nil {
				currentPrice = quote.Price
			}
		}

		currentValue := inv.Shares * currentPrice
		costBasis := inv.Shares * inv.PurchasePrice
		profit := currentValue - costBasis

		profitPercent := 0.0
		if costBasis > 0 {
			profitPercent = profit / costBasis * 100
		}

		valuation.Investments = append(valuation.Investments, models.EnrichedInvestment{
			Investment:    inv,
			CurrentPrice:  currentPrice,
			CurrentValue:  currentValue,
			CostBasis:     costBasis,
			Profit:        profit,
			ProfitPercent: profitPercent,
		})

		valuation.TotalValue += currentValue
		valuation.TotalCost += costBasis
		valuation.TotalProfit += profit
	}

	if valuation.TotalCost > 0 {
		valuation.TotalProfitPercent = valuation.TotalProfit / valuation.TotalCost * 100
	}

	return valuation, nil
}

// fetchCryptoPrices resolves the distinct crypto symbols in one batched call.
func (s *Service) fetchCryptoPrices(ctx context.Context, investments []models.Investment) map[string]*models.CryptoQuote {
	symbols := distinctSymbols(investments, models.AssetTypeCrypto)
	if len(symbols) == 0 {
		return nil
	}
	return s.crypto.GetPrices(ctx, symbols)
}

// fetchStockPrices resolves each distinct stock symbol concurrently. The
// lookups populate disjoint map keys, so ordering between them is irrelevant;
// all are joined before the valuation math runs.
func (s *Service) fetchStockPrices(ctx context.Context, investments []models.Investment) map[string]*models.StockQuote {
	symbols := distinctSymbols(investments, models.AssetTypeStock)
	if len(symbols) == 0 {
		return nil
	}

	prices := make(map[string]*models.StockQuote, len(symbols))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			quote := s.stocks.GetQuote(ctx, symbol)
			if quote == nil {
				s.logger.Warn().Str("symbol", symbol).Msg("Stock price unavailable, valuing at zero")
			}
			mu.Lock()
			prices[symbol] = quote
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return prices
}

// distinctSymbols returns the uppercased distinct symbols of the given asset
// type, preserving first-seen order.
func distinctSymbols(investments []models.Investment, assetType models.AssetType) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, inv := range investments {
		if inv.AssetType != assetType {
			continue
		}
		symbol := strings.ToUpper(inv.Symbol)
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}
	return symbols
}
