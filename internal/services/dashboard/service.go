// Package dashboard rolls per-portfolio valuations up into account totals.
package dashboard

import "github.com/petermason/folio/internal/models"

// Service implements DashboardService. Pure aggregation, no I/O.
type Service struct{}

// NewService creates a new dashboard service.
func NewService() *Service {
	return &Service{}
}

// Aggregate sums value, cost, profit and investment counts across the
// supplied per-portfolio valuations. The profit percentage is derived with
// the same zero-guard as portfolio totals: a zero total cost yields 0.
func (s *Service) Aggregate(valuations []models.PortfolioValuation) models.DashboardStats {
	stats := models.DashboardStats{
		TotalPortfolios: len(valuations),
	}

	for _, v := range valuations {
		stats.TotalInvestments += len(v.Investments)
		stats.TotalValue += v.TotalValue
		stats.TotalCost += v.TotalCost
		stats.TotalProfit += v.TotalProfit
	}

	if stats.TotalCost > 0 {
		stats.TotalProfitPercent = stats.TotalProfit / stats.TotalCost * 100
	}

	return stats
}
