package interfaces

import (
	"context"

	"github.com/petermason/folio/internal/models"
)

// ValuationService computes the current value of a set of investments.
type ValuationService interface {
	// ComputePortfolioValue enriches each investment with its live price and
	// derived metrics and returns portfolio totals. Unresolvable prices
	// contribute zero; only malformed input produces an error
	// (models.ErrInvalidInput).
	ComputePortfolioValue(ctx context.Context, investments []models.Investment) (*models.PortfolioValuation, error)
}

// DashboardService rolls per-portfolio valuations up into account totals.
type DashboardService interface {
	// Aggregate sums value, cost, profit and investment counts across the
	// supplied valuations.
	Aggregate(valuations []models.PortfolioValuation) models.DashboardStats
}
