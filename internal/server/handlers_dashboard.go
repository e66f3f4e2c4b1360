package server

import (
	"net/http"

	"github.com/petermason/folio/internal/models"
)

// handleDashboardStats handles GET /api/dashboard/stats. It values every
// portfolio of the authenticated user and rolls the results up into
// account-wide totals. Quote caching in the clients keeps repeated symbols
// across portfolios to a single upstream fetch.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	portfolios, err := s.app.Storage.Portfolios().ListPortfolios(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list portfolios")
		WriteError(w, http.StatusInternalServerError, "Failed to compute dashboard stats")
		return
	}

	analytics := make([]models.PortfolioAnalytics, 0, len(portfolios))
	valuations := make([]models.PortfolioValuation, 0, len(portfolios))

	for _, p := range portfolios {
		investments, err := s.app.Storage.Investments().ListInvestments(ctx, p.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", p.ID).Msg("Failed to list investments")
			WriteError(w, http.StatusInternalServerError, "Failed to compute dashboard stats")
			return
		}

		valuation, err := s.app.ValuationService.ComputePortfolioValue(ctx, investments)
		if err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", p.ID).Msg("Failed to value portfolio")
			WriteError(w, http.StatusInternalServerError, "Failed to compute dashboard stats")
			return
		}

		analytics = append(analytics, models.PortfolioAnalytics{
			ID:                 p.ID,
			Name:               p.Name,
			PortfolioValuation: *valuation,
		})
		valuations = append(valuations, *valuation)
	}

	stats := s.app.DashboardService.Aggregate(valuations)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"stats":      stats,
		"portfolios": analytics,
	})
}
