package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petermason/folio/internal/models"
)

// getOwnedPortfolio loads a portfolio and verifies it belongs to the
// authenticated user. Ownership failures are reported as 404 so portfolio
// ids are not probeable across accounts.
func (s *Server) getOwnedPortfolio(ctx context.Context, w http.ResponseWriter, id string) *models.Portfolio {
	portfolio, err := s.app.Storage.Portfolios().GetPortfolio(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Portfolio not found")
		} else {
			s.logger.Error().Err(err).Str("portfolio_id", id).Msg("Failed to get portfolio")
			WriteError(w, http.StatusInternalServerError, "Failed to get portfolio")
		}
		return nil
	}
	if portfolio.UserID != UserIDFromContext(ctx) {
		WriteError(w, http.StatusNotFound, "Portfolio not found")
		return nil
	}
	return portfolio
}

// handlePortfolios handles GET and POST /api/portfolios.
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPortfolios(w, r)
	case http.MethodPost:
		s.createPortfolio(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) listPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	portfolios, err := s.app.Storage.Portfolios().ListPortfolios(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list portfolios")
		WriteError(w, http.StatusInternalServerError, "Failed to list portfolios")
		return
	}

	result := make([]models.PortfolioWithCount, 0, len(portfolios))
	for _, p := range portfolios {
		investments, err := s.app.Storage.Investments().ListInvestments(ctx, p.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", p.ID).Msg("Failed to count investments")
			WriteError(w, http.StatusInternalServerError, "Failed to list portfolios")
			return
		}
		result = append(result, models.PortfolioWithCount{
			Portfolio:       p,
			InvestmentCount: len(investments),
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"portfolios": result,
	})
}

type portfolioRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

func (s *Server) createPortfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Portfolio name must be 1-50 characters")
		return
	}

	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	existing, err := s.app.Storage.Portfolios().ListPortfolios(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list portfolios")
		WriteError(w, http.StatusInternalServerError, "Failed to create portfolio")
		return
	}
	for _, p := range existing {
		if strings.EqualFold(p.Name, req.Name) {
			WriteError(w, http.StatusConflict, "Portfolio name already exists")
			return
		}
	}

	now := time.Now()
	portfolio := &models.Portfolio{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.app.Storage.Portfolios().SavePortfolio(ctx, portfolio); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save portfolio")
		WriteError(w, http.StatusInternalServerError, "Failed to create portfolio")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":   true,
		"message":   "Portfolio created successfully",
		"portfolio": portfolio,
	})
}

// handlePortfolio handles GET, PUT and DELETE /api/portfolios/{id}.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}

	id := PathParam(r, "/api/portfolios/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Portfolio id is required")
		return
	}

	ctx := r.Context()
	portfolio := s.getOwnedPortfolio(ctx, w, id)
	if portfolio == nil {
		return
	}

	switch r.Method {
	case http.MethodGet:
		investments, err := s.app.Storage.Investments().ListInvestments(ctx, id)
		if err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", id).Msg("Failed to list investments")
			WriteError(w, http.StatusInternalServerError, "Failed to get portfolio")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"portfolio":   portfolio,
			"investments": investments,
		})

	case http.MethodPut:
		var req portfolioRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := s.validate.Struct(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Portfolio name must be 1-50 characters")
			return
		}

		portfolio.Name = req.Name
		portfolio.UpdatedAt = time.Now()
		if err := s.app.Storage.Portfolios().SavePortfolio(ctx, portfolio); err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", id).Msg("Failed to update portfolio")
			WriteError(w, http.StatusInternalServerError, "Failed to update portfolio")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"message":   "Portfolio updated successfully",
			"portfolio": portfolio,
		})

	case http.MethodDelete:
		if err := s.app.Storage.Portfolios().DeletePortfolio(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", id).Msg("Failed to delete portfolio")
			WriteError(w, http.StatusInternalServerError, "Failed to delete portfolio")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Portfolio deleted successfully",
		})
	}
}

// handlePortfolioAnalytics handles GET /api/portfolios/{id}/analytics.
func (s *Server) handlePortfolioAnalytics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathParam(r, "/api/portfolios/", "/analytics")
	ctx := r.Context()

	portfolio := s.getOwnedPortfolio(ctx, w, id)
	if portfolio == nil {
		return
	}

	investments, err := s.app.Storage.Investments().ListInvestments(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("portfolio_id", id).Msg("Failed to list investments")
		WriteError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}

	valuation, err := s.app.ValuationService.ComputePortfolioValue(ctx, investments)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("portfolio_id", id).Msg("Failed to compute valuation")
		WriteError(w, http.StatusInternalServerError, "Failed to compute analytics")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"portfolio": portfolio,
		"analytics": valuation,
	})
}
