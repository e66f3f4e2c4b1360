package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petermason/folio/internal/models"
)

type investmentRequest struct {
	Symbol          string  `json:"symbol" validate:"required,min=1,max=10"`
	AssetType       string  `json:"assetType" validate:"required,oneof=stock crypto"`
	TransactionType string  `json:"transactionType" validate:"required,oneof=buy sell"`
	Shares          float64 `json:"shares" validate:"required,gt=0,lte=1000000"`
	PurchasePrice   float64 `json:"purchasePrice" validate:"required,gt=0,lte=1000000"`
	PurchaseDate    string  `json:"purchaseDate,omitempty"`
}

// parsePurchaseDate accepts RFC3339 or a bare date, defaulting to now.
func parsePurchaseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// handlePortfolioInvestments handles GET and POST /api/portfolios/{id}/investments.
func (s *Server) handlePortfolioInvestments(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	portfolioID := PathParam(r, "/api/portfolios/", "/investments")
	ctx := r.Context()

	if s.getOwnedPortfolio(ctx, w, portfolioID) == nil {
		return
	}

	switch r.Method {
	case http.MethodGet:
		investments, err := s.app.Storage.Investments().ListInvestments(ctx, portfolioID)
		if err != nil {
			s.logger.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to list investments")
			WriteError(w, http.StatusInternalServerError, "Failed to list investments")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"investments": investments,
		})

	case http.MethodPost:
		var req investmentRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
		if err := s.validate.Struct(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid investment details: "+err.Error())
			return
		}

		purchaseDate, err := parsePurchaseDate(req.PurchaseDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid purchase date")
			return
		}

		now := time.Now()
		investment := &models.Investment{
			ID:              uuid.New().String(),
			PortfolioID:     portfolioID,
			Symbol:          req.Symbol,
			AssetType:       models.AssetType(req.AssetType),
			TransactionType: models.TransactionType(req.TransactionType),
			Shares:          req.Shares,
			PurchasePrice:   req.PurchasePrice,
			PurchaseDate:    purchaseDate,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := investment.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.app.Storage.Investments().SaveInvestment(ctx, investment); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save investment")
			WriteError(w, http.StatusInternalServerError, "Failed to add investment")
			return
		}

		WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"success":    true,
			"message":    "Investment added successfully",
			"investment": investment,
		})
	}
}

// handleInvestment handles GET, PUT and DELETE /api/investments/{id}.
func (s *Server) handleInvestment(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}

	id := PathParam(r, "/api/investments/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Investment id is required")
		return
	}

	ctx := r.Context()

	investment, err := s.app.Storage.Investments().GetInvestment(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Investment not found")
		} else {
			s.logger.Error().Err(err).Str("investment_id", id).Msg("Failed to get investment")
			WriteError(w, http.StatusInternalServerError, "Failed to get investment")
		}
		return
	}

	// Ownership is checked through the owning portfolio.
	if s.getOwnedPortfolio(ctx, w, investment.PortfolioID) == nil {
		return
	}

	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"investment": investment,
		})

	case http.MethodPut:
		var req investmentRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
		if err := s.validate.Struct(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid investment details: "+err.Error())
			return
		}

		purchaseDate, err := parsePurchaseDate(req.PurchaseDate)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid purchase date")
			return
		}
		if req.PurchaseDate == "" {
			purchaseDate = investment.PurchaseDate
		}

		investment.Symbol = req.Symbol
		investment.AssetType = models.AssetType(req.AssetType)
		investment.TransactionType = models.TransactionType(req.TransactionType)
		investment.Shares = req.Shares
		investment.PurchasePrice = req.PurchasePrice
		investment.PurchaseDate = purchaseDate
		investment.UpdatedAt = time.Now()
		if err := investment.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.app.Storage.Investments().SaveInvestment(ctx, investment); err != nil {
			s.logger.Error().Err(err).Str("investment_id", id).Msg("Failed to update investment")
			WriteError(w, http.StatusInternalServerError, "Failed to update investment")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"message":    "Investment updated successfully",
			"investment": investment,
		})

	case http.MethodDelete:
		if err := s.app.Storage.Investments().DeleteInvestment(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("investment_id", id).Msg("Failed to delete investment")
			WriteError(w, http.StatusInternalServerError, "Failed to delete investment")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Investment deleted successfully",
		})
	}
}
