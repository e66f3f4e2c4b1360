package badger

import (
	"context"
	"fmt"

	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

type portfolioStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStorage creates a new PortfolioStorage backed by BadgerHold.
func NewPortfolioStorage(store *Store, logger *common.Logger) *portfolioStorage {
	return &portfolioStorage{store: store, logger: logger}
}

func (s *portfolioStorage) GetPortfolio(_ context.Context, id string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := s.store.db.Get(id, &portfolio)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio %s: %w", id, err)
	}
	return &portfolio, nil
}

func (s *portfolioStorage) ListPortfolios(_ context.Context, userID string) ([]models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := s.store.db.Find(&portfolios, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list portfolios for user %s: %w", userID, err)
	}
	return portfolios, nil
}

func (s *portfolioStorage) SavePortfolio(_ context.Context, portfolio *models.Portfolio) error {
	if err := s.store.db.Upsert(portfolio.ID, portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().Str("portfolio_id", portfolio.ID).Str("name", portfolio.Name).Msg("Portfolio saved")
	return nil
}

// DeletePortfolio removes the portfolio and cascades to its investments.
func (s *portfolioStorage) DeletePortfolio(_ context.Context, id string) error {
	if err := s.store.db.DeleteMatching(&models.Investment{}, badgerhold.Where("PortfolioID").Eq(id)); err != nil {
		return fmt.Errorf("failed to delete investments for portfolio %s: %w", id, err)
	}

	err := s.store.db.Delete(id, models.Portfolio{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete portfolio %s: %w", id, err)
	}
	s.logger.Debug().Str("portfolio_id", id).Msg("Portfolio deleted")
	return nil
}
