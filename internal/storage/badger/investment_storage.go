package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

type investmentStorage struct {
	store  *Store
	logger *common.Logger
}

// NewInvestmentStorage creates a new InvestmentStorage backed by BadgerHold.
func NewInvestmentStorage(store *Store, logger *common.Logger) *investmentStorage {
	return &investmentStorage{store: store, logger: logger}
}

func (s *investmentStorage) GetInvestment(_ context.Context, id string) (*models.Investment, error) {
	var investment models.Investment
	err := s.store.db.Get(id, &investment)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("investment %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get investment %s: %w", id, err)
	}
	return &investment, nil
}

// ListInvestments returns a portfolio's investments, newest purchase first.
func (s *investmentStorage) ListInvestments(_ context.Context, portfolioID string) ([]models.Investment, error) {
	var investments []models.Investment
	if err := s.store.db.Find(&investments, badgerhold.Where("PortfolioID").Eq(portfolioID).Index("PortfolioID")); err != nil {
		return nil, fmt.Errorf("failed to list investments for portfolio %s: %w", portfolioID, err)
	}
	sort.SliceStable(investments, func(i, j int) bool {
		return investments[i].PurchaseDate.After(investments[j].PurchaseDate)
	})
	return investments, nil
}

func (s *investmentStorage) SaveInvestment(_ context.Context, investment *models.Investment) error {
	if err := s.store.db.Upsert(investment.ID, investment); err != nil {
		return fmt.Errorf("failed to save investment: %w", err)
	}
	s.logger.Debug().
		Str("investment_id", investment.ID).
		Str("symbol", investment.Symbol).
		Msg("Investment saved")
	return nil
}

func (s *investmentStorage) DeleteInvestment(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.Investment{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete investment %s: %w", id, err)
	}
	s.logger.Debug().Str("investment_id", id).Msg("Investment deleted")
	return nil
}
