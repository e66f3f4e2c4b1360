// Package storage provides the top-level StorageManager over the BadgerHold
// user-domain store.
package storage

import (
	"fmt"

	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/interfaces"
	"github.com/petermason/folio/internal/storage/badger"
)

// Manager implements interfaces.StorageManager.
type Manager struct {
	store       *badger.Store
	users       interfaces.UserStorage
	portfolios  interfaces.PortfolioStorage
	investments interfaces.InvestmentStorage
	logger      *common.Logger
}

// NewManager opens the store and wires the per-entity storages.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{
		store:       store,
		users:       badger.NewUserStorage(store, logger),
		portfolios:  badger.NewPortfolioStorage(store, logger),
		investments: badger.NewInvestmentStorage(store, logger),
		logger:      logger,
	}, nil
}

func (m *Manager) Users() interfaces.UserStorage {
	return m.users
}

func (m *Manager) Portfolios() interfaces.PortfolioStorage {
	return m.portfolios
}

func (m *Manager) Investments() interfaces.InvestmentStorage {
	return m.investments
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
