package interfaces

import (
	"context"

	"github.com/petermason/folio/internal/models"
)

// UserStorage persists user accounts.
type UserStorage interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// PortfolioStorage persists portfolios.
type PortfolioStorage interface {
	GetPortfolio(ctx context.Context, id string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context, userID string) ([]models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	// DeletePortfolio removes the portfolio and all of its investments.
	DeletePortfolio(ctx context.Context, id string) error
}

// InvestmentStorage persists investment transactions.
type InvestmentStorage interface {
	GetInvestment(ctx context.Context, id string) (*models.Investment, error)
	ListInvestments(ctx context.Context, portfolioID string) ([]models.Investment, error)
	SaveInvestment(ctx context.Context, investment *models.Investment) error
	DeleteInvestment(ctx context.Context, id string) error
}

// StorageManager aggregates the storage areas and owns their lifecycle.
type StorageManager interface {
	Users() UserStorage
	Portfolios() PortfolioStorage
	Investments() InvestmentStorage
	Close() error
}
