package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUserStorage_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	users := NewUserStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	user := &models.User{
		ID:           "u-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.SaveUser(ctx, user))

	got, err := users.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	byEmail, err := users.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", byEmail.ID)

	_, err = users.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = users.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, users.DeleteUser(ctx, "u-1"))
	_, err = users.GetUser(ctx, "u-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserStorage_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	users := NewUserStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, users.SaveUser(ctx, &models.User{ID: "u-1", Email: "ada@example.com"}))

	err := users.SaveUser(ctx, &models.User{ID: "u-2", Email: "ada@example.com"})
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestPortfolioStorage_ListByUser(t *testing.T) {
	store := newTestStore(t)
	portfolios := NewPortfolioStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	require.NoError(t, portfolios.SavePortfolio(ctx, &models.Portfolio{ID: "p-1", UserID: "u-1", Name: "Growth"}))
	require.NoError(t, portfolios.SavePortfolio(ctx, &models.Portfolio{ID: "p-2", UserID: "u-1", Name: "Crypto"}))
	require.NoError(t, portfolios.SavePortfolio(ctx, &models.Portfolio{ID: "p-3", UserID: "u-2", Name: "Other"}))

	list, err := portfolios.ListPortfolios(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = portfolios.ListPortfolios(ctx, "u-3")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPortfolioStorage_DeleteCascadesToInvestments(t *testing.T) {
	store := newTestStore(t)
	logger := common.NewSilentLogger()
	portfolios := NewPortfolioStorage(store, logger)
	investments := NewInvestmentStorage(store, logger)
	ctx := context.Background()

	require.NoError(t, portfolios.SavePortfolio(ctx, &models.Portfolio{ID: "p-1", UserID: "u-1", Name: "Growth"}))
	require.NoError(t, investments.SaveInvestment(ctx, &models.Investment{
		ID: "i-1", PortfolioID: "p-1", Symbol: "AAPL",
		AssetType: models.AssetTypeStock, TransactionType: models.TransactionTypeBuy,
		Shares: 10, PurchasePrice: 100,
	}))
	require.NoError(t, investments.SaveInvestment(ctx, &models.Investment{
		ID: "i-2", PortfolioID: "p-other", Symbol: "BTC",
		AssetType: models.AssetTypeCrypto, TransactionType: models.TransactionTypeBuy,
		Shares: 1, PurchasePrice: 20000,
	}))

	require.NoError(t, portfolios.DeletePortfolio(ctx, "p-1"))

	_, err := portfolios.GetPortfolio(ctx, "p-1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = investments.GetInvestment(ctx, "i-1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Investments in other portfolios are untouched.
	other, err := investments.GetInvestment(ctx, "i-2")
	require.NoError(t, err)
	assert.Equal(t, "BTC", other.Symbol)
}

func TestInvestmentStorage_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	investments := NewInvestmentStorage(store, common.NewSilentLogger())
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"i-1", "i-2", "i-3"} {
		require.NoError(t, investments.SaveInvestment(ctx, &models.Investment{
			ID: id, PortfolioID: "p-1", Symbol: "AAPL",
			AssetType: models.AssetTypeStock, TransactionType: models.TransactionTypeBuy,
			Shares: 1, PurchasePrice: 100,
			PurchaseDate: base.AddDate(0, 0, i),
		}))
	}

	list, err := investments.ListInvestments(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "i-3", list[0].ID)
	assert.Equal(t, "i-1", list[2].ID)
}
