package server

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/petermason/folio/internal/app"
	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/interfaces"
	"github.com/petermason/folio/internal/models"
	"github.com/petermason/folio/internal/services/dashboard"
	"github.com/petermason/folio/internal/services/valuation"
)

// --- In-memory storage mocks ---

type memStorage struct {
	mu          sync.Mutex
	users       map[string]*models.User
	portfolios  map[string]*models.Portfolio
	investments map[string]*models.Investment
}

func newMemStorage() *memStorage {
	return &memStorage{
		users:       make(map[string]*models.User),
		portfolios:  make(map[string]*models.Portfolio),
		investments: make(map[string]*models.Investment),
	}
}

func (m *memStorage) Users() interfaces.UserStorage             { return (*memUsers)(m) }
func (m *memStorage) Portfolios() interfaces.PortfolioStorage   { return (*memPortfolios)(m) }
func (m *memStorage) Investments() interfaces.InvestmentStorage { return (*memInvestments)(m) }
func (m *memStorage) Close() error                              { return nil }

type memUsers memStorage

func (m *memUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
}

func (m *memUsers) SaveUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *user
	m.users[user.ID] = &c
	return nil
}

func (m *memUsers) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

type memPortfolios memStorage

func (m *memPortfolios) GetPortfolio(_ context.Context, id string) (*models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.portfolios[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, fmt.Errorf("portfolio %s: %w", id, models.ErrNotFound)
}

func (m *memPortfolios) ListPortfolios(_ context.Context, userID string) ([]models.Portfolio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Portfolio
	for _, p := range m.portfolios {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memPortfolios) SavePortfolio(_ context.Context, portfolio *models.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *portfolio
	m.portfolios[portfolio.ID] = &c
	return nil
}

func (m *memPortfolios) DeletePortfolio(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.portfolios, id)
	for invID, inv := range m.investments {
		if inv.PortfolioID == id {
			delete(m.investments, invID)
		}
	}
	return nil
}

type memInvestments memStorage

func (m *memInvestments) GetInvestment(_ context.Context, id string) (*models.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.investments[id]; ok {
		c := *inv
		return &c, nil
	}
	return nil, fmt.Errorf("investment %s: %w", id, models.ErrNotFound)
}

func (m *memInvestments) ListInvestments(_ context.Context, portfolioID string) ([]models.Investment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Investment
	for _, inv := range m.investments {
		if inv.PortfolioID == portfolioID {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memInvestments) SaveInvestment(_ context.Context, investment *models.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *investment
	m.investments[investment.ID] = &c
	return nil
}

func (m *memInvestments) DeleteInvestment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.investments, id)
	return nil
}

// --- Client mocks ---

type mockStockClient struct {
	quotes   map[string]*models.StockQuote
	searches []models.StockSearchResult
}

func (m *mockStockClient) GetQuote(_ context.Context, symbol string) *models.StockQuote {
	return m.quotes[strings.ToUpper(symbol)]
}

func (m *mockStockClient) Search(_ context.Context, _ string) []models.StockSearchResult {
	return m.searches
}

type mockCryptoClient struct {
	quotes   map[string]*models.CryptoQuote
	searches []models.CryptoSearchResult
}

func (m *mockCryptoClient) GetPrices(_ context.Context, symbols []string) map[string]*models.CryptoQuote {
	result := make(map[string]*models.CryptoQuote)
	for _, s := range symbols {
		symbol := strings.ToUpper(s)
		result[symbol] = m.quotes[symbol]
	}
	return result
}

func (m *mockCryptoClient) GetPrice(ctx context.Context, symbol string) *models.CryptoQuote {
	return m.GetPrices(ctx, []string{symbol})[strings.ToUpper(symbol)]
}

func (m *mockCryptoClient) Search(_ context.Context, _ string) []models.CryptoSearchResult {
	return m.searches
}

// --- Harness ---

type testHarness struct {
	server  *Server
	storage *memStorage
	stocks  *mockStockClient
	crypto  *mockCryptoClient
}

func newTestHarness() *testHarness {
	logger := common.NewSilentLogger()
	storage := newMemStorage()
	stocks := &mockStockClient{quotes: map[string]*models.StockQuote{}}
	crypto := &mockCryptoClient{quotes: map[string]*models.CryptoQuote{}}

	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           logger,
		Storage:          storage,
		StockClient:      stocks,
		CryptoClient:     crypto,
		ValuationService: valuation.NewService(stocks, crypto, logger),
		DashboardService: dashboard.NewService(),
	}

	return &testHarness{
		server:  NewServer(a),
		storage: storage,
		stocks:  stocks,
		crypto:  crypto,
	}
}
