// Package app wires configuration, storage, clients and services together.
package app

import (
	"fmt"
	"time"

	"github.com/petermason/folio/internal/cache"
	"github.com/petermason/folio/internal/clients/alphavantage"
	"github.com/petermason/folio/internal/clients/coingecko"
	"github.com/petermason/folio/internal/common"
	"github.com/petermason/folio/internal/interfaces"
	"github.com/petermason/folio/internal/services/dashboard"
	"github.com/petermason/folio/internal/services/valuation"
	"github.com/petermason/folio/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	PriceCache       *cache.Cache
	StockClient      interfaces.StockClient
	CryptoClient     interfaces.CryptoClient
	ValuationService interfaces.ValuationService
	DashboardService interfaces.DashboardService
	StartupTime      time.Time
}

// NewApp initializes storage, the shared price cache, both market-data
// clients, and the services.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if config.Clients.AlphaVantage.APIKey == "" {
		logger.Warn().Msg("Alpha Vantage API key not configured - stock quotes will be unavailable")
	}

	// One cache instance shared by both clients so every lookup hits the
	// same store.
	priceCache := cache.New()

	stockClient := alphavantage.NewClient(
		config.Clients.AlphaVantage.APIKey,
		priceCache,
		alphavantage.WithBaseURL(config.Clients.AlphaVantage.BaseURL),
		alphavantage.WithRateLimit(config.Clients.AlphaVantage.RateLimit),
		alphavantage.WithTimeout(config.Clients.AlphaVantage.GetTimeout()),
		alphavantage.WithLogger(logger),
	)

	cryptoClient := coingecko.NewClient(
		priceCache,
		coingecko.WithBaseURL(config.Clients.CoinGecko.BaseURL),
		coingecko.WithTimeout(config.Clients.CoinGecko.GetTimeout()),
		coingecko.WithLogger(logger),
	)

	valuationService := valuation.NewService(stockClient, cryptoClient, logger)
	dashboardService := dashboard.NewService()

	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.GetVersion()).
		Msg("App initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		PriceCache:       priceCache,
		StockClient:      stockClient,
		CryptoClient:     cryptoClient,
		ValuationService: valuationService,
		DashboardService: dashboardService,
		StartupTime:      time.Now(),
	}, nil
}

// Close releases app resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage")
		}
	}
}
