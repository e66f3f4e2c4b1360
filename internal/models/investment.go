package models

import (
	"fmt"
	"strings"
	"time"
)

// AssetType identifies the market an investment trades on.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
)

// TransactionType identifies the direction of a recorded transaction.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// MaxShares and MaxPurchasePrice bound user input on investment records.
const (
	MaxShares        = 1_000_000
	MaxPurchasePrice = 1_000_000
)

// Investment represents one recorded buy/sell transaction for a symbol
// within a portfolio. Sell rows are stored as independent transactions,
// not netted against prior buys.
type Investment struct {
	ID              string          `json:"id" badgerhold:"key"`
	PortfolioID     string          `json:"portfolioId" badgerhold:"index"`
	Symbol          string          `json:"symbol"`
	AssetType       AssetType       `json:"assetType"`
	TransactionType TransactionType `json:"transactionType"`
	Shares          float64         `json:"shares"`
	PurchasePrice   float64         `json:"purchasePrice"`
	PurchaseDate    time.Time       `json:"purchaseDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Validate checks the fields the valuation engine depends on. A failure here
// means malformed caller input, not a data-provider issue.
func (inv *Investment) Validate() error {
	if strings.TrimSpace(inv.Symbol) == "" {
		return fmt.Errorf("%w: symbol cannot be empty", ErrInvalidInput)
	}
	switch inv.AssetType {
	case AssetTypeStock, AssetTypeCrypto:
	default:
		return fmt.Errorf("%w: unrecognized asset type %q", ErrInvalidInput, inv.AssetType)
	}
	switch inv.TransactionType {
	case TransactionTypeBuy, TransactionTypeSell:
	default:
		return fmt.Errorf("%w: unrecognized transaction type %q", ErrInvalidInput, inv.TransactionType)
	}
	if inv.Shares <= 0 {
		return fmt.Errorf("%w: shares must be greater than 0", ErrInvalidInput)
	}
	if inv.PurchasePrice <= 0 {
		return fmt.Errorf("%w: purchase price must be greater than 0", ErrInvalidInput)
	}
	return nil
}
