package models

import "time"

// Portfolio groups a user's investments under a name.
type Portfolio struct {
	ID        string    `json:"id" badgerhold:"key"`
	UserID    string    `json:"userId" badgerhold:"index"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PortfolioWithCount is a portfolio plus its investment count, as returned
// by the portfolio list endpoint.
type PortfolioWithCount struct {
	Portfolio
	InvestmentCount int `json:"investmentCount"`
}
