package models

// EnrichedInvestment is an investment joined with its live market price and
// the derived per-holding metrics. Field names below are a wire contract
// consumed by the dashboard and portfolio views.
type EnrichedInvestment struct {
	Investment
	CurrentPrice  float64 `json:"currentPrice"`
	CurrentValue  float64 `json:"currentValue"`
	CostBasis     float64 `json:"costBasis"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
}

// PortfolioValuation is the computed value of one portfolio's investments.
// Recomputed on every request; only the underlying quotes are cached.
type PortfolioValuation struct {
	Investments        []EnrichedInvestment `json:"investments"`
	TotalValue         float64              `json:"totalValue"`
	TotalCost          float64              `json:"totalCost"`
	TotalProfit        float64              `json:"totalProfit"`
	TotalProfitPercent float64              `json:"totalProfitPercent"`
}

// PortfolioAnalytics is a PortfolioValuation tagged with its portfolio
// identity, as embedded in the dashboard response.
type PortfolioAnalytics struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	PortfolioValuation
}

// DashboardStats aggregates valuations across all of a user's portfolios.
type DashboardStats struct {
	TotalPortfolios    int     `json:"totalPortfolios"`
	TotalInvestments   int     `json:"totalInvestments"`
	TotalValue         float64 `json:"totalValue"`
	TotalCost          float64 `json:"totalCost"`
	TotalProfit        float64 `json:"totalProfit"`
	TotalProfitPercent float64 `json:"totalProfitPercent"`
}
