package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/petermason/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)

	// Portfolios
	mux.HandleFunc("/api/portfolios", s.requireAuth(s.handlePortfolios))
	mux.HandleFunc("/api/portfolios/", s.requireAuth(s.routePortfolio))

	// Investments
	mux.HandleFunc("/api/investments/", s.requireAuth(s.handleInvestment))

	// Dashboard
	mux.HandleFunc("/api/dashboard/stats", s.requireAuth(s.handleDashboardStats))

	// Market data + search
	mux.HandleFunc("/api/search", s.requireAuth(s.handleSearch))
	mux.HandleFunc("/api/market-data/stocks/", s.requireAuth(s.handleStockQuote))
	mux.HandleFunc("/api/market-data/crypto/", s.requireAuth(s.handleCryptoQuote))
	mux.HandleFunc("/api/market-data/", s.requireAuth(s.handleMarketData))
}

// routePortfolio dispatches /api/portfolios/{id}[/investments|/analytics].
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	switch {
	case strings.HasSuffix(rest, "/investments"):
		s.handlePortfolioInvestments(w, r)
	case strings.HasSuffix(rest, "/analytics"):
		s.handlePortfolioAnalytics(w, r)
	default:
		s.handlePortfolio(w, r)
	}
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
