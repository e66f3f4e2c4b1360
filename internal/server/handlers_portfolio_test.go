package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petermason/folio/internal/models"
)

func createPortfolio(t *testing.T, h *testHarness, token, name string) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/portfolios", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	portfolio := body["portfolio"].(map[string]interface{})
	return portfolio["id"].(string)
}

func addInvestment(t *testing.T, h *testHarness, token, portfolioID string, body map[string]interface{}) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/portfolios/"+portfolioID+"/investments", body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	inv := resp["investment"].(map[string]interface{})
	return inv["id"].(string)
}

func TestCreatePortfolio_DuplicateName(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")

	createPortfolio(t, h, token, "Growth")

	rec := doRequest(t, h, http.MethodPost, "/api/portfolios", map[string]string{"name": "growth"}, token)
	assert.Equal(t, http.StatusConflict, rec.Code, "name uniqueness is case-insensitive per user")

	// A different user can reuse the name.
	otherToken := registerAndLogin(t, h, "grace@example.com")
	rec = doRequest(t, h, http.MethodPost, "/api/portfolios", map[string]string{"name": "Growth"}, otherToken)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListPortfolios_IncludesCounts(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")
	id := createPortfolio(t, h, token, "Growth")

	addInvestment(t, h, token, id, map[string]interface{}{
		"symbol": "aapl", "assetType": "stock", "transactionType": "buy",
		"shares": 10.0, "purchasePrice": 100.0,
	})

	rec := doRequest(t, h, http.MethodGet, "/api/portfolios", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	portfolios := body["portfolios"].([]interface{})
	require.Len(t, portfolios, 1)
	assert.Equal(t, 1.0, portfolios[0].(map[string]interface{})["investmentCount"])
}

func TestGetPortfolio_OwnershipEnforced(t *testing.T) {
	h := newTestHarness()
	adaToken := registerAndLogin(t, h, "ada@example.com")
	id := createPortfolio(t, h, adaToken, "Growth")

	graceToken := registerAndLogin(t, h, "grace@example.com")
	rec := doRequest(t, h, http.MethodGet, "/api/portfolios/"+id, nil, graceToken)
	assert.Equal(t, http.StatusNotFound, rec.Code, "foreign portfolios must look like they do not exist")

	rec = doRequest(t, h, http.MethodGet, "/api/portfolios/"+id, nil, adaToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdatePortfolio(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")
	id := createPortfolio(t, h, token, "Growth")

	rec := doRequest(t, h, http.MethodPut, "/api/portfolios/"+id, map[string]string{"name": "Long Term"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/portfolios/"+id, nil, token)
	body := decodeBody(t, rec)
	portfolio := body["portfolio"].(map[string]interface{})
	assert.Equal(t, "Long Term", portfolio["name"])
}

func TestDeletePortfolio_CascadesToInvestments(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")
	id := createPortfolio(t, h, token, "Growth")
	invID := addInvestment(t, h, token, id, map[string]interface{}{
		"symbol": "AAPL", "assetType": "stock", "transactionType": "buy",
		"shares": 10.0, "purchasePrice": 100.0,
	})

	rec := doRequest(t, h, http.MethodDelete, "/api/portfolios/"+id, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/portfolios/"+id, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/investments/"+invID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddInvestment_Validation(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")
	id := createPortfolio(t, h, token, "Growth")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"zero shares", map[string]interface{}{
			"symbol": "AAPL", "assetType": "stock", "transactionType": "buy",
			"shares": 0.0, "purchasePrice": 100.0,
		}},
		{"negative price", map[string]interface{}{
			"symbol": "AAPL", "assetType": "stock", "transactionType": "buy",
			"shares": 1.0, "purchasePrice": -5.0,
		}},
		{"unknown asset type", map[string]interface{}{
			"symbol": "AAPL", "assetType": "bond", "transactionType": "buy",
			"shares": 1.0, "purchasePrice": 100.0,
		}},
		{"unknown transaction type", map[string]interface{}{
			"symbol": "AAPL", "assetType": "stock", "transactionType": "short",
			"shares": 1.0, "purchasePrice": 100.0,
		}},
		{"symbol too long", map[string]interface{}{
			"symbol": "ABCDEFGHIJK", "assetType": "stock", "transactionType": "buy",
			"shares": 1.0, "purchasePrice": 100.0,
		}},
		{"shares above cap", map[string]interface{}{
			"symbol": "AAPL", "assetType": "stock", "transactionType": "buy",
			"shares": 1_000_001.0, "purchasePrice": 100.0,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/portfolios/"+id+"/investments", tc.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestAddInvestment_UppercasesSymbol(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")
	id := createPortfolio(t, h, token, "Crypto")

	invID := addInvestment(t, h, token, id, map[string]interface{}{
		"symbol": "btc", "assetType": "crypto", "transactionType": "buy",
		"shares": 0.5, "purchasePrice": 20000.0,
		"purchaseDate": "2024-01-15",
	})

	rec := doRequest(t, h, http.MethodGet, "/api/investments/"+invID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	inv := decodeBody(t, rec)["investment"].(map[string]interface{})
	assert.Equal(t, "BTC", inv["symbol"])
	assert.Equal(t, string(models.AssetTypeCrypto), inv["assetType"])
}

func TestUpdateAndDeleteInvestment(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")
	id := createPortfolio(t, h, token, "Growth")
	invID := addInvestment(t, h, token, id, map[string]interface{}{
		"symbol": "AAPL", "assetType": "stock", "transactionType": "buy",
		"shares": 10.0, "purchasePrice": 100.0,
	})

	rec := doRequest(t, h, http.MethodPut, "/api/investments/"+invID, map[string]interface{}{
		"symbol": "AAPL", "assetType": "stock", "transactionType": "sell",
		"shares": 5.0, "purchasePrice": 120.0,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	inv := decodeBody(t, rec)["investment"].(map[string]interface{})
	assert.Equal(t, "sell", inv["transactionType"])
	assert.Equal(t, 5.0, inv["shares"])

	rec = doRequest(t, h, http.MethodDelete, "/api/investments/"+invID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/investments/"+invID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
