package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, h *testHarness, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// registerAndLogin creates a user and returns a valid bearer token.
func registerAndLogin(t *testing.T, h *testHarness, email string) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegister_Success(t *testing.T) {
	h := newTestHarness()

	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Ada Lovelace",
		"email":    "Ada@Example.com",
		"password": "secret123",
	}, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"], "email should be normalized to lowercase")
	assert.NotContains(t, rec.Body.String(), "secret123")
	assert.NotContains(t, rec.Body.String(), "PasswordHash")
}

func TestRegister_Validation(t *testing.T) {
	h := newTestHarness()

	cases := []struct {
		name string
		body map[string]string
	}{
		{"short name", map[string]string{"name": "A", "email": "a@b.com", "password": "secret123"}},
		{"bad email", map[string]string{"name": "Ada", "email": "not-an-email", "password": "secret123"}},
		{"short password", map[string]string{"name": "Ada", "email": "a@b.com", "password": "abc"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/auth/register", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newTestHarness()
	registerAndLogin(t, h, "ada@example.com")

	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Another Ada",
		"email":    "ada@example.com",
		"password": "different1",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newTestHarness()
	registerAndLogin(t, h, "ada@example.com")

	rec := doRequest(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	h := newTestHarness()

	rec := doRequest(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	h := newTestHarness()

	rec := doRequest(t, h, http.MethodGet, "/api/portfolios", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/portfolios", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoute_AcceptsValidToken(t *testing.T) {
	h := newTestHarness()
	token := registerAndLogin(t, h, "ada@example.com")

	rec := doRequest(t, h, http.MethodGet, "/api/portfolios", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestHarness()

	rec := doRequest(t, h, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = doRequest(t, h, http.MethodGet, "/api/version", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
