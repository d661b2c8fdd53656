package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *chi.Mux {
	h := NewHandler(zerolog.New(nil).Level(zerolog.Disabled))
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestHandleBreakdown(t *testing.T) {
	router := setupTestRouter()

	body := `{"holdings": [
		{"asset_id": "GOLD", "amount": 10, "price_usd": 100, "class": "hard"},
		{"asset_id": "USDC", "amount": 1000, "price_usd": 1, "class": "fiat"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/portfolio/breakdown", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		TotalUSD     float64 `json:"total_usd"`
		HardMoneyPct float64 `json:"hard_money_pct"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2000.0, result.TotalUSD)
	assert.Equal(t, 50.0, result.HardMoneyPct)
}

func TestHandleBreakdownRejectsUnknownClass(t *testing.T) {
	router := setupTestRouter()

	body := `{"holdings": [{"asset_id": "X", "amount": 1, "price_usd": 1, "class": "exotic"}]}`
	req := httptest.NewRequest(http.MethodPost, "/portfolio/breakdown", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBreakdownRejectsMalformedJSON(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/portfolio/breakdown", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
