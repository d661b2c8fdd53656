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

func TestHandleEvaluate(t *testing.T) {
	router := setupTestRouter()

	body := `{"ratio": 6, "hard_money_pct": 10}`
	req := httptest.NewRequest(http.MethodPost, "/badges/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Badges []struct {
			ID     string `json:"id"`
			Earned bool   `json:"earned"`
		} `json:"badges"`
		EarnedCount int `json:"earned_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	earned := map[string]bool{}
	for _, b := range result.Badges {
		earned[b.ID] = b.Earned
	}
	assert.True(t, earned["antifragile"])
	assert.False(t, earned["hard_money_maximalist"])
	assert.Equal(t, 4, result.EarnedCount) // first_runway, year_of_freedom, robust_stack, antifragile
}

func TestHandleEvaluateIncludesNextBadge(t *testing.T) {
	router := setupTestRouter()

	body := `{"ratio": 1.5, "hard_money_pct": 0}`
	req := httptest.NewRequest(http.MethodPost, "/badges/evaluate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		NextBadge *struct {
			ID string `json:"id"`
		} `json:"next_badge"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.NextBadge)
	assert.Equal(t, "robust_stack", result.NextBadge.ID)
}

func TestHandleEvaluateRejectsMalformedJSON(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/badges/evaluate", strings.NewReader("nope"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCatalog(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/badges/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Badges []struct {
			ID     string `json:"id"`
			Rarity string `json:"rarity"`
		} `json:"badges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.GreaterOrEqual(t, len(result.Badges), 5)
	assert.NotEmpty(t, result.Badges[0].Rarity)
}
