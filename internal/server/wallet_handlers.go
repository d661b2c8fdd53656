package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/di"
	"github.com/runwaylabs/sovereign/internal/domain"
	"github.com/runwaylabs/sovereign/internal/modules/settings"
	"github.com/runwaylabs/sovereign/internal/services"
)

// WalletHandlers serves the per-wallet routes. These orchestrate across
// modules (settings, snapshots, charts, badges), which is why they live in
// the server package rather than under any single module.
type WalletHandlers struct {
	container *di.Container
	log       zerolog.Logger
}

// NewWalletHandlers creates the wallet handlers.
func NewWalletHandlers(container *di.Container, log zerolog.Logger) *WalletHandlers {
	return &WalletHandlers{
		container: container,
		log:       log.With().Str("handler", "wallets").Logger(),
	}
}

// RegisterRoutes registers all wallet routes.
func (h *WalletHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/wallets/{address}", func(r chi.Router) {
		r.Post("/refresh", h.HandleRefresh)
		r.Get("/settings", h.HandleGetSettings)
		r.Put("/settings", h.HandlePutSettings)
		r.Get("/snapshots", h.HandleGetSnapshots)
		r.Get("/charts/ratio", h.HandleGetRatioChart)
		r.Get("/badges/history", h.HandleGetBadgeHistory)
	})
}

type refreshRequest struct {
	PortfolioUSD float64       `json:"portfolio_usd"`
	AssetPrice   float64       `json:"asset_price"`
	Holdings     []jsonHolding `json:"holdings"`
}

// jsonHolding mirrors domain.Holding; declared locally so the request shape
// stays stable even if the domain type grows fields.
type jsonHolding struct {
	AssetID  string  `json:"asset_id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	PriceUSD float64 `json:"price_usd"`
	Class    string  `json:"class"`
}

func (j jsonHolding) toDomain() domain.Holding {
	return domain.Holding{
		AssetID:  j.AssetID,
		Name:     j.Name,
		Amount:   j.Amount,
		PriceUSD: j.PriceUSD,
		Class:    domain.AssetClass(j.Class),
	}
}

// HandleRefresh handles POST /api/wallets/{address}/refresh.
func (h *WalletHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	input := services.RefreshInput{
		Wallet:       address,
		PortfolioUSD: req.PortfolioUSD,
		AssetPrice:   req.AssetPrice,
	}
	for _, holding := range req.Holdings {
		input.Holdings = append(input.Holdings, holding.toDomain())
	}

	result, err := h.container.RefreshService.Refresh(input)
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, h.log, http.StatusOK, result)
}

// HandleGetSettings handles GET /api/wallets/{address}/settings.
func (h *WalletHandlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	stored, err := h.container.SettingsRepo.Get(address)
	if err != nil {
		writeError(w, h.log, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if stored == nil {
		writeError(w, h.log, http.StatusNotFound, "no settings for wallet")
		return
	}
	writeJSON(w, h.log, http.StatusOK, stored)
}

type putSettingsRequest struct {
	MonthlyExpenses float64 `json:"monthly_expenses"`
	DisplayCurrency string  `json:"display_currency"`
}

// HandlePutSettings handles PUT /api/wallets/{address}/settings.
func (h *WalletHandlers) HandlePutSettings(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	var req putSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "invalid request body")
		return
	}

	s := settings.WalletSettings{
		Wallet:          address,
		MonthlyExpenses: req.MonthlyExpenses,
		DisplayCurrency: req.DisplayCurrency,
	}
	if err := h.container.SettingsRepo.Upsert(s); err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := h.container.SettingsRepo.Get(address)
	if err != nil {
		writeError(w, h.log, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, h.log, http.StatusOK, stored)
}

// HandleGetSnapshots handles GET /api/wallets/{address}/snapshots?limit=N.
func (h *WalletHandlers) HandleGetSnapshots(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, h.log, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	history, err := h.container.SnapshotService.History(address, limit)
	if err != nil {
		writeError(w, h.log, http.StatusInternalServerError, "failed to load snapshots")
		return
	}
	if history == nil {
		history = []domain.Snapshot{}
	}
	writeJSON(w, h.log, http.StatusOK, map[string]interface{}{"snapshots": history})
}

// HandleGetRatioChart handles GET /api/wallets/{address}/charts/ratio?period=.
func (h *WalletHandlers) HandleGetRatioChart(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "90D"
	}

	series, err := h.container.ChartsService.GetRatioSeries(address, period)
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, h.log, http.StatusOK, series)
}

// HandleGetBadgeHistory handles GET /api/wallets/{address}/badges/history.
func (h *WalletHandlers) HandleGetBadgeHistory(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")

	seen, err := h.container.BadgeService.SeenIDs(address)
	if err != nil {
		writeError(w, h.log, http.StatusInternalServerError, "failed to load badge history")
		return
	}
	writeJSON(w, h.log, http.StatusOK, map[string]interface{}{"seen_badge_ids": seen})
}
