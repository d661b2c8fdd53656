// Package services provides cross-module orchestration services.
package services

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/domain"
	"github.com/runwaylabs/sovereign/internal/modules/badges"
	"github.com/runwaylabs/sovereign/internal/modules/portfolio"
	"github.com/runwaylabs/sovereign/internal/modules/settings"
	"github.com/runwaylabs/sovereign/internal/modules/snapshots"
	"github.com/runwaylabs/sovereign/internal/modules/sovereignty"
)

// RefreshInput is one wallet refresh request from the dashboard.
// Holdings, when present, define the portfolio value and the hard money
// percentage; PortfolioUSD is the fallback for callers that only know the
// aggregate figure. Monthly expenses come from the wallet's stored settings.
type RefreshInput struct {
	Wallet       string           `json:"wallet"`
	PortfolioUSD float64          `json:"portfolio_usd"`
	AssetPrice   float64          `json:"asset_price"`
	Holdings     []domain.Holding `json:"holdings"`
}

// RefreshResult bundles everything the dashboard renders after a refresh.
type RefreshResult struct {
	Wallet      string                   `json:"wallet"`
	Sovereignty sovereignty.Result       `json:"sovereignty"`
	Breakdown   *portfolio.Breakdown     `json:"breakdown,omitempty"`
	Badges      *badges.WalletEvaluation `json:"badges"`
	Snapshot    *domain.Snapshot         `json:"snapshot"`
}

// WalletRefreshService runs the full refresh pipeline: stored expenses →
// holdings breakdown → sovereignty computation → snapshot recording →
// badge evaluation with newly-earned diffing.
type WalletRefreshService struct {
	settingsRepo    *settings.Repository
	snapshotService *snapshots.Service
	badgeService    *badges.Service
	log             zerolog.Logger
}

// NewWalletRefreshService creates a wallet refresh service.
func NewWalletRefreshService(
	settingsRepo *settings.Repository,
	snapshotService *snapshots.Service,
	badgeService *badges.Service,
	log zerolog.Logger,
) *WalletRefreshService {
	return &WalletRefreshService{
		settingsRepo:    settingsRepo,
		snapshotService: snapshotService,
		badgeService:    badgeService,
		log:             log.With().Str("service", "wallet_refresh").Logger(),
	}
}

// Refresh executes the pipeline for one wallet.
func (s *WalletRefreshService) Refresh(input RefreshInput) (*RefreshResult, error) {
	if input.Wallet == "" {
		return nil, fmt.Errorf("wallet address is required")
	}

	monthlyExpenses := 0.0
	stored, err := s.settingsRepo.Get(input.Wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet settings: %w", err)
	}
	if stored != nil {
		monthlyExpenses = stored.MonthlyExpenses
	}

	portfolioUSD := input.PortfolioUSD
	hardMoneyPct := 0.0
	var breakdown *portfolio.Breakdown
	if len(input.Holdings) > 0 {
		breakdown, err = portfolio.ComputeBreakdown(input.Holdings)
		if err != nil {
			return nil, fmt.Errorf("invalid holdings: %w", err)
		}
		portfolioUSD = breakdown.TotalUSD
		hardMoneyPct = breakdown.HardMoneyPct
	}

	result := sovereignty.Compute(portfolioUSD, monthlyExpenses, input.AssetPrice)

	snapshot, err := s.snapshotService.Record(input.Wallet, portfolioUSD, result.Ratio, result.Status, hardMoneyPct)
	if err != nil {
		return nil, err
	}

	badgeState, err := s.badgeService.EvaluateForWallet(input.Wallet, result.Ratio, hardMoneyPct)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("wallet", input.Wallet).
		Float64("ratio", result.Ratio).
		Str("status", result.Status).
		Int("badges_earned", badgeState.EarnedCount).
		Msg("Wallet refreshed")

	return &RefreshResult{
		Wallet:      input.Wallet,
		Sovereignty: result,
		Breakdown:   breakdown,
		Badges:      badgeState,
		Snapshot:    snapshot,
	}, nil
}
