package snapshots

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/domain"
	"github.com/runwaylabs/sovereign/internal/events"
)

// Service records snapshots and publishes the corresponding events.
type Service struct {
	repo     *Repository
	eventBus *events.Bus
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a snapshot service. eventBus may be nil in tests.
func NewService(repo *Repository, eventBus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		now:      time.Now,
		log:      log.With().Str("service", "snapshots").Logger(),
	}
}

// Record persists one observation for a wallet and returns the stored row.
func (s *Service) Record(wallet string, portfolioUSD, ratio float64, status string, hardMoneyPct float64) (*domain.Snapshot, error) {
	snapshot := domain.Snapshot{
		ID:           uuid.New().String(),
		Wallet:       wallet,
		RecordedAt:   s.now().UTC(),
		PortfolioUSD: portfolioUSD,
		Ratio:        ratio,
		Status:       status,
		HardMoneyPct: hardMoneyPct,
	}

	if err := s.repo.Insert(snapshot); err != nil {
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}

	s.log.Debug().
		Str("wallet", wallet).
		Float64("ratio", ratio).
		Str("status", status).
		Msg("Snapshot recorded")

	if s.eventBus != nil {
		s.eventBus.Publish(&events.SnapshotRecordedData{
			Wallet: wallet,
			Ratio:  ratio,
			Status: status,
		})
	}
	return &snapshot, nil
}

// History returns a wallet's snapshots, oldest first.
func (s *Service) History(wallet string, limit int) ([]domain.Snapshot, error) {
	return s.repo.ListByWallet(wallet, limit)
}

// Prune deletes snapshots older than the retention window.
func (s *Service) Prune(retentionDays int) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	deleted, err := s.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Pruned old snapshots")
	}
	return deleted, nil
}
