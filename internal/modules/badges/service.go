package badges

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/events"
)

// Service layers "newly earned" tracking on top of the pure evaluator.
// It diffs each fresh evaluation against the wallet's previously seen badge
// set, persists the union, and publishes an unlock event when new badges
// appear. The dashboard uses the event to trigger its celebration animation.
type Service struct {
	history  *HistoryRepository
	eventBus *events.Bus
	log      zerolog.Logger
}

// NewService creates a badge service. eventBus may be nil in contexts that
// do not stream events (tests, one-off evaluations).
func NewService(history *HistoryRepository, eventBus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		history:  history,
		eventBus: eventBus,
		log:      log.With().Str("service", "badges").Logger(),
	}
}

// WalletEvaluation is an evaluation enriched with per-wallet transition state.
type WalletEvaluation struct {
	Evaluations []Evaluation `json:"badges"`
	EarnedCount int          `json:"earned_count"`
	NewlyEarned []string     `json:"newly_earned"`
	NextBadge   *Definition  `json:"next_badge,omitempty"`
}

// EvaluateForWallet evaluates the catalog and computes which earned badges
// the wallet has never been observed with before. The stored set is
// cumulative: once seen, a badge never reports as newly earned again, even
// if the wallet's metrics later dip below its threshold.
func (s *Service) EvaluateForWallet(wallet string, ratio, hardMoneyPct float64) (*WalletEvaluation, error) {
	evals := Evaluate(ratio, hardMoneyPct)
	earned := EarnedIDs(evals)

	seen, err := s.history.GetSeenIDs(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge history: %w", err)
	}

	seenSet := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		seenSet[id] = struct{}{}
	}

	newlyEarned := []string{}
	for _, id := range earned {
		if _, ok := seenSet[id]; !ok {
			newlyEarned = append(newlyEarned, id)
			seen = append(seen, id)
		}
	}

	if len(newlyEarned) > 0 {
		if err := s.history.SaveSeenIDs(wallet, seen); err != nil {
			return nil, fmt.Errorf("failed to save badge history: %w", err)
		}
		s.log.Info().
			Str("wallet", wallet).
			Strs("badges", newlyEarned).
			Msg("Wallet unlocked new badges")
		if s.eventBus != nil {
			s.eventBus.Publish(&events.BadgesUnlockedData{Wallet: wallet, BadgeIDs: newlyEarned})
		}
	}

	return &WalletEvaluation{
		Evaluations: evals,
		EarnedCount: EarnedCount(evals),
		NewlyEarned: newlyEarned,
		NextBadge:   NextBadge(evals),
	}, nil
}

// SeenIDs exposes the wallet's stored badge history for the dashboard's
// badge cabinet view.
func (s *Service) SeenIDs(wallet string) ([]string, error) {
	return s.history.GetSeenIDs(wallet)
}
