package badges

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/runwaylabs/sovereign/internal/events"
)

func setupTestService(t *testing.T) (*Service, *events.Bus) {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewHistoryRepository(db, logger)
	require.NoError(t, repo.EnsureSchema())

	bus := events.NewBus(logger)
	return NewService(repo, bus, logger), bus
}

func TestEvaluateForWalletFirstEvaluationIsAllNew(t *testing.T) {
	svc, _ := setupTestService(t)

	result, err := svc.EvaluateForWallet("WALLET1", 1.0, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, result.EarnedCount)
	assert.Equal(t, []string{"first_runway", "year_of_freedom"}, result.NewlyEarned)
	require.NotNil(t, result.NextBadge)
	assert.Equal(t, "robust_stack", result.NextBadge.ID)
}

func TestEvaluateForWalletRepeatIsNotNew(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.EvaluateForWallet("WALLET1", 1.0, 0)
	require.NoError(t, err)

	result, err := svc.EvaluateForWallet("WALLET1", 1.0, 0)
	require.NoError(t, err)
	assert.Empty(t, result.NewlyEarned)
	assert.Equal(t, 2, result.EarnedCount)
}

func TestEvaluateForWalletOnlyTransitionIsNew(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.EvaluateForWallet("WALLET1", 1.0, 0)
	require.NoError(t, err)

	result, err := svc.EvaluateForWallet("WALLET1", 3.0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"robust_stack"}, result.NewlyEarned)
}

func TestEvaluateForWalletHistoryIsCumulative(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.EvaluateForWallet("WALLET1", 3.0, 0)
	require.NoError(t, err)

	// Metrics dip below a previously earned threshold, then recover:
	// no re-celebration.
	_, err = svc.EvaluateForWallet("WALLET1", 0.5, 0)
	require.NoError(t, err)

	result, err := svc.EvaluateForWallet("WALLET1", 3.0, 0)
	require.NoError(t, err)
	assert.Empty(t, result.NewlyEarned)

	seen, err := svc.SeenIDs("WALLET1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first_runway", "year_of_freedom", "robust_stack"}, seen)
}

func TestEvaluateForWalletIsolatedPerWallet(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.EvaluateForWallet("WALLET1", 1.0, 0)
	require.NoError(t, err)

	result, err := svc.EvaluateForWallet("WALLET2", 1.0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"first_runway", "year_of_freedom"}, result.NewlyEarned)
}

func TestEvaluateForWalletPublishesUnlockEvent(t *testing.T) {
	svc, bus := setupTestService(t)
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	_, err := svc.EvaluateForWallet("WALLET1", 0.3, 0)
	require.NoError(t, err)

	event := <-ch
	assert.Equal(t, events.BadgesUnlocked, event.Type)
	data, ok := event.Data.(*events.BadgesUnlockedData)
	require.True(t, ok)
	assert.Equal(t, "WALLET1", data.Wallet)
	assert.Equal(t, []string{"first_runway"}, data.BadgeIDs)
}

func TestHistoryRepositoryRoundTrip(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewHistoryRepository(db, logger)
	require.NoError(t, repo.EnsureSchema())

	ids, err := repo.GetSeenIDs("UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.SaveSeenIDs("W1", []string{"a", "b"}))
	require.NoError(t, repo.SaveSeenIDs("W1", []string{"a", "b", "c"}))

	ids, err = repo.GetSeenIDs("W1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
