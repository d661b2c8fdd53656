package badges

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// HistoryRepository stores the set of badge IDs each wallet has been
// observed earning. The evaluator itself is stateless; this store exists so
// the service can diff a fresh evaluation against what the wallet has
// already seen and report only the newly earned badges.
//
// The ID set is stored as a msgpack-encoded blob per wallet. Database:
// config.db (badge_history table).
type HistoryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryRepository creates a new badge history repository.
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("repository", "badge_history").Logger(),
	}
}

// EnsureSchema creates the badge_history table if it does not exist.
func (r *HistoryRepository) EnsureSchema() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS badge_history (
		wallet TEXT PRIMARY KEY,
		earned_ids BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create badge_history table: %w", err)
	}
	return nil
}

// GetSeenIDs returns the badge IDs previously observed for a wallet.
// A wallet with no history returns an empty slice, not an error.
func (r *HistoryRepository) GetSeenIDs(wallet string) ([]string, error) {
	var blob []byte
	err := r.db.QueryRow("SELECT earned_ids FROM badge_history WHERE wallet = ?", wallet).Scan(&blob)
	if err == sql.ErrNoRows {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query badge history: %w", err)
	}

	var ids []string
	if err := msgpack.Unmarshal(blob, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode badge history for %s: %w", wallet, err)
	}
	return ids, nil
}

// SaveSeenIDs replaces the stored badge ID set for a wallet.
func (r *HistoryRepository) SaveSeenIDs(wallet string, ids []string) error {
	blob, err := msgpack.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode badge history: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO badge_history (wallet, earned_ids, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(wallet) DO UPDATE SET earned_ids = excluded.earned_ids, updated_at = excluded.updated_at`,
		wallet, blob, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save badge history: %w", err)
	}
	return nil
}
