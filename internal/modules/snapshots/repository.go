// Package snapshots records and serves historical sovereignty observations.
// Every successful wallet refresh appends one snapshot row; the charts
// module aggregates the series for the dashboard's historical views.
// Database: history.db (snapshots table).
package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/domain"
)

// Repository handles snapshot database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "snapshots").Logger(),
	}
}

// EnsureSchema creates the snapshots table and its indexes.
func (r *Repository) EnsureSchema() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		wallet TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		portfolio_usd REAL NOT NULL,
		ratio REAL NOT NULL,
		status TEXT NOT NULL,
		hard_money_pct REAL NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}
	_, err = r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_snapshots_wallet_time
		ON snapshots (wallet, recorded_at)`)
	if err != nil {
		return fmt.Errorf("failed to create snapshots index: %w", err)
	}
	return nil
}

// Insert appends one snapshot row.
func (r *Repository) Insert(s domain.Snapshot) error {
	_, err := r.db.Exec(`INSERT INTO snapshots
		(id, wallet, recorded_at, portfolio_usd, ratio, status, hard_money_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Wallet, s.RecordedAt.UTC().Format(time.RFC3339),
		s.PortfolioUSD, s.Ratio, s.Status, s.HardMoneyPct)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// ListByWallet returns a wallet's snapshots ordered oldest first.
// limit <= 0 returns the full history.
func (r *Repository) ListByWallet(wallet string, limit int) ([]domain.Snapshot, error) {
	query := `SELECT id, wallet, recorded_at, portfolio_usd, ratio, status, hard_money_pct
		FROM snapshots WHERE wallet = ? ORDER BY recorded_at ASC`
	args := []interface{}{wallet}
	if limit > 0 {
		// Keep the most recent rows but preserve ascending order for charts.
		query = `SELECT id, wallet, recorded_at, portfolio_usd, ratio, status, hard_money_pct
			FROM (
				SELECT id, wallet, recorded_at, portfolio_usd, ratio, status, hard_money_pct
				FROM snapshots WHERE wallet = ? ORDER BY recorded_at DESC LIMIT ?
			) ORDER BY recorded_at ASC`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var result []domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		var recordedAt string
		if err := rows.Scan(&s.ID, &s.Wallet, &recordedAt, &s.PortfolioUSD, &s.Ratio, &s.Status, &s.HardMoneyPct); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.RecordedAt, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at for snapshot %s: %w", s.ID, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return result, nil
}

// Latest returns a wallet's most recent snapshot, or nil when none exist.
func (r *Repository) Latest(wallet string) (*domain.Snapshot, error) {
	rows, err := r.ListByWallet(wallet, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// DeleteOlderThan removes snapshots recorded before the cutoff and returns
// the number of rows deleted. Used by the retention cleanup job.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM snapshots WHERE recorded_at < ?",
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old snapshots: %w", err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

// Count returns the total number of stored snapshots.
func (r *Repository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}
