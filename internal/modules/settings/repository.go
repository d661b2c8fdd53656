// Package settings provides per-wallet stored inputs for the dashboard.
// Storing monthly expenses server-side lets the dashboard refresh a wallet's
// metrics without resending the expense figure on every call.
// Database: config.db (wallet_settings table).
package settings

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// WalletSettings holds the stored inputs for one wallet.
type WalletSettings struct {
	Wallet          string    `json:"wallet"`
	MonthlyExpenses float64   `json:"monthly_expenses"`
	DisplayCurrency string    `json:"display_currency"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Repository handles wallet settings database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new wallet settings repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "wallet_settings").Logger(),
	}
}

// EnsureSchema creates the wallet_settings table if it does not exist.
func (r *Repository) EnsureSchema() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS wallet_settings (
		wallet TEXT PRIMARY KEY,
		monthly_expenses REAL NOT NULL DEFAULT 0,
		display_currency TEXT NOT NULL DEFAULT 'USD',
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create wallet_settings table: %w", err)
	}
	return nil
}

// Get returns the settings for a wallet, or nil when none are stored.
func (r *Repository) Get(wallet string) (*WalletSettings, error) {
	var s WalletSettings
	var updatedAt string
	err := r.db.QueryRow(
		"SELECT wallet, monthly_expenses, display_currency, updated_at FROM wallet_settings WHERE wallet = ?",
		wallet,
	).Scan(&s.Wallet, &s.MonthlyExpenses, &s.DisplayCurrency, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet settings: %w", err)
	}

	s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at for %s: %w", wallet, err)
	}
	return &s, nil
}

// Upsert stores the settings for a wallet, replacing any previous values.
// Negative expenses are clamped to zero: the calculator treats zero as
// "expenses unknown" and there is no meaningful negative input.
func (r *Repository) Upsert(s WalletSettings) error {
	if s.Wallet == "" {
		return fmt.Errorf("wallet address is required")
	}
	if s.MonthlyExpenses < 0 {
		s.MonthlyExpenses = 0
	}
	if s.DisplayCurrency == "" {
		s.DisplayCurrency = "USD"
	}

	_, err := r.db.Exec(`INSERT INTO wallet_settings (wallet, monthly_expenses, display_currency, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(wallet) DO UPDATE SET
			monthly_expenses = excluded.monthly_expenses,
			display_currency = excluded.display_currency,
			updated_at = excluded.updated_at`,
		s.Wallet, s.MonthlyExpenses, s.DisplayCurrency, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert wallet settings: %w", err)
	}
	return nil
}
