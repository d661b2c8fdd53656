// Package database provides database connection and initialization functionality.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Profile defines different configuration profiles for databases.
type Profile string

const (
	// ProfileStandard - balanced configuration for settings and badge history
	ProfileStandard Profile = "standard"
	// ProfileHistory - tuned for append-heavy snapshot time series
	ProfileHistory Profile = "history"
)

// DB wraps a database connection with production-grade configuration.
type DB struct {
	conn    *sql.DB
	path    string
	profile Profile
	name    string // Database name for logging
}

// Config holds database configuration.
type Config struct {
	Path    string
	Profile Profile
	Name    string // Friendly name for logging (e.g., "config", "history")
}

// New creates a new database connection with profile-appropriate PRAGMAs.
func New(cfg Config) (*DB, error) {
	// file: URIs (in-memory databases in tests) skip filepath handling.
	if !strings.HasPrefix(cfg.Path, "file:") {
		absPath, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		cfg.Path = absPath
	}

	if cfg.Profile == "" {
		cfg.Profile = ProfileStandard
	}

	conn, err := sql.Open("sqlite", buildConnectionString(cfg.Path, cfg.Profile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}

	configureConnectionPool(conn)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{
		conn:    conn,
		path:    cfg.Path,
		profile: cfg.Profile,
		name:    cfg.Name,
	}, nil
}

// buildConnectionString builds the sqlite connection string with the
// PRAGMAs appropriate for the profile. All profiles use WAL journaling so
// readers never block the writer.
func buildConnectionString(path string, profile Profile) string {
	pragmas := []string{
		"_pragma=journal_mode(WAL)",
		"_pragma=busy_timeout(5000)",
		"_pragma=foreign_keys(ON)",
	}

	switch profile {
	case ProfileHistory:
		// Snapshot writes are fire-and-forget observations; NORMAL sync is
		// acceptable and keeps refresh latency low.
		pragmas = append(pragmas,
			"_pragma=synchronous(NORMAL)",
			"_pragma=cache_size(-8000)",
		)
	default:
		pragmas = append(pragmas,
			"_pragma=synchronous(FULL)",
			"_pragma=cache_size(-2000)",
		)
	}

	return path + "?" + strings.Join(pragmas, "&")
}

// configureConnectionPool sets pool limits for long-term operation.
func configureConnectionPool(conn *sql.DB) {
	maxConns := runtime.NumCPU()
	if maxConns < 2 {
		maxConns = 2
	}
	conn.SetMaxOpenConns(maxConns)
	conn.SetMaxIdleConns(maxConns)
	conn.SetConnMaxLifetime(time.Hour)
}

// Conn returns the underlying sql.DB connection.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// Name returns the friendly database name.
func (d *DB) Name() string {
	return d.name
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// CheckpointWAL runs a TRUNCATE checkpoint, folding the write-ahead log
// back into the main database file. Called periodically by the scheduler
// so WAL files do not grow unbounded.
func (d *DB) CheckpointWAL() error {
	if _, err := d.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint %s: %w", d.name, err)
	}
	return nil
}

// SizeBytes returns the on-disk size of the database file, 0 for in-memory
// databases.
func (d *DB) SizeBytes() int64 {
	if strings.HasPrefix(d.path, "file:") {
		return 0
	}
	info, err := os.Stat(d.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
