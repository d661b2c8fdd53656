// Package di wires databases, repositories, services and jobs together.
package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/config"
	"github.com/runwaylabs/sovereign/internal/database"
	"github.com/runwaylabs/sovereign/internal/events"
	"github.com/runwaylabs/sovereign/internal/modules/badges"
	"github.com/runwaylabs/sovereign/internal/modules/charts"
	"github.com/runwaylabs/sovereign/internal/modules/settings"
	"github.com/runwaylabs/sovereign/internal/modules/snapshots"
	"github.com/runwaylabs/sovereign/internal/reliability"
	"github.com/runwaylabs/sovereign/internal/scheduler"
	"github.com/runwaylabs/sovereign/internal/services"
)

// Container holds all initialized dependencies.
//
// Two-database architecture:
// - config.db: wallet settings, badge history (standard profile)
// - history.db: snapshot time series (history profile)
type Container struct {
	ConfigDB  *database.DB
	HistoryDB *database.DB

	EventBus *events.Bus

	SettingsRepo    *settings.Repository
	SnapshotService *snapshots.Service
	BadgeService    *badges.Service
	ChartsService   *charts.Service
	RefreshService  *services.WalletRefreshService
	BackupService   *reliability.BackupService

	Scheduler *scheduler.Scheduler

	log zerolog.Logger
}

// Maintenance schedules. Cleanup and checkpoint run off-peak; the backup
// follows the checkpoint so it archives a freshly folded database file.
const (
	cleanupSchedule    = "30 3 * * *"
	checkpointSchedule = "0 * * * *"
	backupSchedule     = "15 4 * * *"
)

// NewContainer initializes databases, repositories, services and scheduled
// jobs. The caller owns Close.
func NewContainer(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	configDB, err := database.New(database.Config{
		Path:    cfg.ConfigDBPath(),
		Profile: database.ProfileStandard,
		Name:    "config",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open config database: %w", err)
	}

	historyDB, err := database.New(database.Config{
		Path:    cfg.HistoryDBPath(),
		Profile: database.ProfileHistory,
		Name:    "history",
	})
	if err != nil {
		configDB.Close()
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	c := &Container{
		ConfigDB:  configDB,
		HistoryDB: historyDB,
		EventBus:  events.NewBus(log),
		log:       log.With().Str("component", "di").Logger(),
	}

	if err := c.initServices(ctx, cfg, log); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initServices(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	c.SettingsRepo = settings.NewRepository(c.ConfigDB.Conn(), log)
	if err := c.SettingsRepo.EnsureSchema(); err != nil {
		return err
	}

	badgeHistory := badges.NewHistoryRepository(c.ConfigDB.Conn(), log)
	if err := badgeHistory.EnsureSchema(); err != nil {
		return err
	}
	c.BadgeService = badges.NewService(badgeHistory, c.EventBus, log)

	snapshotRepo := snapshots.NewRepository(c.HistoryDB.Conn(), log)
	if err := snapshotRepo.EnsureSchema(); err != nil {
		return err
	}
	c.SnapshotService = snapshots.NewService(snapshotRepo, c.EventBus, log)
	c.ChartsService = charts.NewService(c.SnapshotService, log)

	c.RefreshService = services.NewWalletRefreshService(
		c.SettingsRepo, c.SnapshotService, c.BadgeService, log)

	c.Scheduler = scheduler.New(log)
	if err := c.Scheduler.Register(cleanupSchedule,
		scheduler.NewSnapshotCleanupJob(c.SnapshotService, cfg.SnapshotRetentionDays, log)); err != nil {
		return err
	}
	if err := c.Scheduler.Register(checkpointSchedule,
		scheduler.NewWALCheckpointJob([]*database.DB{c.ConfigDB, c.HistoryDB}, log)); err != nil {
		return err
	}

	if cfg.Backup.Enabled {
		uploader, err := reliability.NewS3Uploader(ctx, cfg.Backup)
		if err != nil {
			return fmt.Errorf("failed to initialize backup uploader: %w", err)
		}
		c.BackupService = reliability.NewBackupService(
			cfg.DataDir, cfg.Backup.Prefix, uploader, c.EventBus, log)
		if err := c.Scheduler.Register(backupSchedule,
			scheduler.NewBackupJob(c.BackupService)); err != nil {
			return err
		}
	} else {
		c.log.Info().Msg("Backups disabled: no bucket configured")
	}

	return nil
}

// Close releases all database connections.
func (c *Container) Close() {
	if c.HistoryDB != nil {
		if err := c.HistoryDB.Close(); err != nil {
			c.log.Error().Err(err).Msg("Failed to close history database")
		}
	}
	if c.ConfigDB != nil {
		if err := c.ConfigDB.Close(); err != nil {
			c.log.Error().Err(err).Msg("Failed to close config database")
		}
	}
}
