package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/database"
	"github.com/runwaylabs/sovereign/internal/modules/snapshots"
	"github.com/runwaylabs/sovereign/internal/reliability"
)

// SnapshotCleanupJob prunes wallet snapshots past the retention window.
type SnapshotCleanupJob struct {
	snapshotService *snapshots.Service
	retentionDays   int
	log             zerolog.Logger
}

// NewSnapshotCleanupJob creates the retention cleanup job.
func NewSnapshotCleanupJob(snapshotService *snapshots.Service, retentionDays int, log zerolog.Logger) *SnapshotCleanupJob {
	return &SnapshotCleanupJob{
		snapshotService: snapshotService,
		retentionDays:   retentionDays,
		log:             log.With().Str("job", "snapshot_cleanup").Logger(),
	}
}

// Name implements Job.
func (j *SnapshotCleanupJob) Name() string { return "snapshot_cleanup" }

// Run implements Job.
func (j *SnapshotCleanupJob) Run(ctx context.Context) error {
	deleted, err := j.snapshotService.Prune(j.retentionDays)
	if err != nil {
		return err
	}
	j.log.Debug().Int64("deleted", deleted).Msg("Snapshot cleanup finished")
	return nil
}

// WALCheckpointJob folds each database's write-ahead log back into the main
// file so WAL size stays bounded between backups.
type WALCheckpointJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewWALCheckpointJob creates the checkpoint job.
func NewWALCheckpointJob(databases []*database.DB, log zerolog.Logger) *WALCheckpointJob {
	return &WALCheckpointJob{
		databases: databases,
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name implements Job.
func (j *WALCheckpointJob) Name() string { return "wal_checkpoint" }

// Run implements Job.
func (j *WALCheckpointJob) Run(ctx context.Context) error {
	for _, db := range j.databases {
		if err := db.CheckpointWAL(); err != nil {
			return err
		}
		j.log.Debug().Str("database", db.Name()).Msg("WAL checkpoint complete")
	}
	return nil
}

// BackupJob archives the databases and uploads them to object storage.
type BackupJob struct {
	backupService *reliability.BackupService
}

// NewBackupJob creates the backup job.
func NewBackupJob(backupService *reliability.BackupService) *BackupJob {
	return &BackupJob{backupService: backupService}
}

// Name implements Job.
func (j *BackupJob) Name() string { return "backup" }

// Run implements Job.
func (j *BackupJob) Run(ctx context.Context) error {
	return j.backupService.Run(ctx)
}
