package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/runwaylabs/sovereign/internal/database"
	"github.com/runwaylabs/sovereign/internal/modules/snapshots"
)

// countingJob tracks how many times it ran.
type countingJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func newTestScheduler() *Scheduler {
	return New(zerolog.New(nil).Level(zerolog.Disabled))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.Register("@hourly", &countingJob{name: "a"}))
	assert.Error(t, s.Register("@daily", &countingJob{name: "a"}))
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.Register("not a spec", &countingJob{name: "a"}))
}

func TestTriggerNowRunsJob(t *testing.T) {
	s := newTestScheduler()
	job := &countingJob{name: "a"}
	require.NoError(t, s.Register("@daily", job))

	require.NoError(t, s.TriggerNow("a"))
	assert.Equal(t, int64(1), job.runs.Load())
}

func TestTriggerNowUnknownJob(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.TriggerNow("missing"))
}

func TestTriggerNowSwallowsJobError(t *testing.T) {
	// A failing job is logged, not propagated: triggering is fire-and-forget
	// from the API's perspective once the job exists.
	s := newTestScheduler()
	job := &countingJob{name: "a", err: errors.New("boom")}
	require.NoError(t, s.Register("@daily", job))
	assert.NoError(t, s.TriggerNow("a"))
}

func TestJobNames(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.Register("@daily", &countingJob{name: "a"}))
	require.NoError(t, s.Register("@daily", &countingJob{name: "b"}))
	assert.ElementsMatch(t, []string{"a", "b"}, s.JobNames())
}

func TestSnapshotCleanupJob(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := snapshots.NewRepository(db, logger)
	require.NoError(t, repo.EnsureSchema())
	svc := snapshots.NewService(repo, nil, logger)

	// One fresh row survives, retention is 7 days.
	_, err = svc.Record("W", 100, 1, "Fragile", 0)
	require.NoError(t, err)

	job := NewSnapshotCleanupJob(svc, 7, logger)
	assert.Equal(t, "snapshot_cleanup", job.Name())
	require.NoError(t, job.Run(context.Background()))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestWALCheckpointJob(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "wal.db"),
		Name:    "wal",
		Profile: database.ProfileHistory,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Conn().Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	job := NewWALCheckpointJob([]*database.DB{db}, logger)
	assert.Equal(t, "wal_checkpoint", job.Name())
	assert.NoError(t, job.Run(context.Background()))
}

func TestSchedulerStartStop(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.Register("@every 1h", &countingJob{name: "a"}))

	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()
}
