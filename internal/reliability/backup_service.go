// Package reliability provides database backup functionality.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/events"
)

// BackupMetadata contains metadata about a backup archive.
type BackupMetadata struct {
	Timestamp time.Time          `json:"timestamp"`
	Databases []DatabaseMetadata `json:"databases"`
}

// DatabaseMetadata contains metadata about a single database in the backup.
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// Uploader is the narrow upload contract; satisfied by the S3 uploader and
// by test stubs.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// BackupService archives the sqlite databases and uploads the archive to
// object storage. Uploads are retried with exponential backoff; a flaky
// network must not fail the nightly job outright.
type BackupService struct {
	dataDir    string
	prefix     string
	uploader   Uploader
	eventBus   *events.Bus
	now        func() time.Time
	newBackoff func() backoff.BackOff
	log        zerolog.Logger
}

// NewBackupService creates a backup service.
func NewBackupService(dataDir, prefix string, uploader Uploader, eventBus *events.Bus, log zerolog.Logger) *BackupService {
	return &BackupService{
		dataDir:  dataDir,
		prefix:   prefix,
		uploader: uploader,
		eventBus: eventBus,
		now:      time.Now,
		newBackoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		log: log.With().Str("service", "backup").Logger(),
	}
}

// Run creates a backup archive of all databases under the data directory
// and uploads it. The local archive is removed after a successful upload.
func (s *BackupService) Run(ctx context.Context) error {
	archivePath, metadata, err := s.CreateArchive()
	if err != nil {
		return fmt.Errorf("failed to create backup archive: %w", err)
	}
	defer os.Remove(archivePath)

	info, err := os.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("failed to stat backup archive: %w", err)
	}

	key := fmt.Sprintf("%s/%s", s.prefix, filepath.Base(archivePath))
	if err := s.uploadWithRetry(ctx, key, archivePath); err != nil {
		return fmt.Errorf("failed to upload backup: %w", err)
	}

	s.log.Info().
		Str("key", key).
		Int64("size_bytes", info.Size()).
		Int("databases", len(metadata.Databases)).
		Msg("Backup uploaded")

	if s.eventBus != nil {
		s.eventBus.Publish(&events.BackupCompletedData{Key: key, SizeBytes: info.Size()})
	}
	return nil
}

// CreateArchive builds a tar.gz of every .db file in the data directory,
// including a manifest.json with per-database sha256 checksums. Returns the
// archive path and its metadata.
func (s *BackupService) CreateArchive() (string, *BackupMetadata, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read data dir: %w", err)
	}

	var dbFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".db") {
			dbFiles = append(dbFiles, entry.Name())
		}
	}
	if len(dbFiles) == 0 {
		return "", nil, fmt.Errorf("no databases found in %s", s.dataDir)
	}

	timestamp := s.now().UTC()
	archivePath := filepath.Join(os.TempDir(),
		fmt.Sprintf("sovereign-backup-%s.tar.gz", timestamp.Format("20060102-150405")))

	outFile, err := os.Create(archivePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	gzWriter := gzip.NewWriter(outFile)
	tarWriter := tar.NewWriter(gzWriter)

	metadata := &BackupMetadata{Timestamp: timestamp}
	for _, name := range dbFiles {
		dbMeta, err := s.addFile(tarWriter, name)
		if err != nil {
			tarWriter.Close()
			gzWriter.Close()
			os.Remove(archivePath)
			return "", nil, err
		}
		metadata.Databases = append(metadata.Databases, *dbMeta)
	}

	manifest, err := json.Marshal(metadata)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := writeTarEntry(tarWriter, "manifest.json", manifest); err != nil {
		return "", nil, err
	}

	if err := tarWriter.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to finalize tar: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return "", nil, fmt.Errorf("failed to finalize gzip: %w", err)
	}

	return archivePath, metadata, nil
}

func (s *BackupService) addFile(tw *tar.Writer, name string) (*DatabaseMetadata, error) {
	path := filepath.Join(s.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := writeTarEntry(tw, name, data); err != nil {
		return nil, err
	}

	return &DatabaseMetadata{
		Name:      strings.TrimSuffix(name, ".db"),
		Filename:  name,
		SizeBytes: int64(len(data)),
		Checksum:  fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}

func writeTarEntry(tw *tar.Writer, name string, data []byte) error {
	header := &tar.Header{
		Name: name,
		Mode: 0644,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", name, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("failed to write tar entry for %s: %w", name, err)
	}
	return nil
}

func (s *BackupService) uploadWithRetry(ctx context.Context, key, path string) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackoff(), 5), ctx)

	return backoff.Retry(func() error {
		file, err := os.Open(path)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer file.Close()

		if err := s.uploader.Upload(ctx, key, file); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Backup upload attempt failed")
			return err
		}
		return nil
	}, policy)
}
