// Package backup creates the timestamped snapshots taken before a pull.
package backup

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/fgeck/wp-gitops/internal/services/mirror"
	"github.com/rs/zerolog"
)

// TimestampFormat is the suffix layout of snapshot directory names.
const TimestampFormat = "20060102_150405"

// Service defines the interface for backup snapshot operations.
type Service interface {
	Create(name string) (*models.Snapshot, error)
	Capture(snap *models.Snapshot, category, itemPath string) (bool, error)
	List() ([]models.Snapshot, error)
}

// Impl implements the backup Service interface.
type Impl struct {
	mirror mirror.Service
	dir    string
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a backup service storing snapshots below dir.
func New(logger zerolog.Logger, mirrorSvc mirror.Service, dir string) *Impl {
	return &Impl{
		mirror: mirrorSvc,
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// NewWithClock creates a backup service with a fixed clock (for testing).
func NewWithClock(logger zerolog.Logger, mirrorSvc mirror.Service, dir string, now func() time.Time) *Impl {
	return &Impl{
		mirror: mirrorSvc,
		dir:    dir,
		logger: logger,
		now:    now,
	}
}

// SnapshotName returns the directory name for a snapshot taken at t.
func SnapshotName(name string, t time.Time) string {
	return fmt.Sprintf("%s_%s", name, t.Format(TimestampFormat))
}

// Create makes a new, empty snapshot directory. Creating the same snapshot
// twice within one second reuses the directory.
func (s *Impl) Create(name string) (*models.Snapshot, error) {
	created := s.now()
	snapName := SnapshotName(name, created)
	snap := &models.Snapshot{
		Name:    snapName,
		Path:    filepath.Join(s.dir, snapName),
		Created: created,
	}

	if err := s.mirror.MkdirAll(snap.Path); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	s.logger.Info().Str("path", snap.Path).Msg("backup snapshot created")
	return snap, nil
}

// Capture copies itemPath into the snapshot under category. It reports
// false when there was nothing at itemPath to capture.
func (s *Impl) Capture(snap *models.Snapshot, category, itemPath string) (bool, error) {
	exists, err := s.mirror.Exists(itemPath)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", itemPath, err)
	}
	if !exists {
		return false, nil
	}

	dst := filepath.Join(snap.Path, category, filepath.Base(itemPath))
	if err := s.mirror.MkdirAll(filepath.Dir(dst)); err != nil {
		return false, err
	}
	if err := s.mirror.Replace(itemPath, dst, nil); err != nil {
		return false, fmt.Errorf("failed to back up %s: %w", itemPath, err)
	}

	s.logger.Debug().
		Str("item", itemPath).
		Str("backup", dst).
		Msg("item captured")

	return true, nil
}

// List returns the existing snapshots, newest first. Directories that don't
// carry a timestamp suffix are skipped.
func (s *Impl) List() ([]models.Snapshot, error) {
	names, _, err := s.mirror.ListItems(s.dir, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var snaps []models.Snapshot
	for _, name := range names {
		created, ok := parseTimestamp(name)
		if !ok {
			continue
		}
		snaps = append(snaps, models.Snapshot{
			Name:    name,
			Path:    filepath.Join(s.dir, name),
			Created: created,
		})
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].Created.After(snaps[j].Created)
	})

	return snaps, nil
}

func parseTimestamp(name string) (time.Time, bool) {
	if len(name) < len(TimestampFormat)+2 {
		return time.Time{}, false
	}
	suffix := name[len(name)-len(TimestampFormat):]
	if !strings.HasSuffix(name[:len(name)-len(TimestampFormat)], "_") {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampFormat, suffix, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
