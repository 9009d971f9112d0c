// Package syncer mirrors WordPress content into a git working copy and back.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fgeck/wp-gitops/internal/config"
	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/fgeck/wp-gitops/internal/services/backup"
	"github.com/fgeck/wp-gitops/internal/services/git"
	"github.com/fgeck/wp-gitops/internal/services/mirror"
	"github.com/rs/zerolog"
)

// ErrInvalidWPPath is returned when the WordPress root does not exist.
var ErrInvalidWPPath = errors.New("WordPress path not found")

// BackupDir is the snapshot directory inside the repository.
const BackupDir = "backups"

// backupName prefixes the snapshots taken before a pull.
const backupName = "pre_sync"

// Lines kept in the repository's .gitignore. The config changes on every
// push and must not produce commits of its own.
var ignoredInRepo = []string{
	BackupDir + "/",
	config.FileName,
}

// Service defines the interface for the sync engine.
type Service interface {
	Prepare(ctx context.Context) (*models.SyncConfig, error)
	Inspect() (*models.SyncConfig, error)
	Push(ctx context.Context, cfg *models.SyncConfig, opts models.PushOptions) (*models.PushResult, error)
	Pull(ctx context.Context, cfg *models.SyncConfig, opts models.PullOptions) (*models.PullResult, error)
	Status(ctx context.Context, cfg *models.SyncConfig) (*models.StatusReport, error)
	Diff(cfg *models.SyncConfig) (*models.DiffReport, error)
}

// ConfigStore persists the sync configuration.
type ConfigStore interface {
	Load() (*models.SyncConfig, bool, error)
	LoadOrCreate() (*models.SyncConfig, bool, error)
	Save(cfg *models.SyncConfig) error
}

// Impl implements the sync engine Service interface.
type Impl struct {
	paths     models.Paths
	gitSvc    git.Service
	mirrorSvc mirror.Service
	readOnly  mirror.Service
	backupSvc backup.Service
	store     ConfigStore
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a sync engine working on the host filesystem.
func New(logger zerolog.Logger, paths models.Paths) *Impl {
	mirrorSvc := mirror.New(logger)
	return &Impl{
		paths:     paths,
		gitSvc:    git.New(logger),
		mirrorSvc: mirrorSvc,
		readOnly:  mirrorSvc.ReadOnly(),
		backupSvc: backup.New(logger, mirrorSvc, filepath.Join(paths.GitRepo, BackupDir)),
		store:     config.NewStore(paths.GitRepo),
		logger:    logger,
		now:       time.Now,
	}
}

// NewWithServices creates a sync engine with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	paths models.Paths,
	gitSvc git.Service,
	mirrorSvc mirror.Service,
	readOnly mirror.Service,
	backupSvc backup.Service,
	store ConfigStore,
	now func() time.Time,
) *Impl {
	return &Impl{
		paths:     paths,
		gitSvc:    gitSvc,
		mirrorSvc: mirrorSvc,
		readOnly:  readOnly,
		backupSvc: backupSvc,
		store:     store,
		logger:    logger,
		now:       now,
	}
}

// Prepare readies both roots for a mutating command: it checks the
// WordPress root, creates and initializes the repository, creates the backup
// directory and writes the default configuration on first run.
func (s *Impl) Prepare(ctx context.Context) (*models.SyncConfig, error) {
	if err := s.checkWPPath(s.mirrorSvc); err != nil {
		return nil, err
	}

	if err := s.mirrorSvc.MkdirAll(s.paths.GitRepo); err != nil {
		return nil, fmt.Errorf("creating repository: %w", err)
	}
	if err := s.gitSvc.Init(ctx, s.paths.GitRepo); err != nil {
		return nil, err
	}
	if err := s.mirrorSvc.MkdirAll(filepath.Join(s.paths.GitRepo, BackupDir)); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	gitignore := filepath.Join(s.paths.GitRepo, ".gitignore")
	for _, line := range ignoredInRepo {
		if _, err := s.mirrorSvc.EnsureLine(gitignore, line); err != nil {
			return nil, err
		}
	}

	cfg, created, err := s.store.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if created {
		s.logger.Info().Str("repo", s.paths.GitRepo).Msg("default configuration written")
	}

	return cfg, nil
}

// Inspect loads the configuration for read-only commands and dry runs.
// Nothing is created; a missing config yields the defaults.
func (s *Impl) Inspect() (*models.SyncConfig, error) {
	if err := s.checkWPPath(s.readOnly); err != nil {
		return nil, err
	}

	cfg, found, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if !found {
		s.logger.Debug().Msg("no configuration file yet, using defaults")
	}

	return cfg, nil
}

func (s *Impl) checkWPPath(m mirror.Service) error {
	exists, err := m.Exists(s.paths.WPPath)
	if err != nil {
		return fmt.Errorf("checking WordPress path: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrInvalidWPPath, s.paths.WPPath)
	}
	return nil
}

func (s *Impl) fsFor(dryRun bool) mirror.Service {
	if dryRun {
		return s.readOnly
	}
	return s.mirrorSvc
}

func (s *Impl) cmsPath(cat models.Category) string {
	return filepath.Join(s.paths.WPPath, filepath.FromSlash(cat.SourceDir))
}

func (s *Impl) repoPath(cat models.Category) string {
	return filepath.Join(s.paths.GitRepo, filepath.FromSlash(cat.RepoDir))
}

// filterExcluded drops excluded names for categories that honour the exclusion set.
func filterExcluded(cfg *models.SyncConfig, cat models.Category, names []string) []string {
	if !cat.Filtered {
		return names
	}
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if cfg.IsExcluded(name) {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}
