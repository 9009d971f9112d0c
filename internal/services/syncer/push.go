package syncer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/fgeck/wp-gitops/internal/services/git"
	"github.com/fgeck/wp-gitops/internal/services/mirror"
)

// Push mirrors the enabled categories from WordPress into the repository
// and commits the result. Categories without a source directory are
// skipped. Git failures don't fail the push; they are returned in
// PushResult.GitWarning and leave last_sync untouched.
func (s *Impl) Push(ctx context.Context, cfg *models.SyncConfig, opts models.PushOptions) (*models.PushResult, error) {
	start := time.Now()
	result := &models.PushResult{DryRun: opts.DryRun}

	s.logger.Info().
		Str("wp_path", s.paths.WPPath).
		Str("repo", s.paths.GitRepo).
		Bool("dry_run", opts.DryRun).
		Msg("syncing WordPress to git")

	ignore, err := mirror.NewIgnore(cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	m := s.fsFor(opts.DryRun)
	for _, cat := range models.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !cfg.Enabled(cat) {
			continue
		}

		catResult, found, err := s.pushCategory(m, cfg, cat, ignore, opts.DryRun)
		if err != nil {
			return nil, fmt.Errorf("syncing %s: %w", cat.Name, err)
		}
		if !found {
			s.logger.Debug().Str("category", cat.Name).Str("path", s.cmsPath(cat)).Msg("source not found, skipping")
			continue
		}
		result.Categories = append(result.Categories, *catResult)
	}

	if len(result.Categories) == 0 {
		result.NoOp = true
		result.Duration = time.Since(start)
		s.logger.Info().Msg("no changes to sync")
		return result, nil
	}

	result.CommitMessage = opts.Message
	if result.CommitMessage == "" {
		result.CommitMessage = "Sync: " + result.Summary()
	}

	if opts.DryRun {
		result.Duration = time.Since(start)
		s.logger.Info().Str("summary", result.Summary()).Msg("dry run, nothing written")
		return result, nil
	}

	s.commit(ctx, result)

	if result.GitWarning == nil {
		synced := s.now()
		cfg.LastSync = &synced
		if err := s.store.Save(cfg); err != nil {
			return nil, fmt.Errorf("saving config: %w", err)
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info().
		Str("summary", result.Summary()).
		Bool("committed", result.Committed).
		Dur("duration", result.Duration).
		Msg("sync to git completed")

	return result, nil
}

func (s *Impl) pushCategory(
	m mirror.Service,
	cfg *models.SyncConfig,
	cat models.Category,
	ignore *mirror.Ignore,
	dryRun bool,
) (*models.CategoryResult, bool, error) {
	src := s.cmsPath(cat)
	dst := s.repoPath(cat)

	entries, found, err := m.ListItems(src, false)
	if err != nil || !found {
		return nil, found, err
	}
	entries = filterExcluded(cfg, cat, entries)

	counted := entries
	if cat.DirsOnly {
		dirs, _, err := m.ListItems(src, true)
		if err != nil {
			return nil, true, err
		}
		counted = filterExcluded(cfg, cat, dirs)
	}

	if !dryRun {
		if err := s.writeCategory(m, cat, src, dst, entries, ignore); err != nil {
			return nil, true, err
		}
		s.logger.Debug().
			Str("category", cat.Name).
			Str("destination", dst).
			Int("items", len(counted)).
			Msg("category copied")
	}

	return &models.CategoryResult{
		Category: cat,
		Items:    counted,
		Count:    len(counted),
	}, true, nil
}

// writeCategory replaces dst with the content of src. Whole-tree categories
// are deleted and copied in one go; per-item categories are recreated and
// filled one entry at a time so excluded entries stay out.
func (s *Impl) writeCategory(m mirror.Service, cat models.Category, src, dst string, entries []string, ignore *mirror.Ignore) error {
	if err := m.RemoveAll(dst); err != nil {
		return err
	}

	if cat.Mode == models.WholeTree {
		return m.CopyTree(src, dst, ignore)
	}

	if err := m.MkdirAll(dst); err != nil {
		return err
	}
	for _, name := range entries {
		if err := m.Replace(filepath.Join(src, name), filepath.Join(dst, name), ignore); err != nil {
			return err
		}
	}
	return nil
}

func (s *Impl) commit(ctx context.Context, result *models.PushResult) {
	if err := s.gitSvc.AddAll(ctx, s.paths.GitRepo); err != nil {
		s.logger.Warn().Err(err).Msg("staging changes failed")
		result.GitWarning = err
		return
	}

	_, err := s.gitSvc.Commit(ctx, s.paths.GitRepo, result.CommitMessage)
	switch {
	case errors.Is(err, git.ErrNothingToCommit):
		result.NothingToCommit = true
	case err != nil:
		s.logger.Warn().Err(err).Msg("commit failed")
		result.GitWarning = err
	default:
		result.Committed = true
		s.logger.Debug().Str("message", result.CommitMessage).Msg("commit created")
	}
}
