package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/fgeck/wp-gitops/internal/services/mirror"
)

// Pull copies every item of the enabled categories from the repository into
// WordPress, replacing same-named items. Items that exist only in WordPress
// are left alone. A real pull always starts with a backup snapshot, and
// every item about to be replaced is captured into it first.
func (s *Impl) Pull(ctx context.Context, cfg *models.SyncConfig, opts models.PullOptions) (*models.PullResult, error) {
	start := time.Now()
	result := &models.PullResult{DryRun: opts.DryRun}

	s.logger.Info().
		Str("wp_path", s.paths.WPPath).
		Str("repo", s.paths.GitRepo).
		Bool("dry_run", opts.DryRun).
		Msg("syncing git to WordPress")

	var snap *models.Snapshot
	if !opts.DryRun {
		var err error
		snap, err = s.backupSvc.Create(backupName)
		if err != nil {
			return nil, err
		}
		result.BackupPath = snap.Path
	}

	m := s.fsFor(opts.DryRun)
	for _, cat := range models.Categories() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !cfg.Enabled(cat) {
			continue
		}

		src := s.repoPath(cat)
		dst := s.cmsPath(cat)

		items, found, err := m.ListItems(src, cat.DirsOnly)
		if err != nil {
			return nil, fmt.Errorf("syncing %s: %w", cat.Name, err)
		}
		if !found {
			s.logger.Debug().Str("category", cat.Name).Str("path", src).Msg("not in repository, skipping")
			continue
		}
		items = filterExcluded(cfg, cat, items)

		if !opts.DryRun {
			backed, err := s.pullItems(m, snap, cat, src, dst, items)
			result.Backed += backed
			if err != nil {
				return nil, fmt.Errorf("syncing %s: %w", cat.Name, err)
			}
		}

		result.Categories = append(result.Categories, models.CategoryResult{
			Category: cat,
			Items:    items,
			Count:    len(items),
		})
	}

	result.Duration = time.Since(start)
	s.logger.Info().
		Str("summary", result.Summary()).
		Str("backup", result.BackupPath).
		Int("backed_up", result.Backed).
		Dur("duration", result.Duration).
		Msg("sync to WordPress completed")

	return result, nil
}

func (s *Impl) pullItems(m mirror.Service, snap *models.Snapshot, cat models.Category, src, dst string, items []string) (int, error) {
	if err := m.MkdirAll(dst); err != nil {
		return 0, err
	}

	backed := 0
	for _, name := range items {
		target := filepath.Join(dst, name)

		captured, err := s.backupSvc.Capture(snap, cat.Name, target)
		if err != nil {
			return backed, err
		}
		if captured {
			backed++
		}

		if err := m.Replace(filepath.Join(src, name), target, nil); err != nil {
			return backed, err
		}
	}

	s.logger.Debug().
		Str("category", cat.Name).
		Str("destination", dst).
		Int("items", len(items)).
		Msg("category restored")

	return backed, nil
}
