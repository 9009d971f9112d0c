package syncer

import (
	"context"
	"fmt"
	"sort"

	"github.com/fgeck/wp-gitops/internal/models"
)

// Status collects the configured paths and flags together with the
// uncommitted changes of the repository. A failing git status is reported
// in GitWarning, not as an error.
func (s *Impl) Status(ctx context.Context, cfg *models.SyncConfig) (*models.StatusReport, error) {
	report := &models.StatusReport{
		Paths:  s.paths,
		Config: *cfg,
	}

	changes, err := s.gitSvc.Status(ctx, s.paths.GitRepo)
	if err != nil {
		s.logger.Warn().Err(err).Msg("git status failed")
		report.GitWarning = err
		return report, nil
	}
	report.Changes = changes

	return report, nil
}

// Diff compares theme directory names between WordPress and the repository.
// Only names are compared, never content. Missing directories count as empty.
func (s *Impl) Diff(cfg *models.SyncConfig) (*models.DiffReport, error) {
	report := &models.DiffReport{Enabled: cfg.SyncThemes}
	if !cfg.SyncThemes {
		return report, nil
	}

	var themes models.Category
	for _, cat := range models.Categories() {
		if cat.Name == models.CategoryThemes {
			themes = cat
		}
	}

	wpThemes, _, err := s.readOnly.ListItems(s.cmsPath(themes), true)
	if err != nil {
		return nil, fmt.Errorf("listing WordPress themes: %w", err)
	}
	repoThemes, _, err := s.readOnly.ListItems(s.repoPath(themes), true)
	if err != nil {
		return nil, fmt.Errorf("listing repository themes: %w", err)
	}

	inRepo := toSet(repoThemes)
	inWP := toSet(wpThemes)

	for name := range inWP {
		if inRepo[name] {
			report.InBoth = append(report.InBoth, name)
		} else {
			report.OnlyInCMS = append(report.OnlyInCMS, name)
		}
	}
	for name := range inRepo {
		if !inWP[name] {
			report.OnlyInRepo = append(report.OnlyInRepo, name)
		}
	}

	sort.Strings(report.OnlyInCMS)
	sort.Strings(report.OnlyInRepo)
	sort.Strings(report.InBoth)

	return report, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
