package models

import (
	"fmt"
	"strings"
	"time"
)

// CategoryResult holds what a single category contributed to a push or pull.
type CategoryResult struct {
	Category Category
	Items    []string // top-level item names that were (or would be) copied
	Count    int
}

// String renders the result as used in change summaries, e.g. "2 teemaa".
func (r CategoryResult) String() string {
	return fmt.Sprintf("%d %s", r.Count, r.Category.Label)
}

// PushOptions controls a push.
type PushOptions struct {
	Message string // commit message; generated from the summary when empty
	DryRun  bool
}

// PushResult holds the result of a push from WordPress into the repository.
type PushResult struct {
	DryRun          bool
	Categories      []CategoryResult
	CommitMessage   string
	Committed       bool
	NothingToCommit bool
	NoOp            bool // no enabled category had a source directory
	Duration        time.Duration

	// GitWarning is set when staging or committing failed. The files were
	// still mirrored; the caller decides whether this counts as success.
	GitWarning error
}

// Summary renders the per-category counts, e.g. "2 teemaa, 1 pluginia".
func (r PushResult) Summary() string {
	return summarize(r.Categories)
}

// PullOptions controls a pull.
type PullOptions struct {
	DryRun bool
}

// PullResult holds the result of a pull from the repository into WordPress.
type PullResult struct {
	DryRun     bool
	BackupPath string // empty on dry runs
	Backed     int    // items captured into the backup before being replaced
	Categories []CategoryResult
	Duration   time.Duration
}

// Summary renders the per-category counts.
func (r PullResult) Summary() string {
	return summarize(r.Categories)
}

func summarize(results []CategoryResult) string {
	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, res.String())
	}
	return strings.Join(parts, ", ")
}

// StatusReport holds everything the status command prints.
type StatusReport struct {
	Paths      Paths
	Config     SyncConfig
	Changes    []string // git status --short lines
	GitWarning error
}

// DiffReport holds the theme name comparison between WordPress and the repository.
type DiffReport struct {
	Enabled    bool // false when theme sync is switched off
	OnlyInCMS  []string
	OnlyInRepo []string
	InBoth     []string
}
