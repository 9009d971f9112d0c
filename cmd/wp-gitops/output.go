package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fgeck/wp-gitops/internal/models"
)

const lastSyncLayout = "2006-01-02T15:04:05"

var categoryTitles = map[string]string{
	models.CategoryThemes:  "Teemat",
	models.CategoryPlugins: "Pluginit",
	models.CategoryUploads: "Lataukset",
}

func printDryRunBanner(w io.Writer) {
	fmt.Fprintln(w, "⚠️  DRY RUN - ei tehdä oikeita muutoksia")
	fmt.Fprintln(w)
}

func printPush(w io.Writer, paths models.Paths, res *models.PushResult) {
	fmt.Fprintln(w, "\n🔄 Synkronoidaan WordPress → Git...")
	if res.DryRun {
		printDryRunBanner(w)
	}

	if res.NoOp {
		fmt.Fprintln(w, "\nℹ️  Ei muutoksia synkronoitavaksi")
		return
	}

	if res.DryRun {
		fmt.Fprintf(w, "📋 Synkronoitaisiin: %s\n", res.Summary())
		return
	}

	for _, cat := range res.Categories {
		dst := filepath.Join(paths.GitRepo, filepath.FromSlash(cat.Category.RepoDir))
		fmt.Fprintf(w, "✓ %s kopioitu: %s\n", categoryTitles[cat.Category.Name], dst)
	}

	if res.GitWarning != nil {
		fmt.Fprintf(w, "Git-virhe: %v\n", res.GitWarning)
	}

	fmt.Fprintf(w, "✅ Synkronoitu: %s\n", res.Summary())
	switch {
	case res.Committed:
		fmt.Fprintf(w, "   Commit: %s\n", res.CommitMessage)
	case res.NothingToCommit:
		fmt.Fprintln(w, "   Ei uusia muutoksia committoitavaksi")
	}
}

func printPull(w io.Writer, res *models.PullResult) {
	fmt.Fprintln(w, "\n🔄 Synkronoidaan Git → WordPress...")
	if res.DryRun {
		printDryRunBanner(w)
	}

	if res.BackupPath != "" {
		fmt.Fprintf(w, "✓ Varmuuskopio luotu: %s\n", res.BackupPath)
	}

	if len(res.Categories) == 0 {
		fmt.Fprintln(w, "\nℹ️  Ei muutoksia synkronoitavaksi")
		return
	}

	if res.DryRun {
		fmt.Fprintf(w, "📋 Synkronoitaisiin: %s\n", res.Summary())
		return
	}
	fmt.Fprintf(w, "✅ Synkronoitu WordPressiin: %s\n", res.Summary())
}

func printStatus(w io.Writer, report *models.StatusReport) {
	cfg := report.Config

	lastSync := "Ei koskaan"
	if cfg.LastSync != nil {
		lastSync = cfg.LastSync.Format(lastSyncLayout)
	}

	fmt.Fprintln(w, "\n📊 WordPress GitOps - Tilanne")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "WordPress-polku: %s\n", report.Paths.WPPath)
	fmt.Fprintf(w, "Git-repositorio: %s\n", report.Paths.GitRepo)
	fmt.Fprintf(w, "Viimeisin synkronointi: %s\n", lastSync)
	fmt.Fprintln(w, "\nAsetukset:")
	fmt.Fprintf(w, "  - Synkronoi teemat: %v\n", cfg.SyncThemes)
	fmt.Fprintf(w, "  - Synkronoi pluginit: %v\n", cfg.SyncPlugins)
	fmt.Fprintf(w, "  - Synkronoi uploads: %v\n", cfg.SyncUploads)
	fmt.Fprintf(w, "  - Poissuljetut pluginit: %s\n", strings.Join(cfg.ExcludedPlugins, ", "))

	switch {
	case report.GitWarning != nil:
		fmt.Fprintf(w, "\nGit-virhe: %v\n", report.GitWarning)
	case len(report.Changes) > 0:
		fmt.Fprintf(w, "\nGit-muutokset:\n%s\n", strings.Join(report.Changes, "\n"))
	default:
		fmt.Fprintln(w, "\nGit: Ei committoimattomia muutoksia")
	}
}

func printDiff(w io.Writer, report *models.DiffReport) {
	fmt.Fprintln(w, "\n🔍 Vertaillaan eroja...")
	fmt.Fprintln(w)

	if !report.Enabled {
		return
	}

	fmt.Fprintln(w, "Teemat:")
	if len(report.OnlyInCMS) > 0 {
		fmt.Fprintf(w, "  Vain WordPressissä: %s\n", strings.Join(report.OnlyInCMS, ", "))
	}
	if len(report.OnlyInRepo) > 0 {
		fmt.Fprintf(w, "  Vain Gitissä: %s\n", strings.Join(report.OnlyInRepo, ", "))
	}
	if len(report.InBoth) > 0 {
		fmt.Fprintf(w, "  Molemmissa: %s\n", strings.Join(report.InBoth, ", "))
	}
}
