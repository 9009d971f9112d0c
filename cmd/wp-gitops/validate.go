package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fgeck/wp-gitops/internal/config"
	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/fgeck/wp-gitops/internal/services/backup"
	"github.com/fgeck/wp-gitops/internal/services/git"
	"github.com/fgeck/wp-gitops/internal/services/mirror"
	"github.com/fgeck/wp-gitops/internal/services/syncer"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and environment",
	Long:  `Check both paths, the configuration file and the git binary without changing anything.`,
	Args:  cobra.NoArgs,
	RunE:  validateSetup,
}

func validateSetup(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	store := config.NewStore(paths.GitRepo)
	cfg, found, err := store.Load()
	if err != nil {
		log.Error().Err(err).Str("file", store.Path()).Msg("failed to parse config")
		return err
	}
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	engine := syncer.New(log.Logger, paths)
	if _, err := engine.Inspect(); err != nil {
		return err
	}

	version, err := git.New(log.Logger).Version(ctx)
	if err != nil {
		log.Error().Err(err).Msg("git is not available")
		return err
	}

	ro := mirror.New(log.Logger).ReadOnly()
	snaps, err := backup.New(log.Logger, ro, filepath.Join(paths.GitRepo, syncer.BackupDir)).List()
	if err != nil {
		return err
	}

	printValidation(cmd, paths, store.Path(), found, cfg, version, snaps)
	return nil
}

func printValidation(
	cmd *cobra.Command,
	paths models.Paths,
	configPath string,
	found bool,
	cfg *models.SyncConfig,
	version string,
	snaps []models.Snapshot,
) {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Configuration is valid!")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  WordPress: %s\n", paths.WPPath)
	fmt.Fprintf(w, "  Repository: %s\n", paths.GitRepo)
	if found {
		fmt.Fprintf(w, "  Config: %s\n", configPath)
	} else {
		fmt.Fprintf(w, "  Config: %s (not created yet, using defaults)\n", configPath)
	}
	fmt.Fprintf(w, "  Git: %s\n", version)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Categories:")
	for _, cat := range models.Categories() {
		fmt.Fprintf(w, "  %s: %v\n", cat.Name, cfg.Enabled(cat))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Excluded plugins: %s\n", strings.Join(cfg.ExcludedPlugins, ", "))
	fmt.Fprintf(w, "Ignore patterns: %s\n", strings.Join(cfg.IgnorePatterns, ", "))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Backups: %d\n", len(snaps))
	if len(snaps) > 0 {
		fmt.Fprintf(w, "  Latest: %s (%s)\n", snaps[0].Name, snaps[0].Created.Format("2006-01-02 15:04:05"))
	}
}
