package main

import (
	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var pullDryRun bool

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Synchronize Git → WordPress",
	Long: `Copy the enabled categories from the repository into wp-content.

A timestamped snapshot is created under backups/ first, and every item that is
about to be replaced is copied into it. Items that exist only in WordPress are
left untouched.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "simulate without changes")
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	engine, _, err := newEngine()
	if err != nil {
		return err
	}

	var cfg *models.SyncConfig
	if pullDryRun {
		cfg, err = engine.Inspect()
	} else {
		cfg, err = engine.Prepare(ctx)
	}
	if err != nil {
		return err
	}

	result, err := engine.Pull(ctx, cfg, models.PullOptions{DryRun: pullDryRun})
	if err != nil {
		log.Error().Err(err).Msg("pull failed")
		return err
	}

	printPull(cmd.OutOrStdout(), result)
	return nil
}
