package main

import (
	"fmt"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	pushMessage string
	pushDryRun  bool
	pushStrict  bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Synchronize WordPress → Git",
	Long: `Copy the enabled categories from wp-content into the repository and commit:
1. Initialize the repository and configuration (if needed)
2. Replace themes/ with wp-content/themes
3. Replace plugins/ with the non-excluded plugins
4. Replace uploads/ (if sync_uploads is on)
5. Stage everything and commit
6. Record last_sync after a successful commit`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVarP(&pushMessage, "message", "m", "", "commit message")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "simulate without changes")
	pushCmd.Flags().BoolVar(&pushStrict, "strict", false, "fail when staging or committing fails")
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	engine, paths, err := newEngine()
	if err != nil {
		return err
	}

	var cfg *models.SyncConfig
	if pushDryRun {
		cfg, err = engine.Inspect()
	} else {
		cfg, err = engine.Prepare(ctx)
	}
	if err != nil {
		return err
	}

	result, err := engine.Push(ctx, cfg, models.PushOptions{
		Message: pushMessage,
		DryRun:  pushDryRun,
	})
	if err != nil {
		log.Error().Err(err).Msg("push failed")
		return err
	}

	printPush(cmd.OutOrStdout(), paths, result)

	if pushStrict && result.GitWarning != nil {
		return fmt.Errorf("commit failed: %w", result.GitWarning)
	}
	return nil
}
