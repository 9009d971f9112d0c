package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show paths, settings and uncommitted changes",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	engine, _, err := newEngine()
	if err != nil {
		return err
	}

	cfg, err := engine.Inspect()
	if err != nil {
		return err
	}

	report, err := engine.Status(ctx, cfg)
	if err != nil {
		return err
	}

	printStatus(cmd.OutOrStdout(), report)
	return nil
}
