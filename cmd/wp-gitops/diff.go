package main

import (
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare theme names between WordPress and Git",
	Long:  `List the themes found only in WordPress, only in the repository, and in both. Contents are not compared.`,
	Args:  cobra.NoArgs,
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	engine, _, err := newEngine()
	if err != nil {
		return err
	}

	cfg, err := engine.Inspect()
	if err != nil {
		return err
	}

	report, err := engine.Diff(cfg)
	if err != nil {
		return err
	}

	printDiff(cmd.OutOrStdout(), report)
	return nil
}
