package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/fgeck/wp-gitops/internal/services/syncer"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Path flags.
	wpPath  string
	gitRepo string

	// Output flags.
	verbose    bool
	quiet      bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "wp-gitops",
	Short: "WordPress GitOps Sync Tool",
	Long: `wp-gitops mirrors WordPress themes and plugins into a git repository and back:
  - push copies wp-content into the repository and commits
  - pull copies the repository into wp-content after taking a backup
  - status shows the configuration and uncommitted changes
  - diff compares theme names on both sides

The configuration lives in wp-gitops-config.json inside the repository.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&wpPath, "wp-path", "", "WordPress installation root (required)")
	rootCmd.PersistentFlags().StringVar(&gitRepo, "git-repo", "", "git repository working copy (required)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")

	_ = rootCmd.MarkPersistentFlagRequired("wp-path")
	_ = rootCmd.MarkPersistentFlagRequired("git-repo")

	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(validateCmd)
}

// Logs go to stderr so stdout carries only the command's report.
func setupLogging() {
	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func resolvePaths() (models.Paths, error) {
	wp, err := filepath.Abs(wpPath)
	if err != nil {
		return models.Paths{}, err
	}
	repo, err := filepath.Abs(gitRepo)
	if err != nil {
		return models.Paths{}, err
	}
	return models.Paths{WPPath: wp, GitRepo: repo}, nil
}

func newEngine() (*syncer.Impl, models.Paths, error) {
	paths, err := resolvePaths()
	if err != nil {
		return nil, paths, err
	}
	log.Debug().
		Str("wp_path", paths.WPPath).
		Str("repo", paths.GitRepo).
		Msg("paths resolved")
	return syncer.New(log.Logger, paths), paths, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
