// Package git wraps the git command-line tool used to version the mirror.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/rs/zerolog"
)

// ErrNothingToCommit is returned by Commit when the index has no changes.
var ErrNothingToCommit = errors.New("nothing to commit")

// Service defines the interface for git operations.
type Service interface {
	Version(ctx context.Context) (string, error)
	Init(ctx context.Context, repo string) error
	AddAll(ctx context.Context, repo string) error
	Commit(ctx context.Context, repo, message string) (*models.GitResult, error)
	Status(ctx context.Context, repo string) ([]string, error)
}

// CommandExecutor allows mocking exec.Command in tests.
type CommandExecutor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
	ExecuteInDir(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)
}

// DefaultExecutor is the default command executor using os/exec.
type DefaultExecutor struct{}

// Execute runs a command and returns its output.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// ExecuteInDir runs a command in dir with additional environment variables.
func (e *DefaultExecutor) ExecuteInDir(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	return cmd.CombinedOutput()
}

// Impl implements the Service interface.
type Impl struct {
	executor CommandExecutor
	logger   zerolog.Logger
	binary   string
}

// New creates a new git service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		executor: &DefaultExecutor{},
		logger:   logger,
		binary:   "git",
	}
}

// NewWithExecutor creates a new git service with a custom executor (for testing).
func NewWithExecutor(logger zerolog.Logger, executor CommandExecutor) *Impl {
	return &Impl{
		executor: executor,
		logger:   logger,
		binary:   "git",
	}
}

// Messages are matched in English, so force the C locale.
func (s *Impl) buildEnv() []string {
	return []string{
		"LC_ALL=C",
		"GIT_TERMINAL_PROMPT=0",
	}
}

func (s *Impl) run(ctx context.Context, repo string, args ...string) (*models.GitResult, error) {
	start := time.Now()
	output, err := s.executor.ExecuteInDir(ctx, repo, s.buildEnv(), s.binary, args...)
	result := &models.GitResult{
		Args:     args,
		Output:   string(output),
		Duration: time.Since(start),
	}

	s.logger.Debug().
		Strs("args", args).
		Str("repo", repo).
		Dur("duration", result.Duration).
		Msg("git command finished")

	return result, err
}

// Version returns the installed git version string.
func (s *Impl) Version(ctx context.Context) (string, error) {
	output, err := s.executor.Execute(ctx, s.binary, "--version")
	if err != nil {
		return "", fmt.Errorf("git is not available: %w, output: %s", err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}

// Init initializes a git repository if one doesn't exist yet.
func (s *Impl) Init(ctx context.Context, repo string) error {
	if info, err := os.Stat(filepath.Join(repo, ".git")); err == nil && info.IsDir() {
		s.logger.Debug().Str("repo", repo).Msg("repository already initialized")
		return nil
	}

	s.logger.Info().Str("repo", repo).Msg("initializing git repository")
	result, err := s.run(ctx, repo, "init")
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w, output: %s", err, result.Output)
	}

	s.logger.Info().Str("repo", repo).Msg("git repository initialized")
	return nil
}

// AddAll stages every change in the working copy.
func (s *Impl) AddAll(ctx context.Context, repo string) error {
	result, err := s.run(ctx, repo, "add", ".")
	if err != nil {
		return fmt.Errorf("git add failed: %w, output: %s", err, strings.TrimSpace(result.Output))
	}
	return nil
}

// Commit records the staged changes. When there is nothing staged it
// returns ErrNothingToCommit alongside the result.
func (s *Impl) Commit(ctx context.Context, repo, message string) (*models.GitResult, error) {
	result, err := s.run(ctx, repo, "commit", "-m", message)
	if err != nil {
		if isNothingToCommit(result.Output) {
			s.logger.Info().Str("repo", repo).Msg("nothing to commit")
			return result, ErrNothingToCommit
		}
		return result, fmt.Errorf("git commit failed: %w, output: %s", err, strings.TrimSpace(result.Output))
	}

	s.logger.Info().
		Str("repo", repo).
		Str("message", message).
		Dur("duration", result.Duration).
		Msg("changes committed")

	return result, nil
}

// Status returns the porcelain lines of git status --short.
func (s *Impl) Status(ctx context.Context, repo string) ([]string, error) {
	result, err := s.run(ctx, repo, "status", "--short")
	if err != nil {
		return nil, fmt.Errorf("git status failed: %w, output: %s", err, strings.TrimSpace(result.Output))
	}
	return parseStatus(result.Output), nil
}

func parseStatus(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isNothingToCommit(output string) bool {
	out := strings.ToLower(output)
	return strings.Contains(out, "nothing to commit") ||
		strings.Contains(out, "nothing added to commit") ||
		strings.Contains(out, "no changes added to commit")
}
