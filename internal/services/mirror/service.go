// Package mirror copies and replaces directory trees.
package mirror

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Service defines the interface for tree operations.
type Service interface {
	Exists(path string) (bool, error)
	ListItems(dir string, dirsOnly bool) ([]string, bool, error)
	CopyTree(src, dst string, ignore *Ignore) error
	CopyFile(src, dst string) error
	Replace(src, dst string, ignore *Ignore) error
	RemoveAll(path string) error
	MkdirAll(path string) error
	EnsureLine(path, line string) (bool, error)
}

// Impl implements the Service interface on top of an afero filesystem.
type Impl struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// New creates a mirror service on the host filesystem.
func New(logger zerolog.Logger) *Impl {
	return NewWithFs(logger, afero.NewOsFs())
}

// NewWithFs creates a mirror service on a custom filesystem (for testing).
func NewWithFs(logger zerolog.Logger, fs afero.Fs) *Impl {
	return &Impl{
		fs:     fs,
		logger: logger,
	}
}

// ReadOnly returns a copy of the service whose writes always fail.
func (s *Impl) ReadOnly() *Impl {
	return &Impl{
		fs:     afero.NewReadOnlyFs(s.fs),
		logger: s.logger,
	}
}

// Fs returns the underlying filesystem.
func (s *Impl) Fs() afero.Fs {
	return s.fs
}

// Exists reports whether path exists.
func (s *Impl) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// ListItems returns the sorted names of the top-level entries in dir. When
// dirsOnly is set, plain files are left out. A missing dir is not an error:
// found is false and the list is empty.
func (s *Impl) ListItems(dir string, dirsOnly bool) ([]string, bool, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if dirsOnly {
			isDir, err := s.isDir(filepath.Join(dir, entry.Name()), entry)
			if err != nil {
				return nil, true, err
			}
			if !isDir {
				continue
			}
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, true, nil
}

// CopyTree copies the directory src to dst. Entries below src whose basename
// matches ignore are skipped at every level.
func (s *Impl) CopyTree(src, dst string, ignore *Ignore) error {
	info, err := s.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	if err := s.fs.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	entries, err := afero.ReadDir(s.fs, src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	for _, entry := range entries {
		if ignore.Match(entry.Name()) {
			s.logger.Debug().Str("path", filepath.Join(src, entry.Name())).Msg("ignored")
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		isDir, err := s.isDir(srcPath, entry)
		if err != nil {
			return err
		}
		if isDir {
			err = s.CopyTree(srcPath, dstPath, ignore)
		} else {
			err = s.CopyFile(srcPath, dstPath)
		}
		if err != nil {
			return err
		}
	}

	// Mode and times are restored last so a read-only source dir can still be filled.
	_ = s.fs.Chmod(dst, info.Mode().Perm())
	_ = s.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// CopyFile copies a single file, keeping its permission bits and mtime.
func (s *Impl) CopyFile(src, dst string) error {
	in, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := s.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	_ = s.fs.Chmod(dst, info.Mode().Perm())
	_ = s.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// Replace deletes dst, whether file or directory, and copies src in its place.
func (s *Impl) Replace(src, dst string, ignore *Ignore) error {
	if err := s.RemoveAll(dst); err != nil {
		return err
	}

	info, err := s.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if info.IsDir() {
		return s.CopyTree(src, dst, ignore)
	}
	return s.CopyFile(src, dst)
}

// RemoveAll deletes path and everything below it. A missing path is not an error.
func (s *Impl) RemoveAll(path string) error {
	if err := s.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// MkdirAll creates path and any missing parents.
func (s *Impl) MkdirAll(path string) error {
	if err := s.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	return nil
}

// EnsureLine appends line to the text file at path unless an identical line
// is already there. The file is created when missing. It reports whether the
// file changed.
func (s *Impl) EnsureLine(path, line string) (bool, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	for _, existing := range strings.Split(content, "\n") {
		if strings.TrimSpace(existing) == line {
			return false, nil
		}
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += line + "\n"

	if err := afero.WriteFile(s.fs, path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// isDir resolves symlinks so a linked directory is copied as a directory.
func (s *Impl) isDir(path string, entry os.FileInfo) (bool, error) {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := s.fs.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return info.IsDir(), nil
}
