package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/spf13/afero"
)

// fileConfig is the on-disk JSON layout.
type fileConfig struct {
	SyncThemes      bool     `json:"sync_themes"`
	SyncPlugins     bool     `json:"sync_plugins"`
	SyncUploads     bool     `json:"sync_uploads"`
	ExcludedPlugins []string `json:"excluded_plugins"`
	IgnorePatterns  []string `json:"ignore_patterns"`
	LastSync        *string  `json:"last_sync"`
}

// Store reads and writes the configuration file of one repository.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for the configuration file inside repo.
func NewStore(repo string) *Store {
	return NewStoreWithFs(afero.NewOsFs(), repo)
}

// NewStoreWithFs creates a store on a custom filesystem (for testing).
func NewStoreWithFs(fs afero.Fs, repo string) *Store {
	return &Store{
		fs:   fs,
		path: filepath.Join(repo, FileName),
	}
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration. A missing file yields the defaults and
// found=false; nothing is written.
func (s *Store) Load() (*models.SyncConfig, bool, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, false, fmt.Errorf("checking config file: %w", err)
	}
	if !exists {
		cfg := Defaults()
		return &cfg, false, nil
	}

	cfg, err := NewParserWithFs(s.fs).LoadFile(s.path)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// LoadOrCreate reads the configuration, writing the defaults first if the
// file doesn't exist yet. created reports whether the file was written.
func (s *Store) LoadOrCreate() (*models.SyncConfig, bool, error) {
	cfg, found, err := s.Load()
	if err != nil {
		return nil, found, err
	}
	if found {
		return cfg, false, nil
	}

	if err := s.Save(cfg); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Save writes the configuration through a temporary file and a rename.
func (s *Store) Save(cfg *models.SyncConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	out := fileConfig{
		SyncThemes:      cfg.SyncThemes,
		SyncPlugins:     cfg.SyncPlugins,
		SyncUploads:     cfg.SyncUploads,
		ExcludedPlugins: nonNil(cfg.ExcludedPlugins),
		IgnorePatterns:  nonNil(cfg.IgnorePatterns),
	}
	if cfg.LastSync != nil {
		ts := cfg.LastSync.Format(time.RFC3339)
		out.LastSync = &ts
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// JSON lists render as [] rather than null.
func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
