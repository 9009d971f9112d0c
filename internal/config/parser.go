// Package config provides loading and saving of the sync configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/fgeck/wp-gitops/internal/services/mirror"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// FileName is the configuration file kept in the repository root.
const FileName = "wp-gitops-config.json"

// Configuration keys, also the JSON field names.
const (
	keySyncThemes      = "sync_themes"
	keySyncPlugins     = "sync_plugins"
	keySyncUploads     = "sync_uploads"
	keyExcludedPlugins = "excluded_plugins"
	keyIgnorePatterns  = "ignore_patterns"
	keyLastSync        = "last_sync"
)

// Layouts accepted for last_sync, the second is what older tooling wrote
// without a zone.
var lastSyncLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// Defaults returns the configuration written on first run.
func Defaults() models.SyncConfig {
	return models.SyncConfig{
		SyncThemes:      true,
		SyncPlugins:     true,
		SyncUploads:     false,
		ExcludedPlugins: []string{"akismet", "hello"},
		IgnorePatterns:  []string{"*.log", "node_modules"},
	}
}

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	return NewParserWithFs(afero.NewOsFs())
}

// NewParserWithFs creates a parser reading from a custom filesystem.
func NewParserWithFs(fs afero.Fs) *Parser {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("json")

	defaults := Defaults()
	v.SetDefault(keySyncThemes, defaults.SyncThemes)
	v.SetDefault(keySyncPlugins, defaults.SyncPlugins)
	v.SetDefault(keySyncUploads, defaults.SyncUploads)
	v.SetDefault(keyExcludedPlugins, defaults.ExcludedPlugins)
	v.SetDefault(keyIgnorePatterns, defaults.IgnorePatterns)

	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.SyncConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a reader (useful for testing).
func (p *Parser) LoadReader(content string) (*models.SyncConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.SyncConfig, error) {
	cfg := &models.SyncConfig{
		SyncThemes:      p.v.GetBool(keySyncThemes),
		SyncPlugins:     p.v.GetBool(keySyncPlugins),
		SyncUploads:     p.v.GetBool(keySyncUploads),
		ExcludedPlugins: p.v.GetStringSlice(keyExcludedPlugins),
		IgnorePatterns:  p.v.GetStringSlice(keyIgnorePatterns),
	}

	if raw := p.v.GetString(keyLastSync); raw != "" {
		ts, err := parseLastSync(raw)
		if err != nil {
			return nil, err
		}
		cfg.LastSync = &ts
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLastSync(raw string) (time.Time, error) {
	for _, layout := range lastSyncLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("last_sync %q is not an ISO-8601 timestamp", raw)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.SyncConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	for _, name := range cfg.ExcludedPlugins {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("excluded_plugins must not contain empty names")
		}
	}

	if _, err := mirror.NewIgnore(cfg.IgnorePatterns); err != nil {
		return fmt.Errorf("ignore_patterns: %w", err)
	}

	return nil
}
