package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fgeck/wp-gitops/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_LoadReader_FullConfig(t *testing.T) {
	content := `{
  "sync_themes": false,
  "sync_plugins": true,
  "sync_uploads": true,
  "excluded_plugins": ["akismet", "jetpack"],
  "ignore_patterns": ["*.log", "node_modules", ".DS_Store"],
  "last_sync": "2024-03-09T14:05:07+02:00"
}`
	parser := NewParser()
	cfg, err := parser.LoadReader(content)

	require.NoError(t, err)
	assert.False(t, cfg.SyncThemes)
	assert.True(t, cfg.SyncPlugins)
	assert.True(t, cfg.SyncUploads)
	assert.Equal(t, []string{"akismet", "jetpack"}, cfg.ExcludedPlugins)
	assert.Equal(t, []string{"*.log", "node_modules", ".DS_Store"}, cfg.IgnorePatterns)
	require.NotNil(t, cfg.LastSync)
	assert.True(t, cfg.LastSync.Equal(time.Date(2024, 3, 9, 12, 5, 7, 0, time.UTC)))
}

func TestParser_LoadReader_Defaults(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader(`{}`)

	require.NoError(t, err)
	assert.True(t, cfg.SyncThemes)
	assert.True(t, cfg.SyncPlugins)
	assert.False(t, cfg.SyncUploads)
	assert.Equal(t, []string{"akismet", "hello"}, cfg.ExcludedPlugins)
	assert.Equal(t, []string{"*.log", "node_modules"}, cfg.IgnorePatterns)
	assert.Nil(t, cfg.LastSync)
}

func TestParser_LoadReader_NullLastSync(t *testing.T) {
	content := `{
  "sync_themes": true,
  "sync_plugins": true,
  "sync_uploads": false,
  "excluded_plugins": ["akismet", "hello"],
  "last_sync": null
}`
	parser := NewParser()
	cfg, err := parser.LoadReader(content)

	require.NoError(t, err)
	assert.Nil(t, cfg.LastSync)
	// Files written before ignore_patterns existed get the defaults.
	assert.Equal(t, []string{"*.log", "node_modules"}, cfg.IgnorePatterns)
}

func TestParser_LoadReader_LastSyncWithoutZone(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader(`{"last_sync": "2024-03-09T14:05:07.123456"}`)

	require.NoError(t, err)
	require.NotNil(t, cfg.LastSync)
	assert.Equal(t, 2024, cfg.LastSync.Year())
	assert.Equal(t, 14, cfg.LastSync.Hour())
	assert.Equal(t, 123456000, cfg.LastSync.Nanosecond())
}

func TestParser_LoadReader_InvalidLastSync(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadReader(`{"last_sync": "yesterday"}`)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not an ISO-8601 timestamp")
}

func TestParser_LoadReader_EmptyExclusions(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader(`{"excluded_plugins": []}`)

	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedPlugins)
}

func TestParser_LoadReader_InvalidJSON(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadReader(`{"sync_themes": `)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestParser_LoadReader_InvalidIgnorePattern(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadReader(`{"ignore_patterns": ["[oops"]}`)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ignore_patterns")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *models.SyncConfig
		wantErr string
	}{
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: "configuration is nil",
		},
		{
			name: "empty exclusion name",
			cfg: &models.SyncConfig{
				ExcludedPlugins: []string{"akismet", "  "},
			},
			wantErr: "excluded_plugins must not contain empty names",
		},
		{
			name: "valid",
			cfg: func() *models.SyncConfig {
				cfg := Defaults()
				return &cfg
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStore_Load_Missing(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStoreWithFs(fs, "/repo")

	cfg, found, err := store.Load()

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Defaults(), *cfg)

	exists, err := afero.Exists(fs, "/repo/"+FileName)
	require.NoError(t, err)
	assert.False(t, exists, "Load must not write the file")
}

func TestStore_LoadOrCreate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0o755))
	store := NewStoreWithFs(fs, "/repo")

	cfg, created, err := store.LoadOrCreate()
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, Defaults(), *cfg)

	data, err := afero.ReadFile(fs, store.Path())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, true, raw["sync_themes"])
	assert.Equal(t, true, raw["sync_plugins"])
	assert.Equal(t, false, raw["sync_uploads"])
	assert.Equal(t, []any{"akismet", "hello"}, raw["excluded_plugins"])
	assert.Contains(t, raw, "last_sync")
	assert.Nil(t, raw["last_sync"])

	_, created, err = store.LoadOrCreate()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestStore_SaveAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0o755))
	store := NewStoreWithFs(fs, "/repo")

	synced := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	cfg := Defaults()
	cfg.SyncUploads = true
	cfg.ExcludedPlugins = []string{"akismet"}
	cfg.LastSync = &synced

	require.NoError(t, store.Save(&cfg))

	loaded, found, err := store.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, loaded.SyncUploads)
	assert.Equal(t, []string{"akismet"}, loaded.ExcludedPlugins)
	require.NotNil(t, loaded.LastSync)
	assert.True(t, loaded.LastSync.Equal(synced))

	exists, err := afero.Exists(fs, store.Path()+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_Save_Invalid(t *testing.T) {
	store := NewStoreWithFs(afero.NewMemMapFs(), "/repo")

	err := store.Save(&models.SyncConfig{ExcludedPlugins: []string{""}})

	assert.Error(t, err)
}
