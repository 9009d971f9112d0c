// Package models contains the data structures used throughout wp-gitops.
package models

import "time"

// SyncConfig holds the persisted synchronization settings.
type SyncConfig struct {
	SyncThemes      bool
	SyncPlugins     bool
	SyncUploads     bool       // off by default, uploads can be large
	ExcludedPlugins []string   // plugin names never copied in either direction
	IgnorePatterns  []string   // basename globs skipped inside copied trees
	LastSync        *time.Time // nil until the first successful push
}

// IsExcluded reports whether a plugin name is in the exclusion set.
func (c SyncConfig) IsExcluded(name string) bool {
	for _, excluded := range c.ExcludedPlugins {
		if excluded == name {
			return true
		}
	}
	return false
}

// Enabled reports whether a category is switched on in the configuration.
func (c SyncConfig) Enabled(cat Category) bool {
	switch cat.Name {
	case CategoryThemes:
		return c.SyncThemes
	case CategoryPlugins:
		return c.SyncPlugins
	case CategoryUploads:
		return c.SyncUploads
	default:
		return false
	}
}

// Paths holds the two roots every command works between.
type Paths struct {
	WPPath  string // WordPress installation root
	GitRepo string // repository working copy root
}
