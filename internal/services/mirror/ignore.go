package mirror

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Ignore matches entry basenames against a list of glob patterns.
type Ignore struct {
	patterns []string
	globs    []glob.Glob
}

// NewIgnore compiles the given patterns. Patterns use '/' as the separator.
func NewIgnore(patterns []string) (*Ignore, error) {
	ig := &Ignore{patterns: patterns}
	for _, pat := range patterns {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pat, err)
		}
		ig.globs = append(ig.globs, g)
	}
	return ig, nil
}

// Match returns true if the basename matches any pattern. A nil Ignore matches nothing.
func (ig *Ignore) Match(name string) bool {
	if ig == nil {
		return false
	}
	for _, g := range ig.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (ig *Ignore) Patterns() []string {
	if ig == nil {
		return nil
	}
	return ig.patterns
}
