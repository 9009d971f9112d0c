package models

import "time"

// GitResult holds the result of a single git invocation.
type GitResult struct {
	Args     []string
	Output   string
	Duration time.Duration
}

// Snapshot describes a pre-pull backup directory.
type Snapshot struct {
	Name    string
	Path    string
	Created time.Time
}
