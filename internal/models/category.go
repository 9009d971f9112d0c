package models

// Category names.
const (
	CategoryThemes  = "themes"
	CategoryPlugins = "plugins"
	CategoryUploads = "uploads"
)

// CopyMode controls how push replaces a category in the repository.
type CopyMode int

const (
	// WholeTree deletes the destination tree and copies the source tree as one unit.
	WholeTree CopyMode = iota
	// PerItem recreates the destination and copies each top-level item separately.
	PerItem
)

// Category describes one mirrored content class.
type Category struct {
	Name      string
	SourceDir string // relative to the WordPress root
	RepoDir   string // relative to the repository root
	Label     string // unit used in change summaries
	DirsOnly  bool   // only directories count as items
	Filtered  bool   // honours the plugin exclusion set
	Mode      CopyMode
}

// Categories returns the mirrored categories in synchronization order.
func Categories() []Category {
	return []Category{
		{
			Name:      CategoryThemes,
			SourceDir: "wp-content/themes",
			RepoDir:   "themes",
			Label:     "teemaa",
			DirsOnly:  true,
			Mode:      WholeTree,
		},
		{
			Name:      CategoryPlugins,
			SourceDir: "wp-content/plugins",
			RepoDir:   "plugins",
			Label:     "pluginia",
			Filtered:  true,
			Mode:      PerItem,
		},
		{
			Name:      CategoryUploads,
			SourceDir: "wp-content/uploads",
			RepoDir:   "uploads",
			Label:     "latausta",
			Mode:      WholeTree,
		},
	}
}
