package config

import "github.com/ariel-frischer/changeset/internal/changelog"

// DefaultMaxHistoryEntries is the default cap on the release history log.
const DefaultMaxHistoryEntries = 100

// DefaultManifestFile is the manifest packages are discovered by.
const DefaultManifestFile = "pyproject.toml"

// GetDefaults returns the default value of every configuration key.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"baseBranch":        "main",
		"changelogFile":     changelog.DefaultFileName,
		"manifestFile":      DefaultManifestFile,
		"archive":           true,
		"maxHistoryEntries": DefaultMaxHistoryEntries,
		"changeTypes": map[string]interface{}{
			"major": map[string]interface{}{"description": "Breaking changes", "emoji": "💥"},
			"minor": map[string]interface{}{"description": "New features", "emoji": "✨"},
			"patch": map[string]interface{}{"description": "Bug fixes and improvements", "emoji": "🐛"},
		},
	}
}
