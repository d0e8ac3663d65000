package cli

import (
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/changeset/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config   string
		records  map[string]string
		contains []string
	}{
		"no records": {
			contains: []string{"No pending changesets."},
		},
		"pending records": {
			records: map[string]string{
				"a.md": "---\n\"widgets\": patch\n---\n\nFix it\n",
				"b.md": "---\n\"widgets\": minor\n---\n\nAdd it\n",
			},
			contains: []string{
				"2 pending changeset(s):",
				"• a: 🐛 widgets patch (Bug fixes and improvements)",
				"• b: ✨ widgets minor (New features)",
				"widgets: 1.2.3 → 1.3.0 (minor)",
			},
		},
		"configured class descriptions": {
			config: `{"baseBranch": "main", "changeTypes": {"major": {"description": "Breaking", "emoji": "!"}}}`,
			records: map[string]string{
				"a.md": "---\n\"widgets\": major\n---\n\nDrop Python 3.8\n",
			},
			contains: []string{
				"• a: ! widgets major (Breaking)",
				"widgets: 1.2.3 → 2.0.0 (major)",
			},
		},
		"unknown package": {
			records: map[string]string{
				"a.md": "---\n\"ghost\": major\n---\n\nBoo\n",
			},
			contains: []string{
				`no pyproject.toml declares package "ghost"`,
				"No releasable packages found.",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := newTestProject(t)
			if tt.config != "" {
				writeFile(t, root, filepath.Join(config.DefaultDir, config.ConfigJSONFile), tt.config)
			}
			for file, content := range tt.records {
				addRecord(t, root, file, content)
			}

			cmd, stdout, _ := newTestCommand()
			require.NoError(t, runStatus(cmd, projectOptions{Root: root}))
			for _, want := range tt.contains {
				assert.Contains(t, stdout.String(), want)
			}

			// status never writes
			assert.NoFileExists(t, filepath.Join(root, "widgets/CHANGELOG.md"))
		})
	}
}

func TestRunStatus_MissingConfig(t *testing.T) {
	t.Parallel()

	cmd, _, _ := newTestCommand()
	err := runStatus(cmd, projectOptions{Root: t.TempDir()})
	assert.Equal(t, ExitMissingConfig, ExitCode(err))
}
