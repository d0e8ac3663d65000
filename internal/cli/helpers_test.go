package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/changeset/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newTestCommand returns a throwaway command capturing stdout and stderr.
func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "test"}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())
	return cmd, &stdout, &stderr
}

// writeFile writes content below root, creating parent directories.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newTestProject creates a configured project with one package and returns
// its root.
func newTestProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, filepath.Join(config.DefaultDir, config.ConfigJSONFile), `{"baseBranch": "main"}`)
	writeFile(t, root, "widgets/pyproject.toml", "[project]\nname = \"widgets\"\nversion = \"1.2.3\"\n")
	return root
}

func addRecord(t *testing.T, root, name, content string) string {
	t.Helper()
	return writeFile(t, root, filepath.Join(config.DefaultDir, name), content)
}
