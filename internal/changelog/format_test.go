package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ariel-frischer/changeset/internal/changeset"
	"github.com/ariel-frischer/changeset/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSummary_Plain(t *testing.T) {
	t.Parallel()

	releases := []PackageRelease{
		{Package: "pkg-a", Bump: version.Resolve(version.Version{Major: 1, Minor: 2}, []changeset.ChangeClass{changeset.Minor})},
		{Package: "pkg-b", Bump: version.Resolve(version.Version{Patch: 1}, []changeset.ChangeClass{changeset.Major})},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatSummary(&buf, releases, FormatOptions{Plain: true}))
	assert.Equal(t,
		"Found updates for 2 package(s):\n"+
			"  📦 pkg-a: 1.2.0 → 1.3.0 (minor)\n"+
			"  📦 pkg-b: 0.0.1 → 1.0.0 (major)\n",
		buf.String())
}

func TestFormatSection_Plain(t *testing.T) {
	t.Parallel()

	s := Section{Version: "1.0.1", Groups: []Group{{Class: changeset.Patch, Lines: []string{"- Fix"}}}}

	var buf bytes.Buffer
	require.NoError(t, FormatSection(&buf, "Changelog for pkg/CHANGELOG.md:", s, FormatOptions{Plain: true, MaxWidth: 20}))

	sep := strings.Repeat("-", 20)
	assert.Equal(t, "\nChangelog for pkg/CHANGELOG.md:\n"+sep+"\n"+s.String()+"\n"+sep+"\n", buf.String())
}

func TestSeparator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "=====", Separator('=', 5))
	assert.Len(t, Separator('-', 500), maxSeparatorWidth)
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text     string
		maxWidth int
		want     string
	}{
		"fits":     {text: "short line", maxWidth: 20, want: "short line"},
		"wraps":    {text: "one two three four", maxWidth: 9, want: "one two\n  three\n  four"},
		"no limit": {text: "anything goes", maxWidth: 0, want: "anything goes"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wrapText(tt.text, tt.maxWidth, "  "))
		})
	}
}
