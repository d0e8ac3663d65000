package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(99), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrapWithMessage(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := WrapWithMessage(cause, Runtime, "writing changelog", "Free some space")
	require.NotNil(t, err)
	assert.Equal(t, "writing changelog: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"Free some space"}, err.Remediation)

	assert.Nil(t, WrapWithMessage(nil, Runtime, "ignored"))
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	inner := MissingPackages()
	wrapped := fmt.Errorf("add: %w", inner)

	assert.Same(t, inner, AsCLIError(wrapped))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
}

func TestMessages(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
		contains string
	}{
		"config missing": {
			err:      ConfigMissing(".changeset/config.json", ".changeset/config.yml"),
			category: Configuration,
			contains: ".changeset/config.json",
		},
		"invalid config": {
			err:      InvalidConfig(stderrors.New("baseBranch is required")),
			category: Configuration,
			contains: "baseBranch is required",
		},
		"missing packages": {
			err:      MissingPackages(),
			category: Argument,
			contains: "at least one package",
		},
		"invalid package without cause": {
			err:      InvalidPackageSpec("widgets", nil),
			category: Argument,
			contains: `invalid package "widgets"`,
		},
		"invalid package with cause": {
			err:      InvalidPackageSpec("widgets:huge", stderrors.New(`unknown change class "huge"`)),
			category: Argument,
			contains: `unknown change class "huge"`,
		},
		"missing message": {
			err:      MissingMessage(),
			category: Argument,
			contains: "description is required",
		},
		"release failed": {
			err:      ReleaseFailed(stderrors.New("permission denied")),
			category: Runtime,
			contains: "permission denied",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}

func TestFprintError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintError(&buf, InvalidPackageSpec("widgets", nil))

	out := buf.String()
	assert.Contains(t, out, "Argument Error")
	assert.Contains(t, out, `invalid package "widgets"`)
	assert.Contains(t, out, "--package <name>:<major|minor|patch>")
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "Example: --package widgets:minor")

	buf.Reset()
	FprintError(&buf, nil)
	assert.Empty(t, buf.String())
}
