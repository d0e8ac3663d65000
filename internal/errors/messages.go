package errors

import "fmt"

// Common error messages for the changeset CLI.

// ConfigMissing creates an error for a project without a config file.
func ConfigMissing(jsonPath, yamlPath string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("no configuration found (looked for %s and %s)", jsonPath, yamlPath),
		"Create "+jsonPath+` with at least {"baseBranch": "main"}`,
		"Or point --dir at the directory holding your changesets",
	)
}

// InvalidConfig creates an error for a config file that fails to load or validate.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Fix the reported fields in the config file",
		"Environment overrides use the CHANGESET_ prefix, e.g. CHANGESET_BASE_BRANCH",
	)
}

// MissingPackages creates an error for an add command with no --package.
func MissingPackages() *CLIError {
	return NewArgumentErrorWithUsage(
		"at least one package is required",
		`changeset add --package <name>:<major|minor|patch> --message "<description>"`,
		"Repeat --package for every package the change affects",
	)
}

// InvalidPackageSpec creates an error for a malformed --package value.
func InvalidPackageSpec(provided string, err error) *CLIError {
	cliErr := NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid package %q", provided),
		"--package <name>:<major|minor|patch>",
		"Example: --package widgets:minor",
	)
	if err != nil {
		cliErr.Message = fmt.Sprintf("invalid package %q: %v", provided, err)
		cliErr.Err = err
	}
	return cliErr
}

// MissingMessage creates an error for an add command with an empty description.
func MissingMessage() *CLIError {
	return NewArgumentErrorWithUsage(
		"a change description is required",
		`changeset add --package <name>:<class> --message "<description>"`,
		"The description becomes the changelog line for every listed package",
	)
}

// ReleaseFailed creates an error for a release that could not be written.
func ReleaseFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"release failed",
		"Pending changesets were left in place; fix the problem and rerun",
	)
}
