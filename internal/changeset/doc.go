// Package changeset owns the on-disk changeset record format.
//
// A changeset record is a small markdown file in the changeset directory
// (.changeset by default) whose frontmatter names one or more packages and
// the kind of change each one receives:
//
//	---
//	"pkg-a": minor
//	"pkg-b": patch
//	---
//
//	Free-text description of the change.
//
// This package implements:
//   - parsing and rendering of individual records
//   - listing every pending record in a directory, tolerating malformed files
//   - writing new records under a generated unique slug
//   - archiving consumed records into a timestamped subdirectory
//   - grouping records by package in a deterministic order
package changeset
