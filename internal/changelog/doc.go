// Package changelog renders per-package changelog sections and splices them
// into Markdown changelog documents.
//
// A changelog document looks like:
//
//	# pkg-a
//
//	## 1.3.0
//
//	### Minor Changes
//
//	[#42](https://github.com/acme/widgets/pull/42) Thanks @alice! - Add frobnicator
//
//	## 1.2.0
//	...
//
// New sections always go directly below the top-level header, so the newest
// version comes first and earlier content is never rewritten. The package
// also builds the combined release description and the terminal summary.
package changelog
