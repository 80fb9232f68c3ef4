// Package metadata extracts the structured trailer that changegen expects at the
// end of every commit message, and renders it back.
//
// A commit message is split at its last blank line ("\n\n"). Everything after
// that separator is the trailer: a YAML mapping with the keys
//
//	type: fix
//	pr: https://example.org/repo/pull/123
//	fixes:
//	  - https://example.org/repo/issues/42
//	co-authored-by: Jane Doe <jane@example.org>
//
// Only "type" is required. The package is pure: it performs no I/O, holds no
// shared state and is safe for concurrent use.
package metadata
