// Package store persists bundles and the lexicon in SQLite. Bundle documents
// are stored as JSON alongside lifecycle metadata; pass results land through
// field-path merges that touch only the values a pass produced, so concurrent
// readers never observe a half-written document and a crashed pass leaves the
// previous document intact.
//
// A file lock next to the database enforces a single writing process.
package store
