// Package savediff turns a pass result into a minimal persistence plan. It
// compares the pre-pass work mask against the enriched bundle and emits a
// write only for fields that were pending and are now valid, so a pass never
// rewrites data it did not produce and a failed capability leaves its fields
// untouched in the store.
//
// Bundle-level changes become concrete field-path writes; dictionary results
// additionally fan out into lexicon writes keyed by word, deduplicated across
// token positions.
package savediff
