// Package registry is the single source of truth for every derivable field
// in a bundle document: which capability produces it, what validation policy
// applies, and which fields it depends on.
//
// Field paths use a small template grammar: scalar top-level names
// ("sourceRefs"), token-array paths with one repetition placeholder
// ("tokens.sourceDisplay[i].phonetic"), and sense-array paths with two
// ("tokens.sourceSense[i].senses[j].gloss"). Entries are declared in
// dependency order, so walking Entries front to back is a topological
// evaluation of the dependency graph.
//
// No other package hardcodes field names independently of this table.
package registry
