// Package capability defines the closed enumeration of enrichment
// capabilities and the invoker contract the pass engine depends on.
//
// A capability is an external unit of computation (segmentation, phonetic
// transliteration, dictionary lookup, sense normalization, cross-language
// matching, cross-reference indexing) that produces the fields it is
// registered for and nothing else. The engine hands each invoker the minimal
// input slice its registry dependencies declare, never the whole document.
package capability
