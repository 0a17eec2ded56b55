// Package bundle defines the enriched document for one bilingual subtitle
// unit and the helpers for driving its lifecycle.
//
// A Bundle starts as identity plus raw source/target text and is filled in
// over repeated enrichment passes: reference-id lists from segmentation,
// four index-aligned token arrays (display and sense tokens per language
// side), per-token sense collections with a raw dictionary layer and an
// optional normalized layer, cross-language match pairs, and cross-reference
// index entries.
//
// Token arrays are strictly index-aligned with their backing reference-id
// list; Token.Index must always equal the array position. Sense collections
// distinguish "never attempted" (nil) from "attempted, nothing found"
// (empty non-nil slice) so the workmap builder can tell the two apart.
//
// Treat this package as the single source of truth for document shape; when
// you add derivable fields, update the field registry alongside.
package bundle
