// Package workmap builds the boolean mask tree that drives an enrichment
// pass: which fields of a bundle need (re)computation, gated on whether each
// field's prerequisites are satisfiable.
//
// The mask mirrors the bundle's shape exactly: scalar entries for the
// reference-id lists and auxiliary arrays, per-token entries for the four
// token arrays (including placeholder entries for tokens the reference-id
// list says should exist but do not yet), and a tagged sense mask per source
// sense token that distinguishes "collection not yet created" from per-sense
// field masks.
//
// The dependency gate is evolution-aware: because the registry is walked in
// dependency order, a prerequisite that is merely scheduled earlier in the
// same pass already satisfies its dependents. Re-running the builder on a
// fully valid bundle yields an all-clear mask.
//
// Structural inconsistencies (token arrays longer than their backing
// reference-id list, sense arrays misaligned with their display sibling) are
// surfaced to the caller and the affected per-element checks are skipped;
// the builder never auto-repairs the document.
package workmap
