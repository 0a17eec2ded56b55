// Package engine drives enrichment passes. A pass builds the work mask for a
// bundle, invokes each capability with pending work exactly once in
// registration order, merges the results back into an in-memory copy, and
// persists only the fields the mask asked for and the pass actually produced.
//
// Capabilities later in the order see the output of earlier ones within the
// same pass, so a bundle typically converges in three passes from bare text:
// segmentation first, the token-level capabilities next, and a final pass
// that verifies everything and reports no work.
//
// Failures are contained per capability. A capability that errors or returns
// malformed output contributes nothing to the pass; its mask bits survive to
// the next pass and everything else still lands.
package engine
