// Command lexweave manages bilingual subtitle bundles: adding raw text,
// running enrichment passes, and inspecting field-level state.
package main
