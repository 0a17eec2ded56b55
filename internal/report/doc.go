// Package report builds human- and machine-readable views over enrichment
// state: a field-level audit of one bundle (what is valid, what is pending,
// who owns it) and an in-memory provenance tracker recording which pass and
// capability produced each persisted field.
package report
