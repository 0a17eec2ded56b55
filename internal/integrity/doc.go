// Package integrity holds the per-capability field checkers: pure functions
// that inspect the current bundle and report, field by field, whether work
// is needed. Checkers never mutate the bundle and never fail; an absent,
// wrong-typed, or content-empty value simply reads as "needs work".
//
// The shared Satisfied oracle is the inverse view of the same rules and is
// reused by the dependency gate and the save differencer, so validity is
// judged identically everywhere.
package integrity
