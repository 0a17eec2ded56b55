package capability

import (
	"context"
	"strings"
)

// ID identifies one enrichment capability. The declared order is the fixed
// topological invocation order within a pass: a capability never observes
// stale input from one that should already have run.
type ID int

const (
	Segmentation ID = iota
	Transliteration
	Dictionary
	Normalization
	Matching
	Indexing
)

var names = [...]string{
	Segmentation:    "segmentation",
	Transliteration: "transliteration",
	Dictionary:      "dictionary",
	Normalization:   "normalization",
	Matching:        "matching",
	Indexing:        "indexing",
}

// All returns every capability in invocation order.
func All() []ID {
	ids := make([]ID, len(names))
	for i := range names {
		ids[i] = ID(i)
	}
	return ids
}

// String returns the stable lowercase name used in logs and reports.
func (id ID) String() string {
	if int(id) < 0 || int(id) >= len(names) {
		return "unknown"
	}
	return names[id]
}

// Parse converts a name into a known capability ID.
func Parse(value string) (ID, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for i, name := range names {
		if name == normalized {
			return ID(i), true
		}
	}
	return 0, false
}

// Invoker is implemented by every capability backend. Invoke must be
// side-effect free with respect to the bundle: results travel back through
// the response and are merged by the engine at the requested indices.
type Invoker interface {
	ID() ID
	Invoke(ctx context.Context, req Request) (Response, error)
}

// Set maps capability IDs to their configured invokers.
type Set map[ID]Invoker

// Register adds an invoker under its own ID, replacing any previous one.
func (s Set) Register(inv Invoker) {
	if inv == nil {
		return
	}
	s[inv.ID()] = inv
}
