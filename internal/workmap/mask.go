package workmap

import (
	"lexweave/internal/bundle"
	"lexweave/internal/capability"
)

// TokenMask holds the per-field work bits for one token position.
// Placeholder marks a position the reference-id list requires but the token
// array has not materialized yet.
type TokenMask struct {
	Surface      bool
	Phonetic     bool
	Romanization bool
	Placeholder  bool
}

// Any reports whether the token has any pending field.
func (t TokenMask) Any() bool {
	return t.Surface || t.Phonetic || t.Romanization
}

// SenseFieldMask holds the per-field work bits for one sense.
type SenseFieldMask struct {
	POS       bool
	Gloss     bool
	SourceTag bool

	BilingualPOS  bool
	Meaning       bool
	Clarification bool
	Confidence    bool

	Placeholder bool
}

// RawAny reports pending work in the raw dictionary layer.
func (s SenseFieldMask) RawAny() bool {
	return s.POS || s.Gloss || s.SourceTag
}

// NormalizedAny reports pending work in the normalized layer.
func (s SenseFieldMask) NormalizedAny() bool {
	return s.BilingualPOS || s.Meaning || s.Clarification || s.Confidence
}

// Any reports whether the sense has any pending field.
func (s SenseFieldMask) Any() bool {
	return s.RawAny() || s.NormalizedAny()
}

// SenseState tags the two shapes a sense mask can take.
type SenseState int

const (
	// SenseNotYetCreated: the sense collection does not exist; the single
	// mask entry under it is the placeholder for the first sense.
	SenseNotYetCreated SenseState = iota
	// SensePerSense: the collection exists (possibly empty after an
	// attempted lookup) and Senses holds one mask per element.
	SensePerSense
)

// SenseMask is the tagged mask for one token's sense collection.
type SenseMask struct {
	State  SenseState
	Senses []SenseFieldMask
}

// Any reports whether the collection has any pending field. A NotYetCreated
// mask carries work exactly when the builder emitted its placeholder entry;
// a blocked collection stays NotYetCreated with no entries.
func (s SenseMask) Any() bool {
	if s.State == SenseNotYetCreated {
		return len(s.Senses) > 0
	}
	for _, f := range s.Senses {
		if f.Any() {
			return true
		}
	}
	return false
}

// Mask is the boolean work tree for one bundle, shaped exactly like the
// document it was built from.
type Mask struct {
	SourceRefs bool
	TargetRefs bool

	SourceDisplay []TokenMask
	TargetDisplay []TokenMask
	SourceSense   []TokenMask
	TargetSense   []TokenMask

	// Senses is index-aligned with SourceSense, placeholders included.
	Senses []SenseMask

	Matches   bool
	CrossRefs bool

	needs map[capability.ID]bool
}

func newMask() *Mask {
	return &Mask{needs: make(map[capability.ID]bool)}
}

func (m *Mask) mark(id capability.ID) {
	m.needs[id] = true
}

// NeedsWork reports in O(1) whether a capability has any pending field
// anywhere in the mask.
func (m *Mask) NeedsWork(id capability.ID) bool {
	return m.needs[id]
}

// AllClear reports whether no capability has pending work.
func (m *Mask) AllClear() bool {
	for _, pending := range m.needs {
		if pending {
			return false
		}
	}
	return true
}

// PendingCapabilities returns capabilities with pending work, in invocation
// order.
func (m *Mask) PendingCapabilities() []capability.ID {
	var out []capability.ID
	for _, id := range capability.All() {
		if m.needs[id] {
			out = append(out, id)
		}
	}
	return out
}

// Refs returns the reference-id list mask bit for a language side.
func (m *Mask) Refs(side bundle.Side) bool {
	if side == bundle.Target {
		return m.TargetRefs
	}
	return m.SourceRefs
}

// Display returns the display token masks for a language side.
func (m *Mask) Display(side bundle.Side) []TokenMask {
	if side == bundle.Target {
		return m.TargetDisplay
	}
	return m.SourceDisplay
}

// SenseTokens returns the sense token masks for a language side.
func (m *Mask) SenseTokens(side bundle.Side) []TokenMask {
	if side == bundle.Target {
		return m.TargetSense
	}
	return m.SourceSense
}

// Inconsistency describes a structural problem the builder refused to check
// around. It is surfaced for the caller to decide; nothing is auto-repaired.
type Inconsistency struct {
	Side   bundle.Side
	Detail string
}

func (i Inconsistency) String() string {
	return string(i.Side) + ": " + i.Detail
}
