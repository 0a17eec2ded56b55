package registry

import (
	"fmt"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
)

// Field is a template path naming one derivable (or origin) field.
type Field string

const (
	FieldSourceText Field = "sourceText"
	FieldTargetText Field = "targetText"

	FieldSourceRefs Field = "sourceRefs"
	FieldTargetRefs Field = "targetRefs"

	FieldSourceDisplaySurface Field = "tokens.sourceDisplay[i].surface"
	FieldSourcePhonetic       Field = "tokens.sourceDisplay[i].phonetic"
	FieldSourceRomanization   Field = "tokens.sourceDisplay[i].romanization"
	FieldTargetDisplaySurface Field = "tokens.targetDisplay[i].surface"
	FieldSourceSenseSurface   Field = "tokens.sourceSense[i].surface"
	FieldTargetSenseSurface   Field = "tokens.targetSense[i].surface"
	FieldSenses               Field = "tokens.sourceSense[i].senses"
	FieldSensePOS             Field = "tokens.sourceSense[i].senses[j].pos"
	FieldSenseGloss           Field = "tokens.sourceSense[i].senses[j].gloss"
	FieldSenseSourceTag       Field = "tokens.sourceSense[i].senses[j].sourceTag"
	FieldSenseBilingualPOS    Field = "tokens.sourceSense[i].senses[j].bilingualPos"
	FieldSenseMeaning         Field = "tokens.sourceSense[i].senses[j].meaning"
	FieldSenseClarification   Field = "tokens.sourceSense[i].senses[j].clarification"
	FieldSenseConfidence      Field = "tokens.sourceSense[i].senses[j].confidence"
	FieldMatches              Field = "matches"
	FieldCrossRefs            Field = "crossRefs"
)

// Scope describes how deep into the document a field path reaches.
type Scope int

const (
	ScopeTopLevel Scope = iota
	ScopeToken
	ScopeSense
)

// Entry describes one field registry row.
type Entry struct {
	Field  Field
	Owner  capability.ID
	Origin bool // raw input field; present at creation, never scheduled
	// Optional fields count as satisfied once their parent object exists:
	// their producer writes them as part of a larger unit and may
	// legitimately leave them empty, so an empty value must not re-trigger
	// the whole unit forever.
	Optional  bool
	Policy    Policy
	Kind      Kind
	Scope     Scope
	Side      bundle.Side
	DependsOn []Field
}

// entries is declared in dependency order; Entries preserves it so callers
// walking the table evaluate prerequisites before dependents.
var entries = []Entry{
	{Field: FieldSourceText, Origin: true, Policy: PresenceContent, Kind: KindString, Scope: ScopeTopLevel, Side: bundle.Source},
	{Field: FieldTargetText, Origin: true, Policy: PresenceContent, Kind: KindString, Scope: ScopeTopLevel, Side: bundle.Target},

	{Field: FieldSourceRefs, Owner: capability.Segmentation, Policy: PresenceTypeLength, Kind: KindArray, Scope: ScopeTopLevel, Side: bundle.Source, DependsOn: []Field{FieldSourceText}},
	{Field: FieldTargetRefs, Owner: capability.Segmentation, Policy: PresenceTypeLength, Kind: KindArray, Scope: ScopeTopLevel, Side: bundle.Target, DependsOn: []Field{FieldTargetText}},

	{Field: FieldSourceDisplaySurface, Owner: capability.Segmentation, Policy: PresenceContent, Kind: KindString, Scope: ScopeToken, Side: bundle.Source, DependsOn: []Field{FieldSourceRefs}},
	{Field: FieldSourceSenseSurface, Owner: capability.Segmentation, Policy: PresenceContent, Kind: KindString, Scope: ScopeToken, Side: bundle.Source, DependsOn: []Field{FieldSourceRefs}},
	{Field: FieldTargetDisplaySurface, Owner: capability.Segmentation, Policy: PresenceContent, Kind: KindString, Scope: ScopeToken, Side: bundle.Target, DependsOn: []Field{FieldTargetRefs}},
	{Field: FieldTargetSenseSurface, Owner: capability.Segmentation, Policy: PresenceContent, Kind: KindString, Scope: ScopeToken, Side: bundle.Target, DependsOn: []Field{FieldTargetRefs}},

	{Field: FieldSourcePhonetic, Owner: capability.Transliteration, Policy: PresenceContent, Kind: KindString, Scope: ScopeToken, Side: bundle.Source, DependsOn: []Field{FieldSourceDisplaySurface}},
	{Field: FieldSourceRomanization, Owner: capability.Transliteration, Policy: PresenceContent, Kind: KindString, Scope: ScopeToken, Side: bundle.Source, DependsOn: []Field{FieldSourceDisplaySurface}},

	{Field: FieldSenses, Owner: capability.Dictionary, Policy: PresenceType, Kind: KindArray, Scope: ScopeToken, Side: bundle.Source, DependsOn: []Field{FieldSourceSenseSurface}},
	{Field: FieldSensePOS, Owner: capability.Dictionary, Optional: true, Policy: PresenceContent, Kind: KindString, Scope: ScopeSense, Side: bundle.Source, DependsOn: []Field{FieldSourceSenseSurface}},
	{Field: FieldSenseGloss, Owner: capability.Dictionary, Policy: PresenceContent, Kind: KindString, Scope: ScopeSense, Side: bundle.Source, DependsOn: []Field{FieldSourceSenseSurface}},
	{Field: FieldSenseSourceTag, Owner: capability.Dictionary, Optional: true, Policy: PresenceContent, Kind: KindString, Scope: ScopeSense, Side: bundle.Source, DependsOn: []Field{FieldSourceSenseSurface}},

	{Field: FieldSenseBilingualPOS, Owner: capability.Normalization, Policy: PresenceContent, Kind: KindString, Scope: ScopeSense, Side: bundle.Source, DependsOn: []Field{FieldSenseGloss, FieldSensePOS}},
	{Field: FieldSenseMeaning, Owner: capability.Normalization, Policy: PresenceContent, Kind: KindString, Scope: ScopeSense, Side: bundle.Source, DependsOn: []Field{FieldSenseGloss}},
	{Field: FieldSenseClarification, Owner: capability.Normalization, Policy: PresenceContent, Kind: KindString, Scope: ScopeSense, Side: bundle.Source, DependsOn: []Field{FieldSenseGloss}},
	{Field: FieldSenseConfidence, Owner: capability.Normalization, Policy: Presence, Kind: KindNumber, Scope: ScopeSense, Side: bundle.Source, DependsOn: []Field{FieldSenseGloss}},

	{Field: FieldMatches, Owner: capability.Matching, Policy: PresenceType, Kind: KindArray, Scope: ScopeTopLevel, Side: bundle.Source, DependsOn: []Field{FieldSenseGloss, FieldTargetDisplaySurface}},
	{Field: FieldCrossRefs, Owner: capability.Indexing, Policy: PresenceType, Kind: KindArray, Scope: ScopeTopLevel, Side: bundle.Source, DependsOn: []Field{FieldSourceRefs}},
}

var index = func() map[Field]Entry {
	m := make(map[Field]Entry, len(entries))
	for _, e := range entries {
		if _, dup := m[e.Field]; dup {
			panic(fmt.Sprintf("registry: duplicate field %s", e.Field))
		}
		m[e.Field] = e
	}
	return m
}()

// Entries returns the registry rows in dependency order.
func Entries() []Entry {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return cp
}

// Lookup returns the registry entry for a field template.
func Lookup(f Field) (Entry, bool) {
	e, ok := index[f]
	return e, ok
}

// ForCapability returns the fields a capability owns, in dependency order.
func ForCapability(id capability.ID) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.Origin && e.Owner == id {
			out = append(out, e)
		}
	}
	return out
}

// Owners returns every capability that owns at least one field, in
// invocation order.
func Owners() []capability.ID {
	seen := make(map[capability.ID]bool)
	var out []capability.ID
	for _, id := range capability.All() {
		if seen[id] {
			continue
		}
		if len(ForCapability(id)) > 0 {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
