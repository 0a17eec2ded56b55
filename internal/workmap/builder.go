package workmap

import (
	"fmt"

	"lexweave/internal/bundle"
	"lexweave/internal/integrity"
	"lexweave/internal/registry"
)

// Build walks the field registry once and produces the work mask for a
// bundle, plus any structural inconsistencies it refused to check around.
// Build never mutates the bundle.
func Build(b *bundle.Bundle) (*Mask, []Inconsistency) {
	m := newMask()
	g := newGate(b)
	var incs []Inconsistency

	buildRefs(m, g, b)

	for _, side := range bundle.Sides() {
		incs = append(incs, buildTokens(m, g, b, side)...)
	}

	buildSenses(m, g, b)
	buildAuxiliary(m, g, b)

	return m, incs
}

func mustLookup(f registry.Field) registry.Entry {
	e, ok := registry.Lookup(f)
	if !ok {
		panic(fmt.Sprintf("workmap: field %s missing from registry", f))
	}
	return e
}

func buildRefs(m *Mask, g *gate, b *bundle.Bundle) {
	for _, side := range bundle.Sides() {
		field := registry.FieldSourceRefs
		if side == bundle.Target {
			field = registry.FieldTargetRefs
		}
		e := mustLookup(field)
		sc := integrity.TopLevel(side)
		if !g.CanCheck(e, sc) {
			continue
		}
		if integrity.Satisfied(e, b, sc) {
			continue
		}
		if side == bundle.Target {
			m.TargetRefs = true
		} else {
			m.SourceRefs = true
		}
		m.mark(e.Owner)
		g.schedule(e.Field, sc)
	}
}

// tokenFields lists the token-scoped registry entries for one side, display
// array first, sense array second.
func tokenFields(side bundle.Side) (display []registry.Entry, sense registry.Entry) {
	if side == bundle.Target {
		return []registry.Entry{
			mustLookup(registry.FieldTargetDisplaySurface),
		}, mustLookup(registry.FieldTargetSenseSurface)
	}
	return []registry.Entry{
		mustLookup(registry.FieldSourceDisplaySurface),
		mustLookup(registry.FieldSourcePhonetic),
		mustLookup(registry.FieldSourceRomanization),
	}, mustLookup(registry.FieldSourceSenseSurface)
}

func buildTokens(m *Mask, g *gate, b *bundle.Bundle, side bundle.Side) []Inconsistency {
	var incs []Inconsistency
	refs := b.Refs(side)
	display := b.Display(side)
	senseToks := b.SenseTokens(side)

	skipDisplay := false
	skipSense := false
	if refs != nil && len(display) > len(refs) {
		incs = append(incs, Inconsistency{Side: side, Detail: fmt.Sprintf("display tokens (%d) exceed reference ids (%d)", len(display), len(refs))})
		skipDisplay = true
	}
	if refs != nil && len(senseToks) > len(refs) {
		incs = append(incs, Inconsistency{Side: side, Detail: fmt.Sprintf("sense tokens (%d) exceed reference ids (%d)", len(senseToks), len(refs))})
		skipSense = true
	}
	if refs == nil && len(display) > 0 && len(senseToks) > 0 && len(display) != len(senseToks) {
		incs = append(incs, Inconsistency{Side: side, Detail: fmt.Sprintf("sense tokens (%d) misaligned with display tokens (%d)", len(senseToks), len(display))})
		skipSense = true
	}

	displayEntries, senseEntry := tokenFields(side)

	if !skipDisplay {
		count := len(display)
		if refs != nil {
			count = len(refs)
		}
		masks := make([]TokenMask, count)
		for i := range masks {
			sc := integrity.TokenScope(side, i)
			tm := TokenMask{Placeholder: i >= len(display)}
			for _, e := range displayEntries {
				if !g.CanCheck(e, sc) {
					continue
				}
				if !tm.Placeholder && integrity.Satisfied(e, b, sc) {
					continue
				}
				setTokenField(&tm, e.Field)
				m.mark(e.Owner)
				g.schedule(e.Field, sc)
			}
			masks[i] = tm
		}
		if side == bundle.Target {
			m.TargetDisplay = masks
		} else {
			m.SourceDisplay = masks
		}
	}

	if !skipSense {
		count := len(senseToks)
		if refs != nil {
			count = len(refs)
		}
		masks := make([]TokenMask, count)
		for i := range masks {
			sc := integrity.TokenScope(side, i)
			tm := TokenMask{Placeholder: i >= len(senseToks)}
			if g.CanCheck(senseEntry, sc) {
				if tm.Placeholder || !integrity.Satisfied(senseEntry, b, sc) {
					tm.Surface = true
					m.mark(senseEntry.Owner)
					g.schedule(senseEntry.Field, sc)
				}
			}
			masks[i] = tm
		}
		if side == bundle.Target {
			m.TargetSense = masks
		} else {
			m.SourceSense = masks
		}
	}

	return incs
}

func setTokenField(tm *TokenMask, f registry.Field) {
	switch f {
	case registry.FieldSourceDisplaySurface, registry.FieldTargetDisplaySurface:
		tm.Surface = true
	case registry.FieldSourcePhonetic:
		tm.Phonetic = true
	case registry.FieldSourceRomanization:
		tm.Romanization = true
	}
}

// senseScopedEntries lists the per-sense registry entries in dependency
// order: the raw dictionary layer, then the normalized layer.
func senseScopedEntries() []registry.Entry {
	return []registry.Entry{
		mustLookup(registry.FieldSensePOS),
		mustLookup(registry.FieldSenseGloss),
		mustLookup(registry.FieldSenseSourceTag),
		mustLookup(registry.FieldSenseBilingualPOS),
		mustLookup(registry.FieldSenseMeaning),
		mustLookup(registry.FieldSenseClarification),
		mustLookup(registry.FieldSenseConfidence),
	}
}

// buildSenses recurses one level deeper for the source-side sense arrays.
// Collections that have never been attempted (nil) get a NotYetCreated mask
// with one placeholder entry once their token-level prerequisite is
// satisfiable; attempted-but-empty collections carry no work.
func buildSenses(m *Mask, g *gate, b *bundle.Bundle) {
	if m.SourceSense == nil {
		return
	}
	senseToks := b.Tokens.SourceSense
	sensesEntry := mustLookup(registry.FieldSenses)
	fieldEntries := senseScopedEntries()

	m.Senses = make([]SenseMask, len(m.SourceSense))
	for i := range m.Senses {
		tokenScope := integrity.TokenScope(bundle.Source, i)

		var senses []bundle.Sense
		exists := i < len(senseToks)
		if exists {
			senses = senseToks[i].Senses
		}

		if !exists || senses == nil {
			sm := SenseMask{State: SenseNotYetCreated}
			if g.CanCheck(sensesEntry, tokenScope) {
				m.mark(sensesEntry.Owner)
				g.schedule(sensesEntry.Field, tokenScope)

				sc := integrity.SenseScope(bundle.Source, i, 0)
				fm := SenseFieldMask{Placeholder: true}
				for _, e := range fieldEntries {
					if !g.CanCheck(e, sc) {
						continue
					}
					setSenseField(&fm, e.Field)
					m.mark(e.Owner)
					g.schedule(e.Field, sc)
				}
				sm.Senses = []SenseFieldMask{fm}
			}
			m.Senses[i] = sm
			continue
		}

		sm := SenseMask{State: SensePerSense, Senses: make([]SenseFieldMask, len(senses))}
		for j := range senses {
			sc := integrity.SenseScope(bundle.Source, i, j)
			fm := SenseFieldMask{}
			for _, e := range fieldEntries {
				if !g.CanCheck(e, sc) {
					continue
				}
				if integrity.Satisfied(e, b, sc) {
					continue
				}
				setSenseField(&fm, e.Field)
				m.mark(e.Owner)
				g.schedule(e.Field, sc)
			}
			sm.Senses[j] = fm
		}
		m.Senses[i] = sm
	}
}

func setSenseField(fm *SenseFieldMask, f registry.Field) {
	switch f {
	case registry.FieldSensePOS:
		fm.POS = true
	case registry.FieldSenseGloss:
		fm.Gloss = true
	case registry.FieldSenseSourceTag:
		fm.SourceTag = true
	case registry.FieldSenseBilingualPOS:
		fm.BilingualPOS = true
	case registry.FieldSenseMeaning:
		fm.Meaning = true
	case registry.FieldSenseClarification:
		fm.Clarification = true
	case registry.FieldSenseConfidence:
		fm.Confidence = true
	}
}

func buildAuxiliary(m *Mask, g *gate, b *bundle.Bundle) {
	sc := integrity.TopLevel(bundle.Source)

	matches := mustLookup(registry.FieldMatches)
	if g.CanCheck(matches, sc) && !integrity.Satisfied(matches, b, sc) {
		m.Matches = true
		m.mark(matches.Owner)
		g.schedule(matches.Field, sc)
	}

	crossRefs := mustLookup(registry.FieldCrossRefs)
	if g.CanCheck(crossRefs, sc) && !integrity.Satisfied(crossRefs, b, sc) {
		m.CrossRefs = true
		m.mark(crossRefs.Owner)
		g.schedule(crossRefs.Field, sc)
	}
}
