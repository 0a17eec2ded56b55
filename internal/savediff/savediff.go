package savediff

import (
	"lexweave/internal/bundle"
	"lexweave/internal/integrity"
	"lexweave/internal/lexicon"
	"lexweave/internal/registry"
	"lexweave/internal/workmap"
)

// BundleWrite is the persistence delta for one bundle. Fields maps concrete
// document paths to their new values. Full is set only when a caller forces a
// whole-document flush.
type BundleWrite struct {
	ID     string
	Fields map[string]any
	Full   *bundle.Bundle
}

// Empty reports whether the write would change nothing.
func (w BundleWrite) Empty() bool {
	return w.Full == nil && len(w.Fields) == 0
}

// LexiconWrite upserts one word's lexical record from freshly produced
// bundle data.
type LexiconWrite struct {
	Word  string
	Entry lexicon.Entry
}

// Plan is everything one pass wants persisted.
type Plan struct {
	Bundle  BundleWrite
	Lexicon []LexiconWrite
}

// Options tunes plan construction.
type Options struct {
	// ForceFullFlush replaces the field-path delta with a whole-document
	// write. Used for newly created bundles and manual repair.
	ForceFullFlush bool
	// SkipLexicon suppresses lexicon write-back.
	SkipLexicon bool
}

// Build compares the pre-pass mask against the enriched bundle and returns
// the writes for every field that was pending and is now valid. A nil mask
// with ForceFullFlush unset produces an empty plan.
func Build(mask *workmap.Mask, enriched *bundle.Bundle, opts Options) Plan {
	plan := Plan{Bundle: BundleWrite{ID: enriched.ID, Fields: make(map[string]any)}}

	if opts.ForceFullFlush {
		plan.Bundle.Full = enriched.Clone()
		if !opts.SkipLexicon {
			plan.Lexicon = lexiconWrites(allSenseIndexes(enriched), enriched)
		}
		return plan
	}
	if mask == nil {
		return plan
	}

	diffRefs(&plan, mask, enriched)
	diffTokens(&plan, mask, enriched)
	senseTokens := diffSenses(&plan, mask, enriched)
	diffAuxiliary(&plan, mask, enriched)

	if !opts.SkipLexicon {
		plan.Lexicon = lexiconWrites(senseTokens, enriched)
	}
	return plan
}

func put(plan *Plan, e registry.Entry, b *bundle.Bundle, sc integrity.Scope, value any) {
	if !integrity.Satisfied(e, b, sc) {
		return
	}
	plan.Bundle.Fields[registry.Concrete(e.Field, sc.Token, sc.Sense)] = value
}

func diffRefs(plan *Plan, mask *workmap.Mask, b *bundle.Bundle) {
	for _, side := range bundle.Sides() {
		if !mask.Refs(side) {
			continue
		}
		field := registry.FieldSourceRefs
		if side == bundle.Target {
			field = registry.FieldTargetRefs
		}
		e, _ := registry.Lookup(field)
		put(plan, e, b, integrity.TopLevel(side), b.Refs(side))
	}
}

func diffTokens(plan *Plan, mask *workmap.Mask, b *bundle.Bundle) {
	type fieldBit struct {
		field registry.Field
		bit   func(workmap.TokenMask) bool
	}

	for _, side := range bundle.Sides() {
		displayBits := []fieldBit{
			{registry.FieldSourceDisplaySurface, func(t workmap.TokenMask) bool { return t.Surface }},
			{registry.FieldSourcePhonetic, func(t workmap.TokenMask) bool { return t.Phonetic }},
			{registry.FieldSourceRomanization, func(t workmap.TokenMask) bool { return t.Romanization }},
		}
		senseSurface := registry.FieldSourceSenseSurface
		if side == bundle.Target {
			displayBits = []fieldBit{
				{registry.FieldTargetDisplaySurface, func(t workmap.TokenMask) bool { return t.Surface }},
			}
			senseSurface = registry.FieldTargetSenseSurface
		}

		display := b.Display(side)
		for i, tm := range mask.Display(side) {
			if !tm.Any() || i >= len(display) {
				continue
			}
			sc := integrity.TokenScope(side, i)
			tok := display[i]
			for _, fb := range displayBits {
				if !fb.bit(tm) {
					continue
				}
				e, _ := registry.Lookup(fb.field)
				put(plan, e, b, sc, tokenValue(tok, fb.field))
			}
		}

		senseToks := b.SenseTokens(side)
		e, _ := registry.Lookup(senseSurface)
		for i, tm := range mask.SenseTokens(side) {
			if !tm.Surface || i >= len(senseToks) {
				continue
			}
			put(plan, e, b, integrity.TokenScope(side, i), senseToks[i].Surface)
		}
	}
}

func tokenValue(tok bundle.DisplayToken, f registry.Field) any {
	switch f {
	case registry.FieldSourcePhonetic:
		return tok.Phonetic
	case registry.FieldSourceRomanization:
		return tok.Romanization
	default:
		return tok.Surface
	}
}

// diffSenses emits sense-layer writes and returns the token indexes whose
// collections carried pending work, for lexicon write-back.
func diffSenses(plan *Plan, mask *workmap.Mask, b *bundle.Bundle) []int {
	var touched []int
	senseToks := b.Tokens.SourceSense
	sensesEntry, _ := registry.Lookup(registry.FieldSenses)

	for i, sm := range mask.Senses {
		if !sm.Any() || i >= len(senseToks) {
			continue
		}
		touched = append(touched, i)
		senses := senseToks[i].Senses

		if sm.State == workmap.SenseNotYetCreated {
			// The whole collection is new; write it as one value.
			sc := integrity.TokenScope(bundle.Source, i)
			put(plan, sensesEntry, b, sc, senses)
			continue
		}

		for j, fm := range sm.Senses {
			if !fm.Any() || j >= len(senses) {
				continue
			}
			sc := integrity.SenseScope(bundle.Source, i, j)
			for _, sf := range senseFieldBits(fm) {
				e, _ := registry.Lookup(sf.field)
				put(plan, e, b, sc, senseValue(senses[j], sf.field))
			}
		}
	}
	return touched
}

type senseFieldBit struct {
	field registry.Field
}

func senseFieldBits(fm workmap.SenseFieldMask) []senseFieldBit {
	var out []senseFieldBit
	if fm.POS {
		out = append(out, senseFieldBit{registry.FieldSensePOS})
	}
	if fm.Gloss {
		out = append(out, senseFieldBit{registry.FieldSenseGloss})
	}
	if fm.SourceTag {
		out = append(out, senseFieldBit{registry.FieldSenseSourceTag})
	}
	if fm.BilingualPOS {
		out = append(out, senseFieldBit{registry.FieldSenseBilingualPOS})
	}
	if fm.Meaning {
		out = append(out, senseFieldBit{registry.FieldSenseMeaning})
	}
	if fm.Clarification {
		out = append(out, senseFieldBit{registry.FieldSenseClarification})
	}
	if fm.Confidence {
		out = append(out, senseFieldBit{registry.FieldSenseConfidence})
	}
	return out
}

func senseValue(s bundle.Sense, f registry.Field) any {
	switch f {
	case registry.FieldSensePOS:
		return s.PartOfSpeech
	case registry.FieldSenseGloss:
		return s.Gloss
	case registry.FieldSenseSourceTag:
		return s.SourceTag
	case registry.FieldSenseBilingualPOS:
		return s.BilingualPOS
	case registry.FieldSenseMeaning:
		return s.Meaning
	case registry.FieldSenseClarification:
		return s.Clarification
	case registry.FieldSenseConfidence:
		return s.Confidence
	default:
		return nil
	}
}

func diffAuxiliary(plan *Plan, mask *workmap.Mask, b *bundle.Bundle) {
	sc := integrity.TopLevel(bundle.Source)
	if mask.Matches {
		e, _ := registry.Lookup(registry.FieldMatches)
		put(plan, e, b, sc, b.Matches)
	}
	if mask.CrossRefs {
		e, _ := registry.Lookup(registry.FieldCrossRefs)
		put(plan, e, b, sc, b.CrossRefs)
	}
}

func allSenseIndexes(b *bundle.Bundle) []int {
	out := make([]int, 0, len(b.Tokens.SourceSense))
	for i := range b.Tokens.SourceSense {
		out = append(out, i)
	}
	return out
}

// lexiconWrites fans dictionary results back out to the lexicon: each touched
// token with a non-empty sense collection upserts its word's record. Repeated
// words across token positions collapse into one write with merged senses.
func lexiconWrites(tokenIndexes []int, b *bundle.Bundle) []LexiconWrite {
	var writes []LexiconWrite
	at := make(map[string]int)

	for _, i := range tokenIndexes {
		if i >= len(b.Tokens.SourceSense) {
			continue
		}
		tok := b.Tokens.SourceSense[i]
		word := lexicon.Normalize(tok.Surface)
		if word == "" || len(tok.Senses) == 0 {
			continue
		}

		entry := lexicon.Entry{Word: word}
		if i < len(b.Tokens.SourceDisplay) {
			entry.Phonetic = b.Tokens.SourceDisplay[i].Phonetic
			entry.Romanization = b.Tokens.SourceDisplay[i].Romanization
		}
		for _, s := range tok.Senses {
			entry.Senses = append(entry.Senses, lexicon.SenseEntry{
				POS:   s.PartOfSpeech,
				Gloss: s.Gloss,
				Tag:   s.SourceTag,
			})
		}

		if pos, ok := at[word]; ok {
			writes[pos].Entry = mergeEntries(writes[pos].Entry, entry)
			continue
		}
		at[word] = len(writes)
		writes = append(writes, LexiconWrite{Word: word, Entry: entry})
	}
	return writes
}

func mergeEntries(into, from lexicon.Entry) lexicon.Entry {
	if into.Phonetic == "" {
		into.Phonetic = from.Phonetic
	}
	if into.Romanization == "" {
		into.Romanization = from.Romanization
	}
	seen := make(map[string]bool, len(into.Senses))
	for _, s := range into.Senses {
		seen[s.POS+"\x00"+s.Gloss] = true
	}
	for _, s := range from.Senses {
		if key := s.POS + "\x00" + s.Gloss; !seen[key] {
			seen[key] = true
			into.Senses = append(into.Senses, s)
		}
	}
	return into
}
