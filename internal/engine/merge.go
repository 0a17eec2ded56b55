package engine

import (
	"fmt"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/services"
	"lexweave/internal/workmap"
)

// mergeResponse validates a capability's output and applies it to the
// in-memory bundle. Writes are guarded by the pre-pass mask, so a capability
// can never overwrite data that was already valid. A validation failure
// applies nothing.
func mergeResponse(b *bundle.Bundle, m *workmap.Mask, id capability.ID, resp capability.Response) error {
	switch id {
	case capability.Segmentation:
		return mergeSegmentation(b, m, resp)
	case capability.Transliteration:
		return mergeTransliteration(b, m, resp)
	case capability.Dictionary:
		return mergeDictionary(b, m, resp)
	case capability.Normalization:
		return mergeNormalization(b, m, resp)
	case capability.Matching:
		return mergeMatching(b, m, resp)
	case capability.Indexing:
		return mergeIndexing(b, m, resp)
	default:
		return services.Wrap(services.ErrCapability, id.String(), "merge", "unknown capability", nil)
	}
}

func validationErr(id capability.ID, format string, args ...any) error {
	return services.Wrap(services.ErrValidation, id.String(), "merge", fmt.Sprintf(format, args...), nil)
}

func mergeSegmentation(b *bundle.Bundle, m *workmap.Mask, resp capability.Response) error {
	id := capability.Segmentation

	if m.SourceRefs && resp.Source.Refs == nil {
		return validationErr(id, "source refs requested but not produced")
	}
	if m.TargetRefs && resp.Target.Refs == nil {
		return validationErr(id, "target refs requested but not produced")
	}
	for _, side := range bundle.Sides() {
		sr := sideResponse(resp, side)
		refs := b.Refs(side)
		if sr.Refs != nil {
			refs = sr.Refs
		}
		for _, tok := range sr.Tokens {
			if tok.Index < 0 || tok.Index >= len(refs) {
				return validationErr(id, "%s token index %d out of range (%d refs)", side, tok.Index, len(refs))
			}
			if tok.Surface == "" {
				return validationErr(id, "%s token %d has empty surface", side, tok.Index)
			}
		}
	}

	if m.SourceRefs && resp.Source.Refs != nil {
		b.SourceRefs = resp.Source.Refs
	}
	if m.TargetRefs && resp.Target.Refs != nil {
		b.TargetRefs = resp.Target.Refs
	}

	for _, side := range bundle.Sides() {
		displayMask := m.Display(side)
		senseMask := m.SenseTokens(side)
		for _, tok := range sideResponse(resp, side).Tokens {
			i := tok.Index
			if i < len(displayMask) && displayMask[i].Surface {
				growDisplay(b, side, i+1)
				display(b, side)[i].Surface = tok.Surface
			}
			if i < len(senseMask) && senseMask[i].Surface {
				growSenseTokens(b, side, i+1)
				senseTokens(b, side)[i].Surface = tok.Surface
			}
		}
	}
	return nil
}

func mergeTransliteration(b *bundle.Bundle, m *workmap.Mask, resp capability.Response) error {
	id := capability.Transliteration
	display := b.Tokens.SourceDisplay

	for _, tok := range resp.Source.Tokens {
		if tok.Index < 0 || tok.Index >= len(display) || tok.Index >= len(m.SourceDisplay) {
			return validationErr(id, "token index %d out of range (%d tokens)", tok.Index, len(display))
		}
	}
	for _, tok := range resp.Source.Tokens {
		tm := m.SourceDisplay[tok.Index]
		if tm.Phonetic && tok.Phonetic != "" {
			display[tok.Index].Phonetic = tok.Phonetic
		}
		if tm.Romanization && tok.Romanization != "" {
			display[tok.Index].Romanization = tok.Romanization
		}
	}
	return nil
}

func mergeDictionary(b *bundle.Bundle, m *workmap.Mask, resp capability.Response) error {
	id := capability.Dictionary
	toks := b.Tokens.SourceSense

	for _, out := range resp.Source.Senses {
		if out.TokenIndex < 0 || out.TokenIndex >= len(toks) || out.TokenIndex >= len(m.Senses) {
			return validationErr(id, "token index %d out of range (%d tokens)", out.TokenIndex, len(toks))
		}
		if out.Senses == nil {
			return validationErr(id, "token %d: sense collection is nil, want attempted-empty", out.TokenIndex)
		}
	}

	for _, out := range resp.Source.Senses {
		tok := &toks[out.TokenIndex]
		if tok.Senses == nil {
			tok.Senses = out.Senses
			continue
		}
		// Existing collection: fill only the raw gaps the mask flagged.
		sm := m.Senses[out.TokenIndex]
		if sm.State != workmap.SensePerSense {
			continue
		}
		for j, fm := range sm.Senses {
			if !fm.RawAny() || j >= len(tok.Senses) || j >= len(out.Senses) {
				continue
			}
			fresh := out.Senses[j]
			s := &tok.Senses[j]
			if fm.POS && s.PartOfSpeech == "" {
				s.PartOfSpeech = fresh.PartOfSpeech
			}
			if fm.Gloss && s.Gloss == "" {
				s.Gloss = fresh.Gloss
			}
			if fm.SourceTag && s.SourceTag == "" {
				s.SourceTag = fresh.SourceTag
			}
			if s.OriginalData == nil {
				s.OriginalData = fresh.OriginalData
			}
		}
	}
	return nil
}

func mergeNormalization(b *bundle.Bundle, m *workmap.Mask, resp capability.Response) error {
	id := capability.Normalization
	toks := b.Tokens.SourceSense

	for _, out := range resp.Normalized {
		if out.TokenIndex < 0 || out.TokenIndex >= len(toks) {
			return validationErr(id, "token index %d out of range (%d tokens)", out.TokenIndex, len(toks))
		}
		if out.SenseIndex < 0 || out.SenseIndex >= len(toks[out.TokenIndex].Senses) {
			return validationErr(id, "sense index %d out of range for token %d", out.SenseIndex, out.TokenIndex)
		}
	}

	for _, out := range resp.Normalized {
		s := &toks[out.TokenIndex].Senses[out.SenseIndex]
		s.BilingualPOS = out.Sense.BilingualPOS
		s.Meaning = out.Sense.Meaning
		s.Clarification = out.Sense.Clarification
		s.Confidence = out.Sense.Confidence
		// The raw layer stays as it was; only an absent provenance snapshot
		// is adopted from the output.
		if s.OriginalData == nil {
			s.OriginalData = out.Sense.OriginalData
		}
	}
	return nil
}

func mergeMatching(b *bundle.Bundle, m *workmap.Mask, resp capability.Response) error {
	id := capability.Matching
	if !m.Matches {
		return nil
	}
	if resp.Matches == nil {
		return validationErr(id, "matches requested but not produced")
	}
	for _, pair := range resp.Matches {
		if pair.SourceIndex < 0 || pair.SourceIndex >= len(b.Tokens.SourceSense) {
			return validationErr(id, "source index %d out of range", pair.SourceIndex)
		}
		if pair.TargetIndex < 0 || pair.TargetIndex >= len(b.Tokens.TargetDisplay) {
			return validationErr(id, "target index %d out of range", pair.TargetIndex)
		}
	}
	b.Matches = resp.Matches
	return nil
}

func mergeIndexing(b *bundle.Bundle, m *workmap.Mask, resp capability.Response) error {
	id := capability.Indexing
	if !m.CrossRefs {
		return nil
	}
	if resp.CrossRefs == nil {
		return validationErr(id, "cross references requested but not produced")
	}
	for _, cr := range resp.CrossRefs {
		for _, idx := range cr.Indexes {
			if idx < 0 || idx >= len(b.SourceRefs) {
				return validationErr(id, "word %q references position %d out of range", cr.Word, idx)
			}
		}
	}
	b.CrossRefs = resp.CrossRefs
	return nil
}

func sideResponse(resp capability.Response, side bundle.Side) capability.SideResponse {
	if side == bundle.Target {
		return resp.Target
	}
	return resp.Source
}

func display(b *bundle.Bundle, side bundle.Side) []bundle.DisplayToken {
	if side == bundle.Target {
		return b.Tokens.TargetDisplay
	}
	return b.Tokens.SourceDisplay
}

func senseTokens(b *bundle.Bundle, side bundle.Side) []bundle.SenseToken {
	if side == bundle.Target {
		return b.Tokens.TargetSense
	}
	return b.Tokens.SourceSense
}

// growDisplay extends a display token array to n elements, stamping each new
// element with its position so index alignment holds from birth.
func growDisplay(b *bundle.Bundle, side bundle.Side, n int) {
	arr := display(b, side)
	for len(arr) < n {
		arr = append(arr, bundle.DisplayToken{Index: len(arr)})
	}
	if side == bundle.Target {
		b.Tokens.TargetDisplay = arr
	} else {
		b.Tokens.SourceDisplay = arr
	}
}

func growSenseTokens(b *bundle.Bundle, side bundle.Side, n int) {
	arr := senseTokens(b, side)
	for len(arr) < n {
		arr = append(arr, bundle.SenseToken{Index: len(arr)})
	}
	if side == bundle.Target {
		b.Tokens.TargetSense = arr
	} else {
		b.Tokens.SourceSense = arr
	}
}
