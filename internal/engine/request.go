package engine

import (
	"strings"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/workmap"
)

// buildRequest assembles the minimal input slice for one capability from the
// current bundle state and the pre-pass mask. Token positions whose
// prerequisite data has not materialized yet (an earlier capability failed
// this pass) are silently left out; their mask bits carry them to the next
// pass.
func buildRequest(id capability.ID, b *bundle.Bundle, m *workmap.Mask) capability.Request {
	req := capability.Request{BundleID: b.ID}

	switch id {
	case capability.Segmentation:
		buildSegmentationRequest(&req, b, m)
	case capability.Transliteration:
		buildTransliterationRequest(&req, b, m)
	case capability.Dictionary:
		buildDictionaryRequest(&req, b, m)
	case capability.Normalization:
		buildNormalizationRequest(&req, b, m)
	case capability.Matching:
		buildMatchingRequest(&req, b, m)
	case capability.Indexing:
		if m.CrossRefs {
			req.Source.Refs = b.SourceRefs
		}
	}

	return req
}

// emptyRequest reports whether a request asks for nothing, so the
// orchestrator can skip the invocation entirely.
func emptyRequest(id capability.ID, req capability.Request) bool {
	switch id {
	case capability.Segmentation:
		return !req.Source.NeedRefs && !req.Target.NeedRefs &&
			len(req.Source.Tokens) == 0 && len(req.Target.Tokens) == 0
	case capability.Normalization:
		return len(req.Senses) == 0
	case capability.Matching:
		// Matching always runs when pending: with no token pairs to score it
		// still records an empty, attempted result.
		return false
	case capability.Indexing:
		return req.Source.Refs == nil
	default:
		return len(req.Source.Tokens) == 0 && len(req.Target.Tokens) == 0
	}
}

func buildSegmentationRequest(req *capability.Request, b *bundle.Bundle, m *workmap.Mask) {
	req.Source.Text = b.SourceText
	req.Source.Refs = b.SourceRefs
	req.Source.NeedRefs = m.SourceRefs
	req.Target.Text = b.TargetText
	req.Target.Refs = b.TargetRefs
	req.Target.NeedRefs = m.TargetRefs

	for _, side := range bundle.Sides() {
		display := m.Display(side)
		senseToks := m.SenseTokens(side)
		count := len(display)
		if len(senseToks) > count {
			count = len(senseToks)
		}
		var tokens []capability.TokenInput
		for i := 0; i < count; i++ {
			needed := false
			if i < len(display) && display[i].Surface {
				needed = true
			}
			if i < len(senseToks) && senseToks[i].Surface {
				needed = true
			}
			if needed {
				tokens = append(tokens, capability.TokenInput{Index: i})
			}
		}
		if side == bundle.Target {
			req.Target.Tokens = tokens
		} else {
			req.Source.Tokens = tokens
		}
	}
}

func buildTransliterationRequest(req *capability.Request, b *bundle.Bundle, m *workmap.Mask) {
	display := b.Tokens.SourceDisplay
	for i, tm := range m.SourceDisplay {
		if !tm.Phonetic && !tm.Romanization {
			continue
		}
		if i >= len(display) || strings.TrimSpace(display[i].Surface) == "" {
			continue
		}
		req.Source.Tokens = append(req.Source.Tokens, capability.TokenInput{
			Index:   i,
			Surface: display[i].Surface,
		})
	}
}

func buildDictionaryRequest(req *capability.Request, b *bundle.Bundle, m *workmap.Mask) {
	senseToks := b.Tokens.SourceSense
	for i, sm := range m.Senses {
		if !needsRawSenses(sm) {
			continue
		}
		if i >= len(senseToks) || strings.TrimSpace(senseToks[i].Surface) == "" {
			continue
		}
		req.Source.Tokens = append(req.Source.Tokens, capability.TokenInput{
			Index:   i,
			Surface: senseToks[i].Surface,
		})
	}
}

func needsRawSenses(sm workmap.SenseMask) bool {
	if sm.State == workmap.SenseNotYetCreated {
		return sm.Any()
	}
	for _, fm := range sm.Senses {
		if fm.RawAny() {
			return true
		}
	}
	return false
}

func buildNormalizationRequest(req *capability.Request, b *bundle.Bundle, m *workmap.Mask) {
	senseToks := b.Tokens.SourceSense
	for i, sm := range m.Senses {
		if i >= len(senseToks) {
			continue
		}
		senses := senseToks[i].Senses

		switch sm.State {
		case workmap.SenseNotYetCreated:
			// The collection was created earlier this pass; normalize all of
			// it when the placeholder carried normalized-layer bits.
			if len(sm.Senses) == 0 || !sm.Senses[0].NormalizedAny() {
				continue
			}
			for j, s := range senses {
				if strings.TrimSpace(s.Gloss) == "" {
					continue
				}
				req.Senses = append(req.Senses, capability.SenseInput{TokenIndex: i, SenseIndex: j, Sense: s})
			}
		case workmap.SensePerSense:
			for j, fm := range sm.Senses {
				if !fm.NormalizedAny() || j >= len(senses) {
					continue
				}
				if strings.TrimSpace(senses[j].Gloss) == "" {
					continue
				}
				req.Senses = append(req.Senses, capability.SenseInput{TokenIndex: i, SenseIndex: j, Sense: senses[j]})
			}
		}
	}
}

func buildMatchingRequest(req *capability.Request, b *bundle.Bundle, m *workmap.Mask) {
	if !m.Matches {
		return
	}
	for _, tok := range b.Tokens.SourceSense {
		if len(tok.Senses) == 0 {
			continue
		}
		glosses := make([]string, 0, len(tok.Senses))
		for _, s := range tok.Senses {
			if g := strings.TrimSpace(s.Gloss); g != "" {
				glosses = append(glosses, g)
			}
		}
		if len(glosses) == 0 {
			continue
		}
		req.Source.Tokens = append(req.Source.Tokens, capability.TokenInput{
			Index:   tok.Index,
			Surface: tok.Surface,
			Glosses: glosses,
		})
	}
	for _, tok := range b.Tokens.TargetDisplay {
		if strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		req.Target.Tokens = append(req.Target.Tokens, capability.TokenInput{
			Index:   tok.Index,
			Surface: tok.Surface,
		})
	}
}
