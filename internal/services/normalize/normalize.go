// Package normalize implements the normalization capability: it lifts raw
// dictionary senses into the bilingual presentation layer while relocating
// the raw fields into the sense's provenance snapshot.
package normalize

import (
	"context"
	"strings"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/services"
)

// Service normalizes raw dictionary senses.
type Service struct{}

// New creates the normalization backend.
func New() *Service {
	return &Service{}
}

// ID implements capability.Invoker.
func (s *Service) ID() capability.ID {
	return capability.Normalization
}

// Invoke implements capability.Invoker.
func (s *Service) Invoke(ctx context.Context, req capability.Request) (capability.Response, error) {
	if err := ctx.Err(); err != nil {
		return capability.Response{}, err
	}

	var resp capability.Response
	for _, in := range req.Senses {
		if strings.TrimSpace(in.Sense.Gloss) == "" {
			return capability.Response{}, services.Wrap(services.ErrValidation, s.ID().String(), "invoke", "sense has no gloss to normalize", nil)
		}
		resp.Normalized = append(resp.Normalized, capability.NormalizedOutput{
			TokenIndex: in.TokenIndex,
			SenseIndex: in.SenseIndex,
			Sense:      Normalize(in.Sense, in.SenseIndex),
		})
	}

	return resp, nil
}

// bilingualPOS maps raw part-of-speech tags to the bilingual labels the
// presentation layer renders.
var bilingualPOS = map[string]string{
	"n":      "noun / คำนาม",
	"noun":   "noun / คำนาม",
	"v":      "verb / คำกริยา",
	"verb":   "verb / คำกริยา",
	"adj":    "adjective / คำคุณศัพท์",
	"adv":    "adverb / คำวิเศษณ์",
	"pron":   "pronoun / คำสรรพนาม",
	"prep":   "preposition / คำบุพบท",
	"conj":   "conjunction / คำสันธาน",
	"part":   "particle / คำอนุภาค",
	"interj": "interjection / คำอุทาน",
	"clf":    "classifier / คำลักษณนาม",
	"num":    "numeral / คำบอกจำนวน",
}

// Normalize produces the normalized layer for one raw sense. The raw fields
// are preserved: an existing provenance snapshot is kept as is, and a missing
// one is created from the raw layer before normalization touches it.
func Normalize(raw bundle.Sense, senseIndex int) bundle.Sense {
	out := raw
	if out.OriginalData == nil {
		out.OriginalData = map[string]any{
			"pos":   raw.PartOfSpeech,
			"gloss": raw.Gloss,
			"tag":   raw.SourceTag,
		}
	}

	out.BilingualPOS = bilingualPOSFor(raw.PartOfSpeech)
	out.Meaning = primaryClause(raw.Gloss)
	out.Clarification = strings.TrimSpace(raw.Gloss)
	out.Confidence = confidenceFor(senseIndex)
	return out
}

func bilingualPOSFor(pos string) string {
	key := strings.ToLower(strings.TrimSpace(pos))
	if label, ok := bilingualPOS[key]; ok {
		return label
	}
	if key == "" {
		return "unclassified / ไม่ระบุ"
	}
	return key + " / ไม่ระบุ"
}

// primaryClause extracts the leading clause of a gloss, cutting at the first
// semicolon, comma, or parenthetical. A gloss that is nothing but a
// parenthetical falls back to its full text so the meaning is never empty.
func primaryClause(gloss string) string {
	full := strings.TrimSpace(gloss)
	clause := full
	for _, sep := range []string{";", ",", "("} {
		if i := strings.Index(clause, sep); i >= 0 {
			clause = clause[:i]
		}
	}
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return full
	}
	return clause
}

// confidenceFor ranks senses by their dictionary order: earlier senses are
// more likely meanings. The floor keeps late senses from reading as noise.
func confidenceFor(senseIndex int) float64 {
	c := 0.9 - 0.15*float64(senseIndex)
	if c < 0.5 {
		return 0.5
	}
	return c
}
