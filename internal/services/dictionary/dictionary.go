// Package dictionary implements the dictionary capability: it resolves a
// sense token's surface to its lexicon senses and attaches them as raw sense
// records.
//
// A word the lexicon does not know still yields an answer: an empty sense
// list marks the lookup as attempted so later passes do not retry it.
package dictionary

import (
	"context"
	"strings"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/lexicon"
	"lexweave/internal/services"
)

// Service resolves token surfaces against a lexicon index.
type Service struct {
	index *lexicon.Index
}

// New creates the dictionary backend.
func New(index *lexicon.Index) *Service {
	return &Service{index: index}
}

// ID implements capability.Invoker.
func (s *Service) ID() capability.ID {
	return capability.Dictionary
}

// Invoke implements capability.Invoker.
func (s *Service) Invoke(ctx context.Context, req capability.Request) (capability.Response, error) {
	if err := ctx.Err(); err != nil {
		return capability.Response{}, err
	}
	if s.index == nil {
		return capability.Response{}, services.Wrap(services.ErrConfiguration, s.ID().String(), "invoke", "lexicon index not configured", nil)
	}

	var resp capability.Response
	for _, tok := range req.Source.Tokens {
		surface := strings.TrimSpace(tok.Surface)
		if surface == "" {
			return capability.Response{}, services.Wrap(services.ErrValidation, s.ID().String(), "invoke", "token surface is empty", nil)
		}
		resp.Source.Senses = append(resp.Source.Senses, capability.SenseOutput{
			TokenIndex: tok.Index,
			Senses:     s.sensesFor(surface),
		})
	}

	return resp, nil
}

// sensesFor looks up the surface and converts every lexicon sense into a raw
// bundle sense with a provenance snapshot. A miss returns an empty non-nil
// slice.
func (s *Service) sensesFor(surface string) []bundle.Sense {
	senses := []bundle.Sense{}
	entry, ok := s.index.Lookup(surface)
	if !ok {
		return senses
	}
	for _, se := range entry.Senses {
		senses = append(senses, bundle.Sense{
			PartOfSpeech: se.POS,
			Gloss:        se.Gloss,
			SourceTag:    se.Tag,
			OriginalData: map[string]any{
				"word":   entry.Word,
				"pos":    se.POS,
				"gloss":  se.Gloss,
				"tag":    se.Tag,
				"source": "lexicon",
			},
		})
	}
	return senses
}
