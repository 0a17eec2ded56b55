// Package match implements the matching capability: it aligns source tokens
// with target tokens by comparing dictionary glosses against target surfaces.
package match

import (
	"context"
	"strings"
	"unicode"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
)

// Service aligns source and target tokens.
type Service struct{}

// New creates the matching backend.
func New() *Service {
	return &Service{}
}

// ID implements capability.Invoker.
func (s *Service) ID() capability.ID {
	return capability.Matching
}

// Invoke implements capability.Invoker.
func (s *Service) Invoke(ctx context.Context, req capability.Request) (capability.Response, error) {
	if err := ctx.Err(); err != nil {
		return capability.Response{}, err
	}

	matches := []bundle.MatchPair{}
	claimed := make(map[int]bool, len(req.Target.Tokens))

	for _, src := range req.Source.Tokens {
		bestTarget := -1
		bestScore := 0.0
		for _, tgt := range req.Target.Tokens {
			if claimed[tgt.Index] {
				continue
			}
			score := Score(src.Glosses, tgt.Surface)
			if score > bestScore {
				bestScore = score
				bestTarget = tgt.Index
			}
		}
		if bestTarget >= 0 {
			claimed[bestTarget] = true
			matches = append(matches, bundle.MatchPair{
				SourceIndex: src.Index,
				TargetIndex: bestTarget,
				Score:       bestScore,
			})
		}
	}

	return capability.Response{Matches: matches}, nil
}

// Score rates how well a target surface is covered by a token's glosses.
// An exact gloss-word hit scores 1.0; otherwise the score is the best
// per-gloss fraction of gloss words sharing a stem-like prefix with the
// surface.
func Score(glosses []string, targetSurface string) float64 {
	surface := foldWord(targetSurface)
	if surface == "" {
		return 0
	}

	best := 0.0
	for _, gloss := range glosses {
		words := glossWords(gloss)
		if len(words) == 0 {
			continue
		}
		hits := 0
		for _, w := range words {
			if w == surface {
				return 1.0
			}
			if stemEqual(w, surface) {
				hits++
			}
		}
		if score := float64(hits) / float64(len(words)); score > best {
			best = score
		}
	}
	return best
}

// glossWords splits a gloss into folded content words, dropping short
// function words that would produce spurious matches.
func glossWords(gloss string) []string {
	fields := strings.FieldsFunc(gloss, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := foldWord(f)
		if w == "" || stopWords[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "of": true,
	"or": true, "and": true, "in": true, "on": true, "at": true,
	"be": true, "is": true, "for": true, "with": true, "one's": true,
}

func foldWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// stemEqual treats two words as equivalent when one is a prefix of the other
// and the shared stem is at least four characters. This absorbs simple
// inflection such as eat/eats and rice/rices without a real stemmer.
func stemEqual(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	return len(a) >= 4 && strings.HasPrefix(b, a)
}
