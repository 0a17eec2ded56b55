// Package xref implements the indexing capability: it builds the
// cross-reference index mapping each distinct source word to the token
// positions where it occurs.
package xref

import (
	"context"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
)

// Service builds cross-reference indexes over source reference lists.
type Service struct{}

// New creates the indexing backend.
func New() *Service {
	return &Service{}
}

// ID implements capability.Invoker.
func (s *Service) ID() capability.ID {
	return capability.Indexing
}

// Invoke implements capability.Invoker.
func (s *Service) Invoke(ctx context.Context, req capability.Request) (capability.Response, error) {
	if err := ctx.Err(); err != nil {
		return capability.Response{}, err
	}
	return capability.Response{CrossRefs: Build(req.Source.Refs)}, nil
}

// Build maps each distinct word to its occurrence positions, ordered by
// first occurrence. The result is non-nil even for an empty reference list.
func Build(refs []string) []bundle.CrossRef {
	crossRefs := []bundle.CrossRef{}
	position := make(map[string]int, len(refs))

	for i, ref := range refs {
		word := bundle.RefWord(ref)
		if word == "" {
			continue
		}
		if at, ok := position[word]; ok {
			crossRefs[at].Indexes = append(crossRefs[at].Indexes, i)
			continue
		}
		position[word] = len(crossRefs)
		crossRefs = append(crossRefs, bundle.CrossRef{Word: word, Indexes: []int{i}})
	}

	return crossRefs
}
