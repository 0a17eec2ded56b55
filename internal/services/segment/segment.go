// Package segment implements the segmentation capability: it turns raw
// bundle text into ordered reference-id lists and materializes the
// index-aligned token surfaces behind them.
//
// Source text (unspaced scripts such as Thai) is segmented by longest match
// against the lexicon; runs the lexicon does not know become single
// reference ids of their own so downstream capabilities can still attempt
// them. Target text splits on non-letter boundaries.
package segment

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/lexicon"
	"lexweave/internal/services"
)

// Service segments bundle text against a lexicon index.
type Service struct {
	index *lexicon.Index
}

// New creates the segmentation backend.
func New(index *lexicon.Index) *Service {
	return &Service{index: index}
}

// ID implements capability.Invoker.
func (s *Service) ID() capability.ID {
	return capability.Segmentation
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

	if req.Source.NeedRefs {
		resp.Source.Refs = s.segmentSource(req.Source.Text)
	}
	if req.Target.NeedRefs {
		resp.Target.Refs = segmentTarget(req.Target.Text)
	}

	resp.Source.Tokens = surfacesFor(req.Source, resp.Source.Refs)
	resp.Target.Tokens = surfacesFor(req.Target, resp.Target.Refs)

	return resp, nil
}

// segmentSource walks the text left to right, preferring the longest
// lexicon word at each position. Whitespace never becomes a token; unknown
// runs are kept whole.
func (s *Service) segmentSource(text string) []string {
	refs := []string{}
	runes := []rune(norm.NFC.String(strings.TrimSpace(text)))

	i := 0
	unknownStart := -1
	flushUnknown := func(end int) {
		if unknownStart < 0 {
			return
		}
		word := strings.TrimSpace(string(runes[unknownStart:end]))
		if word != "" {
			refs = append(refs, word)
		}
		unknownStart = -1
	}

	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			flushUnknown(i)
			i++
			continue
		}
		if word, n, ok := s.index.LongestMatch(runes, i); ok {
			flushUnknown(i)
			refs = append(refs, word)
			i += n
			continue
		}
		if unknownStart < 0 {
			unknownStart = i
		}
		i++
	}
	flushUnknown(len(runes))

	return refs
}

// segmentTarget splits on anything that is not a letter, digit, apostrophe,
// or hyphen.
func segmentTarget(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
	refs := make([]string, 0, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			refs = append(refs, trimmed)
		}
	}
	return refs
}

// surfacesFor resolves the requested token positions to their reference
// words. Freshly produced refs take precedence over the ones carried in the
// request so surfaces created in the same invocation stay aligned.
func surfacesFor(side capability.SideRequest, freshRefs []string) []capability.TokenOutput {
	refs := side.Refs
	if freshRefs != nil {
		refs = freshRefs
	}
	var out []capability.TokenOutput
	for _, tok := range side.Tokens {
		if tok.Index < 0 || tok.Index >= len(refs) {
			continue
		}
		out = append(out, capability.TokenOutput{
			Index:   tok.Index,
			Surface: bundle.RefWord(refs[tok.Index]),
		})
	}
	return out
}
