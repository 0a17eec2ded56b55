package capability

import "lexweave/internal/bundle"

// TokenInput describes one token position a capability should work on,
// carrying only the dependency fields the registry declares.
type TokenInput struct {
	Index   int
	Surface string
	Glosses []string
}

// SenseInput carries one raw sense scheduled for normalization.
type SenseInput struct {
	TokenIndex int
	SenseIndex int
	Sense      bundle.Sense
}

// SideRequest is the per-language-side portion of a request.
type SideRequest struct {
	Text     string
	Refs     []string
	NeedRefs bool
	Tokens   []TokenInput
}

// Request is the minimal input slice for one capability invocation. Fields a
// capability is not registered to depend on are left zero.
type Request struct {
	BundleID string
	Source   SideRequest
	Target   SideRequest
	Senses   []SenseInput
}

// TokenOutput is one per-token result. Only the fields the capability owns
// are meaningful; the engine merges nothing else.
type TokenOutput struct {
	Index        int
	Surface      string
	Phonetic     string
	Romanization string
}

// SenseOutput is a raw sense collection produced for one token position.
// A lookup that ran but found nothing returns an empty non-nil slice.
type SenseOutput struct {
	TokenIndex int
	Senses     []bundle.Sense
}

// NormalizedOutput is one normalized sense, index-addressed so the engine
// can merge it back to exactly the sense it was requested for.
type NormalizedOutput struct {
	TokenIndex int
	SenseIndex int
	Sense      bundle.Sense
}

// SideResponse is the per-language-side portion of a response. Refs stays
// nil unless segmentation produced a list; an empty produced list is non-nil.
type SideResponse struct {
	Refs   []string
	Tokens []TokenOutput
	Senses []SenseOutput
}

// Response carries everything a capability produced for one invocation.
// List-valued results follow the nil/empty convention: nil means "not
// produced", empty non-nil means "produced, nothing found".
type Response struct {
	Source     SideResponse
	Target     SideResponse
	Normalized []NormalizedOutput
	Matches    []bundle.MatchPair
	CrossRefs  []bundle.CrossRef
}
