package bundle

import (
	"strings"
	"time"
)

// State represents the enrichment lifecycle of a bundle.
type State string

const (
	StatePending   State = "pending"
	StateEnriching State = "enriching"
	StateComplete  State = "complete"
)

var allStates = []State{
	StatePending,
	StateEnriching,
	StateComplete,
}

var stateSet = func() map[State]struct{} {
	set := make(map[State]struct{}, len(allStates))
	for _, state := range allStates {
		set[state] = struct{}{}
	}
	return set
}()

// AllStates returns the ordered list of known lifecycle states.
func AllStates() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stateSet[normalized]
	return normalized, ok
}

// Timing bounds one language side of a subtitle cue in milliseconds.
type Timing struct {
	StartMs int64 `json:"startMs"`
	EndMs   int64 `json:"endMs"`
}

// DisplayToken is an ordered element of a display token collection.
// Index must equal the token's array position.
type DisplayToken struct {
	Index        int    `json:"index"`
	Surface      string `json:"surface"`
	Phonetic     string `json:"phonetic,omitempty"`
	Romanization string `json:"romanization,omitempty"`
}

// SenseToken carries the sense collection for one token position. It is kept
// side by side with the display token rather than merged into it so the raw
// dictionary layer and the display layer can evolve independently.
//
// Senses == nil means dictionary lookup has never been attempted for this
// token. An empty non-nil slice means lookup ran and found nothing.
type SenseToken struct {
	Index   int     `json:"index"`
	Surface string  `json:"surface"`
	Senses  []Sense `json:"senses"`
}

// Sense is one candidate lexical meaning for a token. The raw layer is
// dictionary-sourced; the normalized layer is added later. Once normalized,
// the raw layer is relocated into OriginalData, never erased.
type Sense struct {
	// Raw layer.
	PartOfSpeech string         `json:"pos,omitempty"`
	Gloss        string         `json:"gloss,omitempty"`
	SourceTag    string         `json:"sourceTag,omitempty"`
	OriginalData map[string]any `json:"originalData,omitempty"`

	// Normalized layer.
	BilingualPOS  string  `json:"bilingualPos,omitempty"`
	Meaning       string  `json:"meaning,omitempty"`
	Clarification string  `json:"clarification,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

// Normalized reports whether the normalized layer has been populated.
func (s Sense) Normalized() bool {
	return strings.TrimSpace(s.Meaning) != "" && strings.TrimSpace(s.BilingualPOS) != ""
}

// MatchPair links a source token to a target token across languages.
type MatchPair struct {
	SourceIndex int     `json:"sourceIndex"`
	TargetIndex int     `json:"targetIndex"`
	Score       float64 `json:"score"`
}

// CrossRef is one cross-reference index entry for a distinct word.
type CrossRef struct {
	Word    string `json:"word"`
	Indexes []int  `json:"indexes"`
}

// Tokens groups the four parallel token arrays. Each array is index-aligned
// with its language side's reference-id list.
type Tokens struct {
	SourceDisplay []DisplayToken `json:"sourceDisplay"`
	SourceSense   []SenseToken   `json:"sourceSense"`
	TargetDisplay []DisplayToken `json:"targetDisplay"`
	TargetSense   []SenseToken   `json:"targetSense"`
}

// Bundle is the full enriched document for one subtitle unit.
type Bundle struct {
	ID           string      `json:"id"`
	SourceTiming Timing      `json:"sourceTiming"`
	TargetTiming Timing      `json:"targetTiming"`
	SourceText   string      `json:"sourceText"`
	TargetText   string      `json:"targetText"`
	SourceRefs   []string    `json:"sourceRefs"`
	TargetRefs   []string    `json:"targetRefs"`
	Tokens       Tokens      `json:"tokens"`
	Matches      []MatchPair `json:"matches"`
	CrossRefs    []CrossRef  `json:"crossRefs"`

	State     State     `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// HasOrigin reports whether the raw text fields a pass can start from exist.
func (b *Bundle) HasOrigin() bool {
	return strings.TrimSpace(b.SourceText) != "" || strings.TrimSpace(b.TargetText) != ""
}

// Segmented reports whether a language side has its reference-id list.
// Segmentation writes a non-nil list even when it produces zero tokens.
func (b *Bundle) Segmented(side Side) bool {
	return b.Refs(side) != nil
}

// Refs returns the reference-id list for a language side.
func (b *Bundle) Refs(side Side) []string {
	if side == Target {
		return b.TargetRefs
	}
	return b.SourceRefs
}

// Text returns the raw text for a language side.
func (b *Bundle) Text(side Side) string {
	if side == Target {
		return b.TargetText
	}
	return b.SourceText
}

// Display returns the display token array for a language side.
func (b *Bundle) Display(side Side) []DisplayToken {
	if side == Target {
		return b.Tokens.TargetDisplay
	}
	return b.Tokens.SourceDisplay
}

// SenseTokens returns the sense token array for a language side.
func (b *Bundle) SenseTokens(side Side) []SenseToken {
	if side == Target {
		return b.Tokens.TargetSense
	}
	return b.Tokens.SourceSense
}

// Side selects one language side of the bundle.
type Side string

const (
	Source Side = "source"
	Target Side = "target"
)

// Sides returns both language sides in canonical order.
func Sides() []Side {
	return []Side{Source, Target}
}
