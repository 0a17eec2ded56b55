package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New creates an empty bundle holding only identity and raw text.
func New(sourceText, targetText string) *Bundle {
	now := time.Now().UTC()
	return &Bundle{
		ID:         uuid.NewString(),
		SourceText: sourceText,
		TargetText: targetText,
		State:      StatePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Encode serializes the wire-level document.
func Encode(b *Bundle) ([]byte, error) {
	if b == nil {
		return nil, errors.New("bundle is nil")
	}
	return json.Marshal(b)
}

// Decode parses a wire-level document and verifies its structural invariants.
func Decode(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle document: %w", err)
	}
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}
	if err := b.CheckIndexes(); err != nil {
		return nil, err
	}
	return &b, nil
}

// CheckIndexes verifies that every token's Index matches its array position.
// Misaligned documents are rejected rather than silently repaired.
func (b *Bundle) CheckIndexes() error {
	for _, side := range Sides() {
		for i, tok := range b.Display(side) {
			if tok.Index != i {
				return fmt.Errorf("%s display token %d carries index %d", side, i, tok.Index)
			}
		}
		for i, tok := range b.SenseTokens(side) {
			if tok.Index != i {
				return fmt.Errorf("%s sense token %d carries index %d", side, i, tok.Index)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the bundle. Passes operate on clones so a
// failed pass never leaves a half-mutated document behind.
func (b *Bundle) Clone() *Bundle {
	if b == nil {
		return nil
	}
	cp := *b
	cp.SourceRefs = cloneStrings(b.SourceRefs)
	cp.TargetRefs = cloneStrings(b.TargetRefs)
	cp.Tokens = Tokens{
		SourceDisplay: cloneDisplay(b.Tokens.SourceDisplay),
		SourceSense:   cloneSenseTokens(b.Tokens.SourceSense),
		TargetDisplay: cloneDisplay(b.Tokens.TargetDisplay),
		TargetSense:   cloneSenseTokens(b.Tokens.TargetSense),
	}
	if b.Matches != nil {
		cp.Matches = make([]MatchPair, len(b.Matches))
		copy(cp.Matches, b.Matches)
	}
	if b.CrossRefs != nil {
		cp.CrossRefs = make([]CrossRef, len(b.CrossRefs))
		for i, xr := range b.CrossRefs {
			cp.CrossRefs[i] = CrossRef{Word: xr.Word, Indexes: append([]int(nil), xr.Indexes...)}
		}
	}
	return &cp
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return cp
}

func cloneDisplay(tokens []DisplayToken) []DisplayToken {
	if tokens == nil {
		return nil
	}
	cp := make([]DisplayToken, len(tokens))
	copy(cp, tokens)
	return cp
}

func cloneSenseTokens(tokens []SenseToken) []SenseToken {
	if tokens == nil {
		return nil
	}
	cp := make([]SenseToken, len(tokens))
	for i, tok := range tokens {
		cp[i] = SenseToken{Index: tok.Index, Surface: tok.Surface}
		if tok.Senses != nil {
			cp[i].Senses = make([]Sense, len(tok.Senses))
			for j, sense := range tok.Senses {
				cp[i].Senses[j] = sense.Clone()
			}
		}
	}
	return cp
}

// Clone deep-copies a sense, including its provenance snapshot.
func (s Sense) Clone() Sense {
	cp := s
	if s.OriginalData != nil {
		cp.OriginalData = make(map[string]any, len(s.OriginalData))
		for k, v := range s.OriginalData {
			cp.OriginalData[k] = v
		}
	}
	return cp
}
