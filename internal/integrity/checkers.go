package integrity

import (
	"strings"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/registry"
)

// Scope addresses one array element during a check. Token and Sense are -1
// when the field is not scoped that deep.
type Scope struct {
	Side  bundle.Side
	Token int
	Sense int
}

// TopLevel is the scope for scalar fields on a language side.
func TopLevel(side bundle.Side) Scope {
	return Scope{Side: side, Token: -1, Sense: -1}
}

// TokenScope addresses one token position.
func TokenScope(side bundle.Side, token int) Scope {
	return Scope{Side: side, Token: token, Sense: -1}
}

// SenseScope addresses one sense of one token.
func SenseScope(side bundle.Side, token, sense int) Scope {
	return Scope{Side: side, Token: token, Sense: sense}
}

// Result maps field templates to their "needs work" verdict.
type Result map[registry.Field]bool

// Checker is the integrity check for one capability at one scope.
type Checker func(*bundle.Bundle, Scope) Result

// ForCapability returns the checker owning a capability's fields. The
// returned checker evaluates exactly the registered fields that apply at the
// given scope and side.
func ForCapability(id capability.ID) Checker {
	entries := registry.ForCapability(id)
	return func(b *bundle.Bundle, sc Scope) Result {
		result := make(Result)
		for _, e := range entries {
			if !appliesAt(e, sc) {
				continue
			}
			result[e.Field] = !Satisfied(e, b, sc)
		}
		return result
	}
}

func appliesAt(e registry.Entry, sc Scope) bool {
	if e.Side != sc.Side {
		return false
	}
	switch e.Scope {
	case registry.ScopeTopLevel:
		return sc.Token < 0
	case registry.ScopeToken:
		return sc.Token >= 0 && sc.Sense < 0
	case registry.ScopeSense:
		return sc.Token >= 0 && sc.Sense >= 0
	default:
		return false
	}
}

// Satisfied reports whether a field currently holds a value that passes its
// validation policy. Elements beyond the materialized arrays are never
// satisfied.
func Satisfied(e registry.Entry, b *bundle.Bundle, sc Scope) bool {
	if b == nil {
		return false
	}
	switch e.Field {
	case registry.FieldSourceText, registry.FieldTargetText:
		return registry.ValidString(e.Policy, b.Text(e.Side))

	case registry.FieldSourceRefs, registry.FieldTargetRefs:
		refs := b.Refs(e.Side)
		expected := strings.TrimSpace(b.Text(e.Side)) != ""
		return registry.ValidStringSlice(e.Policy, refs, expected)

	case registry.FieldSourceDisplaySurface, registry.FieldTargetDisplaySurface:
		tokens := b.Display(e.Side)
		if sc.Token < 0 || sc.Token >= len(tokens) {
			return false
		}
		return registry.ValidString(e.Policy, tokens[sc.Token].Surface)

	case registry.FieldSourcePhonetic:
		tokens := b.Display(e.Side)
		if sc.Token < 0 || sc.Token >= len(tokens) {
			return false
		}
		return registry.ValidString(e.Policy, tokens[sc.Token].Phonetic)

	case registry.FieldSourceRomanization:
		tokens := b.Display(e.Side)
		if sc.Token < 0 || sc.Token >= len(tokens) {
			return false
		}
		return registry.ValidString(e.Policy, tokens[sc.Token].Romanization)

	case registry.FieldSourceSenseSurface, registry.FieldTargetSenseSurface:
		tokens := b.SenseTokens(e.Side)
		if sc.Token < 0 || sc.Token >= len(tokens) {
			return false
		}
		return registry.ValidString(e.Policy, tokens[sc.Token].Surface)

	case registry.FieldSenses:
		tokens := b.SenseTokens(e.Side)
		if sc.Token < 0 || sc.Token >= len(tokens) {
			return false
		}
		senses := tokens[sc.Token].Senses
		return registry.ValidSliceLen(e.Policy, senses == nil, len(senses), false)

	case registry.FieldSensePOS:
		sense, ok := senseAt(b, e.Side, sc)
		return ok && (e.Optional || registry.ValidString(e.Policy, sense.PartOfSpeech))
	case registry.FieldSenseGloss:
		sense, ok := senseAt(b, e.Side, sc)
		return ok && registry.ValidString(e.Policy, sense.Gloss)
	case registry.FieldSenseSourceTag:
		sense, ok := senseAt(b, e.Side, sc)
		return ok && (e.Optional || registry.ValidString(e.Policy, sense.SourceTag))
	case registry.FieldSenseBilingualPOS:
		sense, ok := senseAt(b, e.Side, sc)
		return ok && registry.ValidString(e.Policy, sense.BilingualPOS)
	case registry.FieldSenseMeaning:
		sense, ok := senseAt(b, e.Side, sc)
		return ok && registry.ValidString(e.Policy, sense.Meaning)
	case registry.FieldSenseClarification:
		sense, ok := senseAt(b, e.Side, sc)
		return ok && registry.ValidString(e.Policy, sense.Clarification)
	case registry.FieldSenseConfidence:
		sense, ok := senseAt(b, e.Side, sc)
		return ok && registry.ValidNumber(e.Policy, sense.Confidence)

	case registry.FieldMatches:
		return b.Matches != nil
	case registry.FieldCrossRefs:
		return b.CrossRefs != nil

	default:
		return false
	}
}

func senseAt(b *bundle.Bundle, side bundle.Side, sc Scope) (bundle.Sense, bool) {
	tokens := b.SenseTokens(side)
	if sc.Token < 0 || sc.Token >= len(tokens) {
		return bundle.Sense{}, false
	}
	senses := tokens[sc.Token].Senses
	if sc.Sense < 0 || sc.Sense >= len(senses) {
		return bundle.Sense{}, false
	}
	return senses[sc.Sense], true
}
