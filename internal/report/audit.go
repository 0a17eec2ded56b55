package report

import (
	"fmt"
	"strings"
	"time"

	"lexweave/internal/bundle"
	"lexweave/internal/integrity"
	"lexweave/internal/registry"
	"lexweave/internal/workmap"
)

// Row is one concrete field of the audit: where it lives, who owns it, and
// whether it currently holds a valid value or pending work.
type Row struct {
	Path    string `json:"path"`
	Owner   string `json:"owner,omitempty"`
	Origin  bool   `json:"origin,omitempty"`
	Valid   bool   `json:"valid"`
	Pending bool   `json:"pending"`
	Value   string `json:"value,omitempty"`
}

// Audit is the field-level view of one bundle.
type Audit struct {
	BundleID        string    `json:"bundleId"`
	State           string    `json:"state"`
	GeneratedAt     time.Time `json:"generatedAt"`
	Pending         []string  `json:"pendingCapabilities"`
	Inconsistencies []string  `json:"inconsistencies,omitempty"`
	Rows            []Row     `json:"fields"`
}

const maxValueRunes = 48

// BuildAudit walks the field registry against a bundle and its freshly built
// work mask.
func BuildAudit(b *bundle.Bundle) *Audit {
	mask, incs := workmap.Build(b)

	a := &Audit{
		BundleID:    b.ID,
		State:       string(b.State),
		GeneratedAt: time.Now().UTC(),
		Pending:     []string{},
	}
	for _, id := range mask.PendingCapabilities() {
		a.Pending = append(a.Pending, id.String())
	}
	for _, inc := range incs {
		a.Inconsistencies = append(a.Inconsistencies, inc.String())
	}

	for _, e := range registry.Entries() {
		switch e.Scope {
		case registry.ScopeTopLevel:
			a.addRow(e, b, mask, -1, -1)
		case registry.ScopeToken:
			for i := 0; i < tokenCount(b, mask, e.Side); i++ {
				a.addRow(e, b, mask, i, -1)
			}
		case registry.ScopeSense:
			for i, tok := range b.Tokens.SourceSense {
				for j := range tok.Senses {
					a.addRow(e, b, mask, i, j)
				}
			}
		}
	}
	return a
}

func tokenCount(b *bundle.Bundle, mask *workmap.Mask, side bundle.Side) int {
	n := len(b.Refs(side))
	if m := len(b.Display(side)); m > n {
		n = m
	}
	if m := len(b.SenseTokens(side)); m > n {
		n = m
	}
	if m := len(mask.Display(side)); m > n {
		n = m
	}
	return n
}

func (a *Audit) addRow(e registry.Entry, b *bundle.Bundle, mask *workmap.Mask, i, j int) {
	sc := integrity.Scope{Side: e.Side, Token: i, Sense: j}
	row := Row{
		Path:   registry.Concrete(e.Field, i, j),
		Origin: e.Origin,
		Valid:  integrity.Satisfied(e, b, sc),
	}
	if !e.Origin {
		row.Owner = e.Owner.String()
		row.Pending = pendingIn(mask, e.Field, i, j)
	}
	row.Value = truncate(fieldValue(e.Field, b, i, j))
	a.Rows = append(a.Rows, row)
}

// pendingIn answers whether the mask flags one concrete field.
func pendingIn(m *workmap.Mask, f registry.Field, i, j int) bool {
	switch f {
	case registry.FieldSourceRefs:
		return m.SourceRefs
	case registry.FieldTargetRefs:
		return m.TargetRefs
	case registry.FieldMatches:
		return m.Matches
	case registry.FieldCrossRefs:
		return m.CrossRefs

	case registry.FieldSourceDisplaySurface:
		return tokenBit(m.SourceDisplay, i, func(t workmap.TokenMask) bool { return t.Surface })
	case registry.FieldSourcePhonetic:
		return tokenBit(m.SourceDisplay, i, func(t workmap.TokenMask) bool { return t.Phonetic })
	case registry.FieldSourceRomanization:
		return tokenBit(m.SourceDisplay, i, func(t workmap.TokenMask) bool { return t.Romanization })
	case registry.FieldTargetDisplaySurface:
		return tokenBit(m.TargetDisplay, i, func(t workmap.TokenMask) bool { return t.Surface })
	case registry.FieldSourceSenseSurface:
		return tokenBit(m.SourceSense, i, func(t workmap.TokenMask) bool { return t.Surface })
	case registry.FieldTargetSenseSurface:
		return tokenBit(m.TargetSense, i, func(t workmap.TokenMask) bool { return t.Surface })

	case registry.FieldSenses:
		if i < 0 || i >= len(m.Senses) {
			return false
		}
		sm := m.Senses[i]
		return sm.State == workmap.SenseNotYetCreated && sm.Any()

	default:
		if i < 0 || i >= len(m.Senses) {
			return false
		}
		sm := m.Senses[i]
		if j < 0 || j >= len(sm.Senses) {
			return false
		}
		return senseBit(sm.Senses[j], f)
	}
}

func tokenBit(masks []workmap.TokenMask, i int, bit func(workmap.TokenMask) bool) bool {
	if i < 0 || i >= len(masks) {
		return false
	}
	return bit(masks[i])
}

func senseBit(fm workmap.SenseFieldMask, f registry.Field) bool {
	switch f {
	case registry.FieldSensePOS:
		return fm.POS
	case registry.FieldSenseGloss:
		return fm.Gloss
	case registry.FieldSenseSourceTag:
		return fm.SourceTag
	case registry.FieldSenseBilingualPOS:
		return fm.BilingualPOS
	case registry.FieldSenseMeaning:
		return fm.Meaning
	case registry.FieldSenseClarification:
		return fm.Clarification
	case registry.FieldSenseConfidence:
		return fm.Confidence
	default:
		return false
	}
}

func fieldValue(f registry.Field, b *bundle.Bundle, i, j int) string {
	switch f {
	case registry.FieldSourceText:
		return b.SourceText
	case registry.FieldTargetText:
		return b.TargetText
	case registry.FieldSourceRefs, registry.FieldTargetRefs:
		side := bundle.Source
		if f == registry.FieldTargetRefs {
			side = bundle.Target
		}
		refs := b.Refs(side)
		if refs == nil {
			return ""
		}
		return strings.Join(refs, " ")
	case registry.FieldMatches:
		if b.Matches == nil {
			return ""
		}
		return fmt.Sprintf("%d pairs", len(b.Matches))
	case registry.FieldCrossRefs:
		if b.CrossRefs == nil {
			return ""
		}
		return fmt.Sprintf("%d words", len(b.CrossRefs))
	case registry.FieldSenses:
		tok, ok := senseTokenAt(b, i)
		if !ok || tok.Senses == nil {
			return ""
		}
		return fmt.Sprintf("%d senses", len(tok.Senses))
	}

	if strings.HasPrefix(string(f), "tokens.") && registry.Placeholders(f) == 1 {
		return tokenFieldValue(f, b, i)
	}

	tok, ok := senseTokenAt(b, i)
	if !ok || j < 0 || j >= len(tok.Senses) {
		return ""
	}
	s := tok.Senses[j]
	switch f {
	case registry.FieldSensePOS:
		return s.PartOfSpeech
	case registry.FieldSenseGloss:
		return s.Gloss
	case registry.FieldSenseSourceTag:
		return s.SourceTag
	case registry.FieldSenseBilingualPOS:
		return s.BilingualPOS
	case registry.FieldSenseMeaning:
		return s.Meaning
	case registry.FieldSenseClarification:
		return s.Clarification
	case registry.FieldSenseConfidence:
		if s.Confidence == 0 {
			return ""
		}
		return fmt.Sprintf("%.2f", s.Confidence)
	}
	return ""
}

func tokenFieldValue(f registry.Field, b *bundle.Bundle, i int) string {
	switch f {
	case registry.FieldSourceDisplaySurface, registry.FieldTargetDisplaySurface,
		registry.FieldSourcePhonetic, registry.FieldSourceRomanization:
		side := bundle.Source
		if f == registry.FieldTargetDisplaySurface {
			side = bundle.Target
		}
		display := b.Display(side)
		if i < 0 || i >= len(display) {
			return ""
		}
		switch f {
		case registry.FieldSourcePhonetic:
			return display[i].Phonetic
		case registry.FieldSourceRomanization:
			return display[i].Romanization
		default:
			return display[i].Surface
		}
	case registry.FieldSourceSenseSurface, registry.FieldTargetSenseSurface:
		side := bundle.Source
		if f == registry.FieldTargetSenseSurface {
			side = bundle.Target
		}
		toks := b.SenseTokens(side)
		if i < 0 || i >= len(toks) {
			return ""
		}
		return toks[i].Surface
	}
	return ""
}

func senseTokenAt(b *bundle.Bundle, i int) (bundle.SenseToken, bool) {
	if i < 0 || i >= len(b.Tokens.SourceSense) {
		return bundle.SenseToken{}, false
	}
	return b.Tokens.SourceSense[i], true
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= maxValueRunes {
		return value
	}
	return string(runes[:maxValueRunes-1]) + "…"
}
