package integrity_test

import (
	"testing"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/integrity"
	"lexweave/internal/registry"
)

func mustEntry(t *testing.T, f registry.Field) registry.Entry {
	t.Helper()
	e, ok := registry.Lookup(f)
	if !ok {
		t.Fatalf("registry missing %s", f)
	}
	return e
}

func TestSatisfiedRefs(t *testing.T) {
	e := mustEntry(t, registry.FieldSourceRefs)
	b := bundle.New("กินข้าว", "eat rice")
	sc := integrity.TopLevel(bundle.Source)

	if integrity.Satisfied(e, b, sc) {
		t.Fatal("nil refs with text present must not satisfy")
	}
	b.SourceRefs = []string{}
	if integrity.Satisfied(e, b, sc) {
		t.Fatal("empty refs with text present must not satisfy")
	}
	b.SourceRefs = []string{"กิน", "ข้าว"}
	if !integrity.Satisfied(e, b, sc) {
		t.Fatal("materialized refs should satisfy")
	}

	empty := bundle.New("", "")
	empty.SourceRefs = []string{}
	if !integrity.Satisfied(e, empty, sc) {
		t.Fatal("empty refs over empty text should satisfy")
	}
}

func TestSatisfiedOutOfRangeTokens(t *testing.T) {
	e := mustEntry(t, registry.FieldSourceDisplaySurface)
	b := bundle.New("กิน", "eat")
	b.Tokens.SourceDisplay = []bundle.DisplayToken{{Index: 0, Surface: "กิน"}}

	if !integrity.Satisfied(e, b, integrity.TokenScope(bundle.Source, 0)) {
		t.Fatal("existing surface should satisfy")
	}
	if integrity.Satisfied(e, b, integrity.TokenScope(bundle.Source, 5)) {
		t.Fatal("positions beyond the array never satisfy")
	}
	if integrity.Satisfied(e, b, integrity.TokenScope(bundle.Source, -1)) {
		t.Fatal("negative positions never satisfy")
	}
}

func TestSatisfiedSenseCollectionNilVersusEmpty(t *testing.T) {
	e := mustEntry(t, registry.FieldSenses)
	b := bundle.New("กิน", "eat")
	b.Tokens.SourceSense = []bundle.SenseToken{{Index: 0, Surface: "กิน"}}
	sc := integrity.TokenScope(bundle.Source, 0)

	if integrity.Satisfied(e, b, sc) {
		t.Fatal("never-attempted collection must not satisfy")
	}
	b.Tokens.SourceSense[0].Senses = []bundle.Sense{}
	if !integrity.Satisfied(e, b, sc) {
		t.Fatal("attempted-empty collection should satisfy")
	}
}

func TestOptionalSenseFieldsSatisfyWhenEmpty(t *testing.T) {
	b := bundle.New("กิน", "eat")
	b.Tokens.SourceSense = []bundle.SenseToken{{
		Index:   0,
		Surface: "กิน",
		Senses:  []bundle.Sense{{Gloss: "to eat"}},
	}}
	sc := integrity.SenseScope(bundle.Source, 0, 0)

	if !integrity.Satisfied(mustEntry(t, registry.FieldSensePOS), b, sc) {
		t.Fatal("empty pos on an existing sense should satisfy")
	}
	if !integrity.Satisfied(mustEntry(t, registry.FieldSenseSourceTag), b, sc) {
		t.Fatal("empty sourceTag on an existing sense should satisfy")
	}
	if integrity.Satisfied(mustEntry(t, registry.FieldSenseGloss), b, sc) != true {
		t.Fatal("gloss present should satisfy")
	}
	if integrity.Satisfied(mustEntry(t, registry.FieldSenseMeaning), b, sc) {
		t.Fatal("missing meaning must not satisfy")
	}
}

func TestForCapabilityChecker(t *testing.T) {
	check := integrity.ForCapability(capability.Transliteration)
	b := bundle.New("กิน", "eat")
	b.SourceRefs = []string{"กิน"}
	b.Tokens.SourceDisplay = []bundle.DisplayToken{{Index: 0, Surface: "กิน"}}

	result := check(b, integrity.TokenScope(bundle.Source, 0))
	if !result[registry.FieldSourcePhonetic] {
		t.Fatal("missing phonetic should need work")
	}
	if !result[registry.FieldSourceRomanization] {
		t.Fatal("missing romanization should need work")
	}

	b.Tokens.SourceDisplay[0].Phonetic = "/kin/"
	b.Tokens.SourceDisplay[0].Romanization = "kin"
	result = check(b, integrity.TokenScope(bundle.Source, 0))
	if result[registry.FieldSourcePhonetic] || result[registry.FieldSourceRomanization] {
		t.Fatal("complete transliteration should need no work")
	}

	// A top-level scope never matches transliteration's token fields.
	if got := check(b, integrity.TopLevel(bundle.Source)); len(got) != 0 {
		t.Fatalf("top-level scope produced %v", got)
	}
}
