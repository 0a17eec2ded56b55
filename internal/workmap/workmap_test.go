package workmap_test

import (
	"reflect"
	"testing"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/workmap"
)

func rawBundle() *bundle.Bundle {
	return bundle.New("กินข้าว", "eat rice")
}

// segmentedBundle is the state after the first pass: reference ids and the
// cross-reference index exist, nothing token-level does.
func segmentedBundle() *bundle.Bundle {
	b := rawBundle()
	b.SourceRefs = []string{"กิน", "ข้าว"}
	b.TargetRefs = []string{"eat", "rice"}
	b.CrossRefs = []bundle.CrossRef{
		{Word: "กิน", Indexes: []int{0}},
		{Word: "ข้าว", Indexes: []int{1}},
	}
	return b
}

// enrichedBundle is the fully converged document.
func enrichedBundle() *bundle.Bundle {
	b := segmentedBundle()
	b.Tokens.SourceDisplay = []bundle.DisplayToken{
		{Index: 0, Surface: "กิน", Phonetic: "/kin/", Romanization: "kin"},
		{Index: 1, Surface: "ข้าว", Phonetic: "/khâːw/", Romanization: "khao"},
	}
	b.Tokens.TargetDisplay = []bundle.DisplayToken{
		{Index: 0, Surface: "eat"},
		{Index: 1, Surface: "rice"},
	}
	sense := func(i int, surface, pos, gloss string) bundle.SenseToken {
		return bundle.SenseToken{
			Index:   i,
			Surface: surface,
			Senses: []bundle.Sense{{
				PartOfSpeech:  pos,
				Gloss:         gloss,
				BilingualPOS:  pos + " / x",
				Meaning:       gloss,
				Clarification: gloss,
				Confidence:    0.9,
			}},
		}
	}
	b.Tokens.SourceSense = []bundle.SenseToken{
		sense(0, "กิน", "v", "to eat"),
		sense(1, "ข้าว", "n", "rice"),
	}
	b.Tokens.TargetSense = []bundle.SenseToken{
		{Index: 0, Surface: "eat", Senses: []bundle.Sense{}},
		{Index: 1, Surface: "rice", Senses: []bundle.Sense{}},
	}
	b.Matches = []bundle.MatchPair{
		{SourceIndex: 0, TargetIndex: 0, Score: 1},
		{SourceIndex: 1, TargetIndex: 1, Score: 1},
	}
	return b
}

func TestRawBundleNeedsRefsAndIndexOnly(t *testing.T) {
	m, incs := workmap.Build(rawBundle())
	if len(incs) != 0 {
		t.Fatalf("unexpected inconsistencies: %v", incs)
	}

	if !m.SourceRefs || !m.TargetRefs {
		t.Fatal("raw bundle should need both reference lists")
	}
	if len(m.SourceDisplay) != 0 || len(m.TargetDisplay) != 0 {
		t.Fatal("no token masks before segmentation")
	}
	// crossRefs depends only on sourceRefs, which is scheduled in the same
	// walk, so indexing is already satisfiable in the first pass.
	if !m.CrossRefs {
		t.Fatal("crossRefs should ride on the scheduled sourceRefs")
	}
	// matches needs sense glosses, which cannot even be scheduled before
	// token positions exist.
	if m.Matches {
		t.Fatal("matches must stay blocked before segmentation")
	}

	want := []capability.ID{capability.Segmentation, capability.Indexing}
	if got := m.PendingCapabilities(); !reflect.DeepEqual(got, want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
}

func TestSegmentedBundleSchedulesTokenWorkAndChains(t *testing.T) {
	m, incs := workmap.Build(segmentedBundle())
	if len(incs) != 0 {
		t.Fatalf("unexpected inconsistencies: %v", incs)
	}

	if m.SourceRefs || m.TargetRefs || m.CrossRefs {
		t.Fatal("satisfied fields must not be re-flagged")
	}

	if len(m.SourceDisplay) != 2 || len(m.TargetDisplay) != 2 {
		t.Fatalf("token mask lengths: source %d target %d", len(m.SourceDisplay), len(m.TargetDisplay))
	}
	for i, tm := range m.SourceDisplay {
		if !tm.Placeholder || !tm.Surface || !tm.Phonetic || !tm.Romanization {
			t.Fatalf("source display mask %d = %+v", i, tm)
		}
	}
	for i, tm := range m.TargetDisplay {
		if !tm.Placeholder || !tm.Surface {
			t.Fatalf("target display mask %d = %+v", i, tm)
		}
		if tm.Phonetic || tm.Romanization {
			t.Fatalf("target tokens carry no transliteration, mask %d = %+v", i, tm)
		}
	}

	if len(m.Senses) != 2 {
		t.Fatalf("sense mask length = %d", len(m.Senses))
	}
	for i, sm := range m.Senses {
		if sm.State != workmap.SenseNotYetCreated {
			t.Fatalf("sense mask %d state = %v", i, sm.State)
		}
		if len(sm.Senses) != 1 || !sm.Senses[0].Placeholder {
			t.Fatalf("sense mask %d should hold one placeholder entry", i)
		}
		fm := sm.Senses[0]
		if !fm.RawAny() || !fm.NormalizedAny() {
			t.Fatalf("placeholder entry %d should carry both layers: %+v", i, fm)
		}
	}

	// Everything downstream chains off scheduled prerequisites within the
	// same pass.
	if !m.Matches {
		t.Fatal("matches should chain off scheduled senses and surfaces")
	}
	want := []capability.ID{
		capability.Segmentation,
		capability.Transliteration,
		capability.Dictionary,
		capability.Normalization,
		capability.Matching,
	}
	if got := m.PendingCapabilities(); !reflect.DeepEqual(got, want) {
		t.Fatalf("pending = %v, want %v", got, want)
	}
}

func TestEnrichedBundleIsAllClear(t *testing.T) {
	m, incs := workmap.Build(enrichedBundle())
	if len(incs) != 0 {
		t.Fatalf("unexpected inconsistencies: %v", incs)
	}
	if !m.AllClear() {
		t.Fatalf("expected all clear, pending: %v", m.PendingCapabilities())
	}
}

func TestBuildIsIdempotentAndReadOnly(t *testing.T) {
	b := segmentedBundle()
	before, err := bundle.Encode(b)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	m1, _ := workmap.Build(b)
	m2, _ := workmap.Build(b)
	if !reflect.DeepEqual(m1.PendingCapabilities(), m2.PendingCapabilities()) {
		t.Fatal("repeated builds disagree")
	}

	after, err := bundle.Encode(b)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("Build mutated the bundle")
	}
}

func TestAttemptedEmptySensesCarryNoWork(t *testing.T) {
	b := enrichedBundle()
	// Dictionary ran and found nothing for the second token.
	b.Tokens.SourceSense[1].Senses = []bundle.Sense{}

	m, _ := workmap.Build(b)
	if m.Senses[1].State != workmap.SensePerSense {
		t.Fatalf("attempted-empty collection state = %v", m.Senses[1].State)
	}
	if m.Senses[1].Any() {
		t.Fatal("attempted-empty collection must not be retried")
	}
	if !m.AllClear() {
		t.Fatalf("expected all clear, pending: %v", m.PendingCapabilities())
	}
}

func TestNeverAttemptedSensesAreRescheduled(t *testing.T) {
	b := enrichedBundle()
	b.Tokens.SourceSense[1].Senses = nil
	b.Matches = nil

	m, _ := workmap.Build(b)
	if m.Senses[1].State != workmap.SenseNotYetCreated {
		t.Fatalf("nil collection state = %v", m.Senses[1].State)
	}
	if !m.Senses[1].Any() {
		t.Fatal("nil collection with satisfiable prerequisites should be scheduled")
	}
	if !m.NeedsWork(capability.Dictionary) {
		t.Fatal("dictionary should be pending")
	}
	// Matching chains off the scheduled collection.
	if !m.Matches {
		t.Fatal("matches should be checkable through the scheduled senses")
	}
}

func TestPartialTokenArraysGetPlaceholders(t *testing.T) {
	b := segmentedBundle()
	b.Tokens.SourceDisplay = []bundle.DisplayToken{
		{Index: 0, Surface: "กิน", Phonetic: "/kin/", Romanization: "kin"},
	}

	m, _ := workmap.Build(b)
	if len(m.SourceDisplay) != 2 {
		t.Fatalf("mask length = %d, want refs length", len(m.SourceDisplay))
	}
	if m.SourceDisplay[0].Placeholder {
		t.Fatal("existing token is not a placeholder")
	}
	if m.SourceDisplay[0].Any() {
		t.Fatalf("complete token re-flagged: %+v", m.SourceDisplay[0])
	}
	if !m.SourceDisplay[1].Placeholder || !m.SourceDisplay[1].Surface {
		t.Fatalf("missing token mask = %+v", m.SourceDisplay[1])
	}
}

func TestOversizedTokenArrayIsSurfacedNotRepaired(t *testing.T) {
	b := segmentedBundle()
	b.Tokens.SourceDisplay = []bundle.DisplayToken{
		{Index: 0, Surface: "กิน"},
		{Index: 1, Surface: "ข้าว"},
		{Index: 2, Surface: "ghost"},
	}

	before, _ := bundle.Encode(b)
	m, incs := workmap.Build(b)
	after, _ := bundle.Encode(b)

	if len(incs) == 0 {
		t.Fatal("expected an inconsistency report")
	}
	if incs[0].Side != bundle.Source {
		t.Fatalf("inconsistency side = %v", incs[0].Side)
	}
	if len(m.SourceDisplay) != 0 {
		t.Fatal("inconsistent array must not be checked")
	}
	if string(before) != string(after) {
		t.Fatal("inconsistency handling mutated the bundle")
	}
}

func TestEmptySourceTextBlocksWithoutWork(t *testing.T) {
	b := bundle.New("", "eat rice")
	m, incs := workmap.Build(b)
	if len(incs) != 0 {
		t.Fatalf("unexpected inconsistencies: %v", incs)
	}
	if m.SourceRefs {
		t.Fatal("source refs cannot be produced without source text")
	}
	if !m.TargetRefs {
		t.Fatal("target side should still be scheduled")
	}
	if m.CrossRefs {
		t.Fatal("crossRefs blocked while sourceRefs is unsatisfiable")
	}
}
