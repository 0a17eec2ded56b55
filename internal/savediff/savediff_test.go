package savediff_test

import (
	"testing"

	"lexweave/internal/bundle"
	"lexweave/internal/savediff"
	"lexweave/internal/workmap"
)

func segmented() *bundle.Bundle {
	b := bundle.New("กินข้าว", "eat rice")
	b.SourceRefs = []string{"กิน", "ข้าว"}
	b.TargetRefs = []string{"eat", "rice"}
	b.CrossRefs = []bundle.CrossRef{{Word: "กิน", Indexes: []int{0}}, {Word: "ข้าว", Indexes: []int{1}}}
	return b
}

func enrich(b *bundle.Bundle) {
	b.Tokens.SourceDisplay = []bundle.DisplayToken{
		{Index: 0, Surface: "กิน", Phonetic: "/kin/", Romanization: "kin"},
		{Index: 1, Surface: "ข้าว", Phonetic: "/khâːw/", Romanization: "khao"},
	}
	b.Tokens.TargetDisplay = []bundle.DisplayToken{{Index: 0, Surface: "eat"}, {Index: 1, Surface: "rice"}}
	b.Tokens.SourceSense = []bundle.SenseToken{
		{Index: 0, Surface: "กิน", Senses: []bundle.Sense{{
			PartOfSpeech: "v", Gloss: "to eat",
			BilingualPOS: "verb / คำกริยา", Meaning: "to eat", Clarification: "to eat", Confidence: 0.9,
		}}},
		{Index: 1, Surface: "ข้าว", Senses: []bundle.Sense{{
			PartOfSpeech: "n", Gloss: "rice",
			BilingualPOS: "noun / คำนาม", Meaning: "rice", Clarification: "rice", Confidence: 0.9,
		}}},
	}
	b.Tokens.TargetSense = []bundle.SenseToken{{Index: 0, Surface: "eat"}, {Index: 1, Surface: "rice"}}
	b.Matches = []bundle.MatchPair{{SourceIndex: 0, TargetIndex: 0, Score: 1}}
}

func TestPlanEmitsOnlyPendingNowValidFields(t *testing.T) {
	before := segmented()
	mask, _ := workmap.Build(before)

	after := before.Clone()
	enrich(after)

	plan := savediff.Build(mask, after, savediff.Options{})

	for _, want := range []string{
		"tokens.sourceDisplay[0].surface",
		"tokens.sourceDisplay[0].phonetic",
		"tokens.sourceDisplay[1].romanization",
		"tokens.targetDisplay[1].surface",
		"tokens.sourceSense[0].surface",
		"tokens.targetSense[0].surface",
		"tokens.sourceSense[0].senses",
		"tokens.sourceSense[1].senses",
		"matches",
	} {
		if _, ok := plan.Bundle.Fields[want]; !ok {
			t.Errorf("plan missing %s", want)
		}
	}

	// Fields that were already valid before the pass must not be rewritten.
	for _, forbidden := range []string{"sourceRefs", "targetRefs", "crossRefs"} {
		if _, ok := plan.Bundle.Fields[forbidden]; ok {
			t.Errorf("plan rewrites already-valid field %s", forbidden)
		}
	}
}

func TestPlanSkipsFieldsAFailedCapabilityLeftInvalid(t *testing.T) {
	before := segmented()
	mask, _ := workmap.Build(before)

	after := before.Clone()
	enrich(after)
	// Matching failed this pass.
	after.Matches = nil
	// Transliteration failed for the second token.
	after.Tokens.SourceDisplay[1].Phonetic = ""
	after.Tokens.SourceDisplay[1].Romanization = ""

	plan := savediff.Build(mask, after, savediff.Options{})

	if _, ok := plan.Bundle.Fields["matches"]; ok {
		t.Error("failed matches must not be persisted")
	}
	if _, ok := plan.Bundle.Fields["tokens.sourceDisplay[1].phonetic"]; ok {
		t.Error("invalid phonetic must not be persisted")
	}
	if _, ok := plan.Bundle.Fields["tokens.sourceDisplay[0].phonetic"]; !ok {
		t.Error("the successful token should still land")
	}
}

func TestPlanFansSensesOutToLexicon(t *testing.T) {
	before := segmented()
	before.SourceRefs = []string{"กิน", "ข้าว", "กิน#1"}
	before.CrossRefs = []bundle.CrossRef{{Word: "กิน", Indexes: []int{0, 2}}, {Word: "ข้าว", Indexes: []int{1}}}
	mask, _ := workmap.Build(before)

	after := before.Clone()
	enrich(after)
	after.Tokens.SourceDisplay = append(after.Tokens.SourceDisplay,
		bundle.DisplayToken{Index: 2, Surface: "กิน", Phonetic: "/kin/", Romanization: "kin"})
	after.Tokens.TargetDisplay = after.Tokens.TargetDisplay[:2]
	after.Tokens.SourceSense = append(after.Tokens.SourceSense, bundle.SenseToken{
		Index: 2, Surface: "กิน",
		Senses: []bundle.Sense{{PartOfSpeech: "v", Gloss: "to eat",
			BilingualPOS: "verb / คำกริยา", Meaning: "to eat", Clarification: "to eat", Confidence: 0.9}},
	})
	after.Tokens.TargetSense = after.Tokens.TargetSense[:2]

	plan := savediff.Build(mask, after, savediff.Options{})

	if len(plan.Lexicon) != 2 {
		t.Fatalf("lexicon writes = %+v", plan.Lexicon)
	}
	words := map[string]bool{}
	for _, w := range plan.Lexicon {
		words[w.Word] = true
		if len(w.Entry.Senses) == 0 {
			t.Fatalf("write for %s carries no senses", w.Word)
		}
	}
	if !words["กิน"] || !words["ข้าว"] {
		t.Fatalf("words = %v", words)
	}
}

func TestForceFullFlush(t *testing.T) {
	b := segmented()
	plan := savediff.Build(nil, b, savediff.Options{ForceFullFlush: true, SkipLexicon: true})
	if plan.Bundle.Full == nil {
		t.Fatal("expected a full document write")
	}
	if len(plan.Lexicon) != 0 {
		t.Fatal("lexicon writes should be suppressed")
	}
}

func TestNilMaskMeansEmptyPlan(t *testing.T) {
	b := segmented()
	plan := savediff.Build(nil, b, savediff.Options{})
	if !plan.Bundle.Empty() || len(plan.Lexicon) != 0 {
		t.Fatalf("plan = %+v, want empty", plan)
	}
}

func TestEmptyCollectionsStillPersistAsAttempted(t *testing.T) {
	before := segmented()
	mask, _ := workmap.Build(before)

	after := before.Clone()
	enrich(after)
	after.Tokens.SourceSense[1].Senses = []bundle.Sense{}

	plan := savediff.Build(mask, after, savediff.Options{})
	value, ok := plan.Bundle.Fields["tokens.sourceSense[1].senses"]
	if !ok {
		t.Fatal("attempted-empty collection must be persisted")
	}
	senses, ok := value.([]bundle.Sense)
	if !ok || senses == nil || len(senses) != 0 {
		t.Fatalf("value = %#v", value)
	}
}
