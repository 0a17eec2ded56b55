package store_test

import (
	"context"
	"errors"
	"testing"

	"lexweave/internal/bundle"
	"lexweave/internal/lexicon"
	"lexweave/internal/savediff"
	"lexweave/internal/services"
	"lexweave/internal/testsupport"
)

func TestBundleRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	b := testsupport.NewBundle(t, st, "กินข้าว", "eat rice")

	got, err := st.GetBundle(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBundle: %v", err)
	}
	if got.SourceText != "กินข้าว" || got.TargetText != "eat rice" {
		t.Fatalf("texts = %q / %q", got.SourceText, got.TargetText)
	}
	if got.State != bundle.StatePending {
		t.Fatalf("state = %q", got.State)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps not recorded")
	}
	if got.SourceRefs != nil {
		t.Fatal("raw bundle must keep never-attempted refs nil")
	}
}

func TestGetBundleMissing(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	_, err := st.GetBundle(context.Background(), "no-such-id")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestStateTransitionsAndCounts(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	a := testsupport.NewBundle(t, st, "น้ำ", "water")
	b := testsupport.NewBundle(t, st, "แมว", "cat")

	if err := st.SetBundleState(ctx, a.ID, bundle.StateComplete); err != nil {
		t.Fatalf("SetBundleState: %v", err)
	}

	counts, err := st.CountByState(ctx)
	if err != nil {
		t.Fatalf("CountByState: %v", err)
	}
	if counts[bundle.StateComplete] != 1 || counts[bundle.StatePending] != 1 {
		t.Fatalf("counts = %v", counts)
	}

	pending, err := st.ListBundles(ctx, bundle.StatePending)
	if err != nil {
		t.Fatalf("ListBundles: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("pending = %+v", pending)
	}

	all, err := st.ListBundles(ctx)
	if err != nil {
		t.Fatalf("ListBundles: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d bundles", len(all))
	}
}

func TestApplyPlanMergesFieldsAndGrowsArrays(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	b := testsupport.NewBundle(t, st, "กินข้าว", "eat rice")

	plan := savediff.Plan{Bundle: savediff.BundleWrite{
		ID: b.ID,
		Fields: map[string]any{
			"sourceRefs": []string{"กิน", "ข้าว"},
			"targetRefs": []string{"eat", "rice"},
			"crossRefs": []bundle.CrossRef{
				{Word: "กิน", Indexes: []int{0}},
				{Word: "ข้าว", Indexes: []int{1}},
			},
			"tokens.sourceDisplay[0].surface":  "กิน",
			"tokens.sourceDisplay[1].surface":  "ข้าว",
			"tokens.sourceDisplay[1].phonetic": "/khâːw/",
		},
	}}
	if err := st.ApplyPlan(ctx, plan); err != nil {
		t.Fatalf("ApplyPlan: %v", err)
	}

	got, err := st.GetBundle(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBundle: %v", err)
	}
	if len(got.SourceRefs) != 2 || got.SourceRefs[0] != "กิน" {
		t.Fatalf("sourceRefs = %v", got.SourceRefs)
	}
	if len(got.CrossRefs) != 2 {
		t.Fatalf("crossRefs = %+v", got.CrossRefs)
	}
	display := got.Tokens.SourceDisplay
	if len(display) != 2 {
		t.Fatalf("sourceDisplay = %+v", display)
	}
	// Elements materialized by path writes carry their position.
	if display[0].Index != 0 || display[1].Index != 1 {
		t.Fatalf("indexes = %d, %d", display[0].Index, display[1].Index)
	}
	if display[1].Phonetic != "/khâːw/" {
		t.Fatalf("phonetic = %q", display[1].Phonetic)
	}
	// Fields the plan never touched stay untouched.
	if got.Tokens.SourceSense != nil || got.Matches != nil {
		t.Fatal("unrelated fields must stay nil")
	}
}

func TestApplyPlanSecondMergeDoesNotClobber(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	b := testsupport.NewBundle(t, st, "น้ำ", "water")
	first := savediff.Plan{Bundle: savediff.BundleWrite{
		ID: b.ID,
		Fields: map[string]any{
			"sourceRefs":                      []string{"น้ำ"},
			"targetRefs":                      []string{"water"},
			"tokens.sourceDisplay[0].surface": "น้ำ",
		},
	}}
	if err := st.ApplyPlan(ctx, first); err != nil {
		t.Fatalf("first ApplyPlan: %v", err)
	}

	second := savediff.Plan{Bundle: savediff.BundleWrite{
		ID: b.ID,
		Fields: map[string]any{
			"tokens.sourceDisplay[0].phonetic": "/náːm/",
		},
	}}
	if err := st.ApplyPlan(ctx, second); err != nil {
		t.Fatalf("second ApplyPlan: %v", err)
	}

	got, err := st.GetBundle(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBundle: %v", err)
	}
	token := got.Tokens.SourceDisplay[0]
	if token.Surface != "น้ำ" || token.Phonetic != "/náːm/" {
		t.Fatalf("token = %+v", token)
	}
}

func TestApplyPlanRejectsInvalidMerge(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	b := testsupport.NewBundle(t, st, "กินข้าว", "eat rice")

	bad := savediff.Plan{Bundle: savediff.BundleWrite{
		ID: b.ID,
		Fields: map[string]any{
			"tokens.sourceDisplay[1].index": 5,
		},
	}}
	if err := st.ApplyPlan(ctx, bad); err == nil {
		t.Fatal("misaligning plan must be rejected")
	}

	got, err := st.GetBundle(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBundle: %v", err)
	}
	if got.Tokens.SourceDisplay != nil {
		t.Fatal("rejected plan must leave the document unchanged")
	}
}

func TestApplyPlanUnknownBundle(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	plan := savediff.Plan{Bundle: savediff.BundleWrite{
		ID:     "missing",
		Fields: map[string]any{"sourceRefs": []string{"x"}},
	}}
	if err := st.ApplyPlan(context.Background(), plan); err == nil {
		t.Fatal("expected an error for an unknown bundle")
	}
}

func TestLexiconImportAndMerge(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	n, err := st.ImportLexicon(ctx, testsupport.LexiconEntries())
	if err != nil {
		t.Fatalf("ImportLexicon: %v", err)
	}
	if n != 5 {
		t.Fatalf("imported = %d", n)
	}

	entry, ok, err := st.GetEntry(ctx, "กิน")
	if err != nil || !ok {
		t.Fatalf("GetEntry: ok=%v err=%v", ok, err)
	}
	if entry.Romanization != "kin" || len(entry.Senses) != 2 {
		t.Fatalf("entry = %+v", entry)
	}

	// A later write unions new senses and keeps stored transcriptions.
	plan := savediff.Plan{Lexicon: []savediff.LexiconWrite{{
		Word: "กิน",
		Entry: lexicon.Entry{
			Word:         "กิน",
			Romanization: "gin",
			Senses: []lexicon.SenseEntry{
				{POS: "v", Gloss: "to eat"},
				{POS: "v", Gloss: "to bite"},
			},
		},
	}}}
	if err := st.ApplyPlan(ctx, plan); err != nil {
		t.Fatalf("ApplyPlan: %v", err)
	}

	merged, ok, err := st.GetEntry(ctx, "กิน")
	if err != nil || !ok {
		t.Fatalf("GetEntry after merge: ok=%v err=%v", ok, err)
	}
	if merged.Romanization != "kin" {
		t.Fatalf("stored romanization replaced: %q", merged.Romanization)
	}
	if len(merged.Senses) != 3 {
		t.Fatalf("senses = %+v", merged.Senses)
	}

	_, ok, err = st.GetEntry(ctx, "ปลา")
	if err != nil {
		t.Fatalf("GetEntry miss: %v", err)
	}
	if ok {
		t.Fatal("unknown word reported present")
	}

	all, err := st.AllEntries(ctx)
	if err != nil {
		t.Fatalf("AllEntries: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("all entries = %d", len(all))
	}
}

func TestDeleteBundle(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	b := testsupport.NewBundle(t, st, "แมว", "cat")
	if err := st.DeleteBundle(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBundle: %v", err)
	}
	if _, err := st.GetBundle(ctx, b.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want not-found", err)
	}
}
