package report_test

import (
	"errors"
	"testing"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/report"
)

func rowByPath(t *testing.T, a *report.Audit, path string) report.Row {
	t.Helper()
	for _, r := range a.Rows {
		if r.Path == path {
			return r
		}
	}
	t.Fatalf("no row for %s", path)
	return report.Row{}
}

func TestAuditRawBundle(t *testing.T) {
	b := bundle.New("กินข้าว", "eat rice")
	a := report.BuildAudit(b)

	if len(a.Pending) == 0 {
		t.Fatal("raw bundle should have pending capabilities")
	}

	origin := rowByPath(t, a, "sourceText")
	if !origin.Origin || !origin.Valid || origin.Pending {
		t.Fatalf("origin row = %+v", origin)
	}
	if origin.Owner != "" {
		t.Fatalf("origin rows carry no owner, got %q", origin.Owner)
	}

	refs := rowByPath(t, a, "sourceRefs")
	if refs.Valid || !refs.Pending || refs.Owner != "segmentation" {
		t.Fatalf("refs row = %+v", refs)
	}
}

func TestAuditSegmentedBundle(t *testing.T) {
	b := bundle.New("กินข้าว", "eat rice")
	b.SourceRefs = []string{"กิน", "ข้าว"}
	b.TargetRefs = []string{"eat", "rice"}
	b.CrossRefs = []bundle.CrossRef{{Word: "กิน", Indexes: []int{0}}, {Word: "ข้าว", Indexes: []int{1}}}

	a := report.BuildAudit(b)

	refs := rowByPath(t, a, "sourceRefs")
	if !refs.Valid || refs.Pending {
		t.Fatalf("refs row = %+v", refs)
	}
	if refs.Value != "กิน ข้าว" {
		t.Fatalf("refs value = %q", refs.Value)
	}

	// Token rows exist for every expected position even before the arrays
	// are materialized.
	surface := rowByPath(t, a, "tokens.sourceDisplay[1].surface")
	if surface.Valid || !surface.Pending || surface.Owner != "segmentation" {
		t.Fatalf("surface row = %+v", surface)
	}
	phonetic := rowByPath(t, a, "tokens.sourceDisplay[0].phonetic")
	if phonetic.Owner != "transliteration" || !phonetic.Pending {
		t.Fatalf("phonetic row = %+v", phonetic)
	}
	senses := rowByPath(t, a, "tokens.sourceSense[0].senses")
	if senses.Owner != "dictionary" || !senses.Pending {
		t.Fatalf("senses row = %+v", senses)
	}
}

func TestAuditSurfacesInconsistencies(t *testing.T) {
	b := bundle.New("กิน", "eat")
	b.SourceRefs = []string{"กิน"}
	b.Tokens.SourceDisplay = []bundle.DisplayToken{
		{Index: 0, Surface: "กิน"},
		{Index: 1, Surface: "ghost"},
	}
	a := report.BuildAudit(b)
	if len(a.Inconsistencies) == 0 {
		t.Fatal("oversized token array should be reported")
	}
}

func TestTrackerRecordsAndFilters(t *testing.T) {
	tr := report.NewTracker()

	tr.RecordOutcome("p1", "b1", capability.Segmentation, true, nil)
	tr.RecordOutcome("p1", "b1", capability.Dictionary, false, errors.New("backend offline"))
	tr.RecordOutcome("p1", "b2", capability.Segmentation, true, nil)

	outcomes := tr.Outcomes("b1")
	if len(outcomes) != 2 {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if outcomes[0].Capability != "segmentation" || !outcomes[0].Invoked {
		t.Fatalf("first outcome = %+v", outcomes[0])
	}
	if outcomes[1].Error == "" {
		t.Fatal("error text not recorded")
	}

	tr.RecordWrite("p1", "b1", "sourceRefs", capability.Segmentation)
	tr.RecordWrite("p1", "b1", "crossRefs", capability.ID(-1))

	writes := tr.Writes("b1")
	if len(writes) != 2 {
		t.Fatalf("writes = %+v", writes)
	}
	for _, w := range writes {
		if w.Path == "sourceRefs" && w.Capability != "segmentation" {
			t.Fatalf("write attribution = %+v", w)
		}
		if w.Path == "crossRefs" && w.Capability != "" {
			t.Fatalf("unowned write should carry no capability: %+v", w)
		}
	}

	if got := tr.Writes("b2"); len(got) != 0 {
		t.Fatalf("writes for untouched bundle = %+v", got)
	}
}
