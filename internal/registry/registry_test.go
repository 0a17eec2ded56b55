package registry_test

import (
	"testing"

	"lexweave/internal/registry"
)

// The registry walk doubles as the scheduling order, so every dependency
// must be declared before its dependents.
func TestEntriesAreTopologicallyOrdered(t *testing.T) {
	seen := make(map[registry.Field]bool)
	for _, e := range registry.Entries() {
		for _, dep := range e.DependsOn {
			if !seen[dep] {
				t.Errorf("field %s depends on %s, which is declared later", e.Field, dep)
			}
		}
		seen[e.Field] = true
	}
}

func TestLookupCoversAllEntries(t *testing.T) {
	for _, e := range registry.Entries() {
		got, ok := registry.Lookup(e.Field)
		if !ok {
			t.Fatalf("Lookup(%s) missing", e.Field)
		}
		if got.Owner != e.Owner {
			t.Fatalf("Lookup(%s) owner mismatch", e.Field)
		}
	}
}

func TestOriginFieldsHaveNoDependencies(t *testing.T) {
	for _, e := range registry.Entries() {
		if e.Origin && len(e.DependsOn) > 0 {
			t.Errorf("origin field %s declares dependencies", e.Field)
		}
		if !e.Origin && len(e.DependsOn) == 0 {
			t.Errorf("derived field %s declares no dependencies", e.Field)
		}
	}
}

func TestConcreteAndAbstract(t *testing.T) {
	cases := []struct {
		field registry.Field
		i, j  int
		want  string
	}{
		{registry.FieldSourceRefs, 3, 7, "sourceRefs"},
		{registry.FieldSourcePhonetic, 2, -1, "tokens.sourceDisplay[2].phonetic"},
		{registry.FieldSenseMeaning, 1, 4, "tokens.sourceSense[1].senses[4].meaning"},
	}
	for _, tc := range cases {
		got := registry.Concrete(tc.field, tc.i, tc.j)
		if got != tc.want {
			t.Errorf("Concrete(%s, %d, %d) = %q, want %q", tc.field, tc.i, tc.j, got, tc.want)
		}
		back, ok := registry.Abstract(got)
		if !ok || back != tc.field {
			t.Errorf("Abstract(%q) = %q, %v, want %q", got, back, ok, tc.field)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	if n := registry.Placeholders(registry.FieldMatches); n != 0 {
		t.Fatalf("matches placeholders = %d", n)
	}
	if n := registry.Placeholders(registry.FieldSourcePhonetic); n != 1 {
		t.Fatalf("phonetic placeholders = %d", n)
	}
	if n := registry.Placeholders(registry.FieldSenseGloss); n != 2 {
		t.Fatalf("gloss placeholders = %d", n)
	}
}

func TestForCapabilityAndOwners(t *testing.T) {
	for _, id := range registry.Owners() {
		entries := registry.ForCapability(id)
		if len(entries) == 0 {
			t.Fatalf("owner %s has no fields", id)
		}
		for _, e := range entries {
			if e.Owner != id {
				t.Fatalf("ForCapability(%s) returned field %s owned by %s", id, e.Field, e.Owner)
			}
		}
	}
}
