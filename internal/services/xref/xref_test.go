package xref_test

import (
	"context"
	"reflect"
	"testing"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/services/xref"
)

func TestBuildGroupsOccurrences(t *testing.T) {
	got := xref.Build([]string{"กิน", "ข้าว", "กิน#1", "น้ำ", ""})
	want := []bundle.CrossRef{
		{Word: "กิน", Indexes: []int{0, 2}},
		{Word: "ข้าว", Indexes: []int{1}},
		{Word: "น้ำ", Indexes: []int{3}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Build = %+v, want %+v", got, want)
	}
}

func TestBuildEmptyRefsIsAttemptedEmpty(t *testing.T) {
	got := xref.Build([]string{})
	if got == nil || len(got) != 0 {
		t.Fatalf("Build = %#v, want attempted-empty", got)
	}
}

func TestInvoke(t *testing.T) {
	svc := xref.New()
	resp, err := svc.Invoke(context.Background(), capability.Request{
		Source: capability.SideRequest{Refs: []string{"กิน", "กิน"}},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(resp.CrossRefs) != 1 || len(resp.CrossRefs[0].Indexes) != 2 {
		t.Fatalf("cross refs = %+v", resp.CrossRefs)
	}
}
