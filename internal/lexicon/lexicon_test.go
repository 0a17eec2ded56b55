package lexicon_test

import (
	"strings"
	"testing"

	"lexweave/internal/lexicon"
)

func testIndex() *lexicon.Index {
	return lexicon.NewIndex([]lexicon.Entry{
		{Word: "กิน", Senses: []lexicon.SenseEntry{{POS: "v", Gloss: "to eat"}}},
		{Word: "ข้าว", Senses: []lexicon.SenseEntry{{POS: "n", Gloss: "rice"}}},
		{Word: "กินข้าว", Senses: []lexicon.SenseEntry{{POS: "v", Gloss: "to have a meal"}}},
	})
}

func TestLookupNormalizes(t *testing.T) {
	ix := testIndex()
	if _, ok := ix.Lookup("  กิน  "); !ok {
		t.Fatal("lookup should trim before matching")
	}
	if _, ok := ix.Lookup("missing"); ok {
		t.Fatal("unexpected hit")
	}
}

func TestLongestMatchPrefersLongerWord(t *testing.T) {
	ix := testIndex()
	runes := []rune("กินข้าวนะ")

	word, n, ok := ix.LongestMatch(runes, 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if word != "กินข้าว" {
		t.Fatalf("matched %q, want the longest entry", word)
	}
	if n != len([]rune("กินข้าว")) {
		t.Fatalf("rune length = %d", n)
	}

	if _, _, ok := ix.LongestMatch(runes, len(runes)-1); ok {
		t.Fatal("trailing unknown rune should not match")
	}
	if _, _, ok := ix.LongestMatch(runes, len(runes)+3); ok {
		t.Fatal("out-of-range start should not match")
	}
}

func TestParseLines(t *testing.T) {
	input := `{"word":"กิน","romanization":"kin","senses":[{"pos":"v","gloss":"to eat"}]}

{"word":"ข้าว","senses":[{"pos":"n","gloss":"rice"}]}`

	entries, err := lexicon.ParseLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Romanization != "kin" || entries[1].Word != "ข้าว" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseLinesReportsLineNumbers(t *testing.T) {
	input := "{\"word\":\"ok\",\"senses\":[]}\nnot json\n"
	_, err := lexicon.ParseLines(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}

	_, err = lexicon.ParseLines(strings.NewReader(`{"senses":[]}`))
	if err == nil || !strings.Contains(err.Error(), "missing word") {
		t.Fatalf("expected missing-word error, got %v", err)
	}
}
