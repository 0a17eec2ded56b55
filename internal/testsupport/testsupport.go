// Package testsupport provides shared helpers for package tests: temp-dir
// configs, stores with registered cleanup, prebuilt bundles, and a small
// seeded lexicon.
package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"lexweave/internal/bundle"
	"lexweave/internal/config"
	"lexweave/internal/lexicon"
	"lexweave/internal/store"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewBundle creates and persists a raw bundle holding only text.
func NewBundle(t testing.TB, st *store.Store, sourceText, targetText string) *bundle.Bundle {
	t.Helper()

	b := bundle.New(sourceText, targetText)
	if err := st.PutBundle(context.Background(), b); err != nil {
		t.Fatalf("store.PutBundle: %v", err)
	}
	return b
}

// LexiconEntries returns a small Thai lexicon covering the words the test
// fixtures use.
func LexiconEntries() []lexicon.Entry {
	return []lexicon.Entry{
		{
			Word:         "กิน",
			Phonetic:     "/kin/",
			Romanization: "kin",
			Senses: []lexicon.SenseEntry{
				{POS: "v", Gloss: "to eat", Tag: "common"},
				{POS: "v", Gloss: "to consume; to use up"},
			},
		},
		{
			Word:         "ข้าว",
			Phonetic:     "/khâːw/",
			Romanization: "khao",
			Senses: []lexicon.SenseEntry{
				{POS: "n", Gloss: "rice", Tag: "common"},
				{POS: "n", Gloss: "meal, food"},
			},
		},
		{
			Word:         "น้ำ",
			Phonetic:     "/náːm/",
			Romanization: "nam",
			Senses: []lexicon.SenseEntry{
				{POS: "n", Gloss: "water"},
			},
		},
		{
			Word:         "ดื่ม",
			Phonetic:     "/dɯ̀ːm/",
			Romanization: "duem",
			Senses: []lexicon.SenseEntry{
				{POS: "v", Gloss: "to drink"},
			},
		},
		{
			Word:         "แมว",
			Phonetic:     "/mɛːw/",
			Romanization: "maeo",
			Senses: []lexicon.SenseEntry{
				{POS: "n", Gloss: "cat"},
			},
		},
	}
}

// NewLexiconIndex builds an index over the seeded entries.
func NewLexiconIndex(t testing.TB) *lexicon.Index {
	t.Helper()
	return lexicon.NewIndex(LexiconEntries())
}
