package lexicon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SenseEntry is one dictionary sense of a word.
type SenseEntry struct {
	POS   string `json:"pos"`
	Gloss string `json:"gloss"`
	Tag   string `json:"tag,omitempty"`
}

// Entry is the stored record for one word.
type Entry struct {
	Word         string       `json:"word"`
	Phonetic     string       `json:"phonetic,omitempty"`
	Romanization string       `json:"romanization,omitempty"`
	Senses       []SenseEntry `json:"senses"`
}

// Normalize returns the canonical form a word is indexed under.
func Normalize(word string) string {
	return norm.NFC.String(strings.TrimSpace(word))
}

// Index serves lexicon entries for lookup and longest-match scanning.
// An Index is immutable after construction and safe for concurrent use.
type Index struct {
	entries map[string]Entry
	maxLen  int // longest indexed word, in runes
}

// NewIndex builds an index over the given entries. Later duplicates of the
// same word replace earlier ones.
func NewIndex(entries []Entry) *Index {
	ix := &Index{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		word := Normalize(e.Word)
		if word == "" {
			continue
		}
		e.Word = word
		ix.entries[word] = e
		if n := len([]rune(word)); n > ix.maxLen {
			ix.maxLen = n
		}
	}
	return ix
}

// Len returns the number of indexed words.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Lookup returns the entry for a word, if indexed.
func (ix *Index) Lookup(word string) (Entry, bool) {
	e, ok := ix.entries[Normalize(word)]
	return e, ok
}

// Words returns all indexed words in lexical order.
func (ix *Index) Words() []string {
	words := make([]string, 0, len(ix.entries))
	for w := range ix.entries {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// LongestMatch finds the longest indexed word starting at position start of
// runes. It returns the matched word and its rune length, or ok=false when
// nothing matches.
func (ix *Index) LongestMatch(runes []rune, start int) (string, int, bool) {
	if start < 0 || start >= len(runes) {
		return "", 0, false
	}
	limit := len(runes) - start
	if ix.maxLen < limit {
		limit = ix.maxLen
	}
	for n := limit; n >= 1; n-- {
		candidate := string(runes[start : start+n])
		if _, ok := ix.entries[candidate]; ok {
			return candidate, n, true
		}
	}
	return "", 0, false
}

// ParseLines reads JSON-lines encoded entries, skipping blank lines.
func ParseLines(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		if Normalize(e.Word) == "" {
			return nil, fmt.Errorf("lexicon line %d: missing word", line)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return entries, nil
}
