package bundle

import (
	"strconv"
	"strings"
)

// Ref suffix separator. A reference id is a lexicon word, optionally followed
// by "#n" selecting the sense index to display for this occurrence.
const refSenseSeparator = "#"

// Ref is one parsed reference-id entry.
type Ref struct {
	Word       string
	SenseIndex int // -1 when the id carries no sense suffix
}

// ParseRef splits a reference id into its word and optional sense index.
// Malformed suffixes are treated as part of the word rather than rejected;
// segmentation owns producing well-formed ids.
func ParseRef(id string) Ref {
	trimmed := strings.TrimSpace(id)
	ref := Ref{Word: trimmed, SenseIndex: -1}
	pos := strings.LastIndex(trimmed, refSenseSeparator)
	if pos <= 0 || pos == len(trimmed)-1 {
		return ref
	}
	idx, err := strconv.Atoi(trimmed[pos+1:])
	if err != nil || idx < 0 {
		return ref
	}
	ref.Word = trimmed[:pos]
	ref.SenseIndex = idx
	return ref
}

// FormatRef builds a reference id from a word and sense index. Indexes below
// zero produce a bare word id.
func FormatRef(word string, senseIndex int) string {
	word = strings.TrimSpace(word)
	if senseIndex < 0 {
		return word
	}
	return word + refSenseSeparator + strconv.Itoa(senseIndex)
}

// RefWord returns the lexicon word behind a reference id, suffix stripped.
func RefWord(id string) string {
	return ParseRef(id).Word
}

// DistinctWords returns the unique lexicon words behind a reference-id list,
// in first-occurrence order.
func DistinctWords(refs []string) []string {
	seen := make(map[string]struct{}, len(refs))
	words := make([]string, 0, len(refs))
	for _, id := range refs {
		word := RefWord(id)
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}
