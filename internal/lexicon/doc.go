// Package lexicon models the lexical reference data behind the dictionary,
// segmentation, and transliteration capabilities: one entry per word,
// carrying its senses, phonetic transcription, and romanization.
//
// Entries are exchanged as JSON (one object per line for bulk import) and
// served through an in-memory Index that supports exact lookup and
// longest-match scanning for unsegmented text. Words are NFC-normalized on
// the way in so lookups are insensitive to Unicode composition differences.
package lexicon
