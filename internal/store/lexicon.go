package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lexweave/internal/lexicon"
	"lexweave/internal/savediff"
)

// GetEntry loads one lexicon record by word.
func (s *Store) GetEntry(ctx context.Context, word string) (lexicon.Entry, bool, error) {
	ctx = ensureContext(ctx)
	word = lexicon.Normalize(word)

	var raw string
	row := s.db.QueryRowContext(ctx, `SELECT entry FROM lexicon WHERE word = ?`, word)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lexicon.Entry{}, false, nil
		}
		return lexicon.Entry{}, false, fmt.Errorf("load lexicon entry %q: %w", word, err)
	}

	var e lexicon.Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return lexicon.Entry{}, false, fmt.Errorf("parse lexicon entry %q: %w", word, err)
	}
	return e, true, nil
}

// AllEntries loads the whole lexicon, for building the in-memory index.
func (s *Store) AllEntries(ctx context.Context) ([]lexicon.Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT entry FROM lexicon ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("list lexicon: %w", err)
	}
	defer rows.Close()

	var entries []lexicon.Entry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan lexicon row: %w", err)
		}
		var e lexicon.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("parse lexicon entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ImportLexicon upserts a batch of entries in one transaction, returning how
// many were written.
func (s *Store) ImportLexicon(ctx context.Context, entries []lexicon.Entry) (int, error) {
	ctx = ensureContext(ctx)
	imported := 0
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		imported = 0
		for _, e := range entries {
			word := lexicon.Normalize(e.Word)
			if word == "" {
				continue
			}
			e.Word = word
			if err := mergeLexiconWrite(ctx, tx, savediff.LexiconWrite{Word: word, Entry: e}); err != nil {
				return err
			}
			imported++
		}
		return tx.Commit()
	})
	return imported, err
}

// mergeLexiconWrite upserts one word: senses are unioned with any stored
// record, and stored transcriptions are kept over incoming ones.
func mergeLexiconWrite(ctx context.Context, tx *sql.Tx, w savediff.LexiconWrite) error {
	word := lexicon.Normalize(w.Word)
	if word == "" {
		return fmt.Errorf("lexicon write with empty word")
	}
	entry := w.Entry
	entry.Word = word

	var raw string
	row := tx.QueryRowContext(ctx, `SELECT entry FROM lexicon WHERE word = ?`, word)
	switch err := row.Scan(&raw); {
	case errors.Is(err, sql.ErrNoRows):
		// first sighting
	case err != nil:
		return fmt.Errorf("load lexicon entry %q: %w", word, err)
	default:
		var stored lexicon.Entry
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return fmt.Errorf("parse lexicon entry %q: %w", word, err)
		}
		entry = mergeEntry(stored, entry)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode lexicon entry %q: %w", word, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lexicon (word, entry, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(word) DO UPDATE SET entry = excluded.entry, updated_at = excluded.updated_at`,
		word, string(encoded), nowStamp()); err != nil {
		return fmt.Errorf("save lexicon entry %q: %w", word, err)
	}
	return nil
}

func mergeEntry(stored, incoming lexicon.Entry) lexicon.Entry {
	if stored.Phonetic == "" {
		stored.Phonetic = incoming.Phonetic
	}
	if stored.Romanization == "" {
		stored.Romanization = incoming.Romanization
	}
	seen := make(map[string]bool, len(stored.Senses))
	for _, s := range stored.Senses {
		seen[s.POS+"\x00"+s.Gloss] = true
	}
	for _, s := range incoming.Senses {
		if key := s.POS + "\x00" + s.Gloss; !seen[key] {
			seen[key] = true
			stored.Senses = append(stored.Senses, s)
		}
	}
	return stored
}
