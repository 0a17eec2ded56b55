package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"lexweave/internal/bundle"
	"lexweave/internal/savediff"
)

// ApplyPlan lands one pass's persistence plan in a single transaction. Field
// writes merge into the stored document without touching anything else; the
// merged document is re-validated before commit so a bad plan can never
// corrupt a bundle.
func (s *Store) ApplyPlan(ctx context.Context, plan savediff.Plan) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if err := applyBundleWrite(ctx, tx, plan.Bundle); err != nil {
			return err
		}
		for _, w := range plan.Lexicon {
			if err := mergeLexiconWrite(ctx, tx, w); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func applyBundleWrite(ctx context.Context, tx *sql.Tx, w savediff.BundleWrite) error {
	if w.Empty() {
		return nil
	}

	if w.Full != nil {
		doc, err := bundle.Encode(w.Full)
		if err != nil {
			return fmt.Errorf("encode bundle: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE bundles SET doc = ?, updated_at = ? WHERE id = ?`,
			string(doc), nowStamp(), w.ID)
		if err != nil {
			return fmt.Errorf("flush bundle %s: %w", w.ID, err)
		}
		return nil
	}

	var raw string
	row := tx.QueryRowContext(ctx, `SELECT doc FROM bundles WHERE id = ?`, w.ID)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("bundle %s not found", w.ID)
		}
		return fmt.Errorf("load bundle %s: %w", w.ID, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("parse stored bundle %s: %w", w.ID, err)
	}

	paths := make([]string, 0, len(w.Fields))
	for path := range w.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := applyPath(doc, path, w.Fields[path]); err != nil {
			return fmt.Errorf("bundle %s: %w", w.ID, err)
		}
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode merged bundle %s: %w", w.ID, err)
	}
	if _, err := bundle.Decode(merged); err != nil {
		return fmt.Errorf("merged bundle %s failed validation: %w", w.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bundles SET doc = ?, updated_at = ? WHERE id = ?`,
		string(merged), nowStamp(), w.ID); err != nil {
		return fmt.Errorf("save bundle %s: %w", w.ID, err)
	}
	return nil
}
