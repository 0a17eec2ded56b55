package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lexweave/internal/bundle"
	"lexweave/internal/services"
)

// PutBundle inserts a new bundle document. The bundle's ID must be unique.
func (s *Store) PutBundle(ctx context.Context, b *bundle.Bundle) error {
	doc, err := bundle.Encode(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	state := b.State
	if state == "" {
		state = bundle.StatePending
	}
	now := nowStamp()
	return s.execWithRetry(ctx,
		`INSERT INTO bundles (id, doc, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, string(doc), string(state), now, now)
}

// GetBundle loads one bundle by id.
func (s *Store) GetBundle(ctx context.Context, id string) (*bundle.Bundle, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT doc, state, created_at, updated_at FROM bundles WHERE id = ?`, id)

	var doc, state, created, updated string
	if err := row.Scan(&doc, &state, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "store", "get-bundle", "bundle "+id, nil)
		}
		return nil, fmt.Errorf("load bundle %s: %w", id, err)
	}

	b, err := bundle.Decode([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", id, err)
	}
	if st, ok := bundle.ParseState(state); ok {
		b.State = st
	}
	b.CreatedAt = parseStamp(created)
	b.UpdatedAt = parseStamp(updated)
	return b, nil
}

// ListBundles returns all bundles, optionally filtered by state, newest
// first.
func (s *Store) ListBundles(ctx context.Context, states ...bundle.State) ([]*bundle.Bundle, error) {
	ctx = ensureContext(ctx)

	query := `SELECT doc, state, created_at, updated_at FROM bundles ORDER BY created_at DESC`
	var args []any
	if len(states) > 0 {
		placeholders := ""
		for i, st := range states {
			if i > 0 {
				placeholders += ", "
			}
			placeholders += "?"
			args = append(args, string(st))
		}
		query = `SELECT doc, state, created_at, updated_at FROM bundles WHERE state IN (` + placeholders + `) ORDER BY created_at DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	var bundles []*bundle.Bundle
	for rows.Next() {
		var doc, state, created, updated string
		if err := rows.Scan(&doc, &state, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan bundle row: %w", err)
		}
		b, err := bundle.Decode([]byte(doc))
		if err != nil {
			return nil, err
		}
		if st, ok := bundle.ParseState(state); ok {
			b.State = st
		}
		b.CreatedAt = parseStamp(created)
		b.UpdatedAt = parseStamp(updated)
		bundles = append(bundles, b)
	}
	return bundles, rows.Err()
}

// SetBundleState updates only the lifecycle state column.
func (s *Store) SetBundleState(ctx context.Context, id string, state bundle.State) error {
	return s.execWithRetry(ctx,
		`UPDATE bundles SET state = ?, updated_at = ? WHERE id = ?`,
		string(state), nowStamp(), id)
}

// DeleteBundle removes a bundle document.
func (s *Store) DeleteBundle(ctx context.Context, id string) error {
	return s.execWithRetry(ctx, `DELETE FROM bundles WHERE id = ?`, id)
}

// CountByState returns the number of bundles in each lifecycle state.
func (s *Store) CountByState(ctx context.Context) (map[bundle.State]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT state, COUNT(*) FROM bundles GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("count bundles: %w", err)
	}
	defer rows.Close()

	counts := make(map[bundle.State]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scan count row: %w", err)
		}
		if st, ok := bundle.ParseState(state); ok {
			counts[st] = n
		}
	}
	return counts, rows.Err()
}
