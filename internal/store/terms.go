// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// AddTerm appends a search term after the existing ones.
func (s *Store) AddTerm(ctx context.Context, t types.SearchTerm) error {
	term := strings.TrimSpace(t.Term)
	if term == "" {
		return fmt.Errorf("search term is empty")
	}
	if _, err := s.exec(ctx, sq.Insert("search_terms").
		Columns("term", "max_results").
		Values(term, t.MaxResults)); err != nil {
		return fmt.Errorf("adding search term %q: %w", term, err)
	}
	return nil
}

// Terms returns the stored search terms in insertion order.
func (s *Store) Terms(ctx context.Context) ([]types.SearchTerm, error) {
	rows, err := s.query(ctx, sq.Select("term", "max_results").
		From("search_terms").OrderBy("position"))
	if err != nil {
		return nil, fmt.Errorf("listing search terms: %w", err)
	}
	defer rows.Close()

	var terms []types.SearchTerm
	for rows.Next() {
		var t types.SearchTerm
		if err := rows.Scan(&t.Term, &t.MaxResults); err != nil {
			return nil, fmt.Errorf("scanning search term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// RemoveTerm deletes every stored copy of term.
func (s *Store) RemoveTerm(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	res, err := s.exec(ctx, sq.Delete("search_terms").Where(sq.Eq{"term": term}))
	if err != nil {
		return fmt.Errorf("removing search term %q: %w", term, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing search term %q: %w", term, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrTermNotFound, term)
	}
	return nil
}
