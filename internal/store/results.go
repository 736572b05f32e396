// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// RecordIfNew appends a result row for a unless a row with the same
// identifier already exists. Identifiers compare as trimmed strings with no
// other normalization. It reports whether a row was written.
func (s *Store) RecordIfNew(ctx context.Context, a types.Article, term, summary string) (bool, error) {
	id := strings.TrimSpace(a.ID)

	ids, err := s.recordedIDs(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range ids {
		if strings.TrimSpace(existing) == id {
			return false, nil
		}
	}

	_, err = s.exec(ctx, sq.Insert("results").
		Columns("id", "title", "first_author", "publication_date",
			"search_term", "abstract", "summary", "recorded_at").
		Values(id, a.Title, a.FirstAuthor, a.PublicationDate,
			term, a.Abstract, summary, s.now().UTC().Format(time.RFC3339)))
	if err != nil {
		return false, fmt.Errorf("recording article %s: %w", id, err)
	}
	return true, nil
}

func (s *Store) recordedIDs(ctx context.Context) ([]string, error) {
	rows, err := s.query(ctx, sq.Select("id").From("results"))
	if err != nil {
		return nil, fmt.Errorf("reading recorded identifiers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning identifier: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ResultFilter narrows ListResults. Zero values match everything.
type ResultFilter struct {
	Term  string
	Since time.Time
	Limit int
}

// ListResults returns recorded rows in the order they were appended.
func (s *Store) ListResults(ctx context.Context, f ResultFilter) ([]types.PersistedRecord, error) {
	b := sq.Select("id", "title", "first_author", "publication_date",
		"search_term", "abstract", "summary", "recorded_at").
		From("results").OrderBy("rowid")
	if f.Term != "" {
		b = b.Where(sq.Eq{"search_term": f.Term})
	}
	if !f.Since.IsZero() {
		b = b.Where(sq.GtOrEq{"recorded_at": f.Since.UTC().Format(time.RFC3339)})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	rows, err := s.query(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var records []types.PersistedRecord
	for rows.Next() {
		var (
			r          types.PersistedRecord
			recordedAt string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.FirstAuthor, &r.PublicationDate,
			&r.SearchTerm, &r.Abstract, &r.Summary, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if r.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
			return nil, fmt.Errorf("result %s: parsing recorded_at: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ExportYAML writes the filtered results to w as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, f ResultFilter) error {
	records, err := s.exportRecords(ctx, f)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the filtered results to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, f ResultFilter) error {
	records, err := s.exportRecords(ctx, f)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (s *Store) exportRecords(ctx context.Context, f ResultFilter) ([]types.PersistedRecord, error) {
	records, err := s.ListResults(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []types.PersistedRecord{}
	}
	return records, nil
}
