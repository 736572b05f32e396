// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-digest pipeline:
// search terms, normalized articles, persisted result rows, run results, and
// the per-stage configuration values.
package types

import "time"

// SearchTerm is one stored query with its result cap.
type SearchTerm struct {
	// Term is the PubMed query string (e.g. "CRISPR AND off-target").
	Term string `json:"term" yaml:"term"`

	// MaxResults caps the identifiers returned by one search. Values <= 0
	// fall back to the default_max_results setting.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Article is the flat, normalized form of one bibliographic record. Every field
// except ID is an empty string when the source record omits it.
type Article struct {
	// ID is the PubMed identifier (PMID).
	ID string `json:"id" yaml:"id"`

	// Title is the article title with inline markup stripped.
	Title string `json:"title" yaml:"title"`

	// FirstAuthor is "<LastName> <ForeName>" of the first listed author.
	FirstAuthor string `json:"first_author" yaml:"first_author"`

	// Abstract joins all abstract text segments in document order.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PublicationDate is "Y", "Y-M", or "Y-M-D" as given by the journal issue.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// Summary is attached once the summarizer has run.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// URL returns the PubMed landing page for the article.
func (a Article) URL() string {
	return "https://pubmed.ncbi.nlm.nih.gov/" + a.ID + "/"
}

// WithSummary returns a copy of a carrying summary.
func (a Article) WithSummary(summary string) Article {
	a.Summary = summary
	return a
}

// PersistedRecord is one row of the append-only results log.
type PersistedRecord struct {
	Article `yaml:",inline"`

	// SearchTerm is the term whose search first surfaced the article.
	SearchTerm string `json:"search_term" yaml:"search_term"`

	// RecordedAt is when the row was appended.
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// RunResult summarizes one orchestrator pass. It is reported, never stored.
type RunResult struct {
	Success         bool   `json:"success" yaml:"success"`
	NewArticleCount int    `json:"new_article_count" yaml:"new_article_count"`
	Message         string `json:"message" yaml:"message"`

	// FailedTerms lists the terms whose processing failed.
	FailedTerms []string `json:"failed_terms,omitempty" yaml:"failed_terms,omitempty"`
}
