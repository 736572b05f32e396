// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"errors"
	"strings"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

var (
	// ErrNoCitation marks a record without a MedlineCitation container.
	ErrNoCitation = errors.New("record has no MedlineCitation")

	// ErrNoIdentifier marks a citation without a usable PMID.
	ErrNoIdentifier = errors.New("record has no PMID")
)

// RecordFailure describes one record that could not be normalized.
type RecordFailure struct {
	// Index is the record's position in the batch.
	Index int
	Err   error
}

// NormalizeAll normalizes each record independently. Failed records are
// collected and never stop the rest of the batch.
func NormalizeAll(records []RawRecord) ([]types.Article, []RecordFailure) {
	articles := make([]types.Article, 0, len(records))
	var failures []RecordFailure
	for i, rec := range records {
		a, err := Normalize(rec)
		if err != nil {
			failures = append(failures, RecordFailure{Index: i, Err: err})
			continue
		}
		articles = append(articles, a)
	}
	return articles, failures
}

// Normalize flattens one raw record. Only a missing citation or PMID is an
// error; every other absent container leaves its fields empty.
func Normalize(rec RawRecord) (types.Article, error) {
	citation, ok := citationOf(rec)
	if !ok {
		return types.Article{}, ErrNoCitation
	}
	id := strings.TrimSpace(citation.PMID.value())
	if id == "" {
		return types.Article{}, ErrNoIdentifier
	}

	out := types.Article{ID: id}
	article, ok := articleOf(citation)
	if !ok {
		return out, nil
	}

	out.Title = article.Title.value()
	out.FirstAuthor = firstAuthor(article)
	out.Abstract = abstractText(article)
	out.PublicationDate = publicationDate(article)
	return out, nil
}

func citationOf(rec RawRecord) (*rawCitation, bool) {
	return rec.Citation, rec.Citation != nil
}

func articleOf(c *rawCitation) (*rawArticle, bool) {
	return c.Article, c.Article != nil
}

func authorsOf(a *rawArticle) ([]rawAuthor, bool) {
	if a.AuthorList == nil || len(a.AuthorList.Authors) == 0 {
		return nil, false
	}
	return a.AuthorList.Authors, true
}

func pubDateOf(a *rawArticle) (*rawPubDate, bool) {
	if a.Journal == nil || a.Journal.Issue == nil || a.Journal.Issue.PubDate == nil {
		return nil, false
	}
	return a.Journal.Issue.PubDate, true
}

// firstAuthor renders "<LastName> <ForeName>" for the first listed author,
// falling back to whichever name part exists, then the collective name.
func firstAuthor(a *rawArticle) string {
	authors, ok := authorsOf(a)
	if !ok {
		return ""
	}
	first := authors[0]
	last := first.LastName.value()
	fore := first.ForeName.value()
	switch {
	case last != "" && fore != "":
		return last + " " + fore
	case last != "":
		return last
	case fore != "":
		return fore
	}
	return first.CollectiveName.value()
}

// abstractText joins the abstract segments in document order with one space.
func abstractText(a *rawArticle) string {
	if a.Abstract == nil {
		return ""
	}
	parts := make([]string, 0, len(a.Abstract.Segments))
	for _, seg := range a.Abstract.Segments {
		if s := string(seg); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// publicationDate composes Y, Y-M, or Y-M-D. A day without a month is dropped
// and no year means no date.
func publicationDate(a *rawArticle) string {
	d, ok := pubDateOf(a)
	if !ok {
		return ""
	}
	return composeDate(d.Year.value(), d.Month.value(), d.Day.value())
}

func composeDate(year, month, day string) string {
	year, month, day = strings.TrimSpace(year), strings.TrimSpace(month), strings.TrimSpace(day)
	switch {
	case year == "":
		return ""
	case month == "":
		return year
	case day == "":
		return year + "-" + month
	}
	return year + "-" + month + "-" + day
}
