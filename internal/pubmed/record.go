// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"strings"
)

// RawRecord is one PubmedArticle element as returned by efetch. Every
// container is a pointer because any of them may be absent; traversal goes
// through the accessor steps in normalize.go, never through chained fields.
type RawRecord struct {
	Citation *rawCitation `xml:"MedlineCitation"`
}

type rawCitation struct {
	PMID    *text       `xml:"PMID"`
	Article *rawArticle `xml:"Article"`
}

type rawArticle struct {
	Journal    *rawJournal    `xml:"Journal"`
	Title      *text          `xml:"ArticleTitle"`
	Abstract   *rawAbstract   `xml:"Abstract"`
	AuthorList *rawAuthorList `xml:"AuthorList"`
}

type rawJournal struct {
	Issue *rawJournalIssue `xml:"JournalIssue"`
}

type rawJournalIssue struct {
	PubDate *rawPubDate `xml:"PubDate"`
}

// rawPubDate holds the structured date parts. Records that only carry a
// free-form MedlineDate have no Year and produce an empty date.
type rawPubDate struct {
	Year  *text `xml:"Year"`
	Month *text `xml:"Month"`
	Day   *text `xml:"Day"`
}

// rawAbstract holds one or more AbstractText segments; structured abstracts
// label each segment (BACKGROUND, METHODS, ...).
type rawAbstract struct {
	Segments []text `xml:"AbstractText"`
}

type rawAuthorList struct {
	Authors []rawAuthor `xml:"Author"`
}

type rawAuthor struct {
	LastName       *text `xml:"LastName"`
	ForeName       *text `xml:"ForeName"`
	CollectiveName *text `xml:"CollectiveName"`
}

// text is the character data of an element and all its descendants, with
// inline markup (<i>, <sup>, ...) dropped and whitespace runs collapsed.
type text string

// UnmarshalXML implements xml.Unmarshaler.
func (t *text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			b.Write(v)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				*t = text(strings.Join(strings.Fields(b.String()), " "))
				return nil
			}
			depth--
		}
	}
}

// value returns the text of an optional element, or "" when it is absent.
func (t *text) value() string {
	if t == nil {
		return ""
	}
	return string(*t)
}
