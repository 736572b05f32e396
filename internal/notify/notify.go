// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify formats per-term digests of new articles and delivers them.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// Notifier delivers one term's batch of new articles. Implementations do
// nothing for an empty batch.
type Notifier interface {
	Notify(ctx context.Context, term string, articles []types.Article) error
}

const digestText = `{{len .Articles}} new PubMed article{{if ne (len .Articles) 1}}s{{end}} for "{{.Term}}"
{{range $i, $a := .Articles}}
{{inc $i}}. {{or $a.Title "(untitled)"}}
   Author: {{or $a.FirstAuthor "unknown"}}
   Published: {{or $a.PublicationDate "unknown"}}
   Link: {{$a.URL}}

   {{$a.Summary}}
{{end}}`

var digestTmpl = template.Must(template.New("digest").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(digestText))

// Subject returns the message subject for a term's digest.
func Subject(term string, n int) string {
	return fmt.Sprintf("[pubmed-digest] %d new article(s) for %q", n, term)
}

// FormatDigest renders the plain-text body for a term's batch.
func FormatDigest(term string, articles []types.Article) (string, error) {
	var buf bytes.Buffer
	err := digestTmpl.Execute(&buf, struct {
		Term     string
		Articles []types.Article
	}{term, articles})
	if err != nil {
		return "", fmt.Errorf("rendering digest for %q: %w", term, err)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// WriterNotifier prints digests to an io.Writer. Used for dry runs.
type WriterNotifier struct {
	W io.Writer
}

// Notify writes the subject and body of the digest to n.W.
func (n WriterNotifier) Notify(_ context.Context, term string, articles []types.Article) error {
	if len(articles) == 0 {
		return nil
	}
	body, err := FormatDigest(term, articles)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(n.W, "Subject: %s\n\n%s\n", Subject(term, len(articles)), body)
	return err
}
