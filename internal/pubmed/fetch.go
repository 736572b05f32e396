// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// FetchDetails retrieves the records for ids in one efetch request and returns
// the ones that normalize. An empty ids slice issues no request.
//
// Transport failures and non-200 responses are logged and yield no articles.
// Records that fail to normalize are logged and skipped.
func (c *Client) FetchDetails(ctx context.Context, ids []string) []types.Article {
	if len(ids) == 0 {
		return nil
	}

	params := url.Values{
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}

	resp, err := c.get(ctx, "efetch.fcgi", params)
	if err != nil {
		fmt.Fprintf(c.log, "warning: PubMed fetch of %d record(s) failed: %v\n", len(ids), err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		fmt.Fprintf(c.log, "warning: PubMed fetch of %d record(s) returned HTTP %d\n", len(ids), resp.StatusCode)
		return nil
	}

	records, err := DecodeRecords(resp.Body)
	if err != nil {
		fmt.Fprintf(c.log, "warning: PubMed fetch response truncated after %d record(s): %v\n", len(records), err)
	}

	articles, failures := NormalizeAll(records)
	for _, f := range failures {
		fmt.Fprintf(c.log, "warning: skipping PubMed record %d: %v\n", f.Index, f.Err)
	}
	return articles
}

// DecodeRecords streams a PubmedArticleSet document and returns one raw record
// per PubmedArticle element. Books and deleted-citation entries are ignored.
// On a syntax error the records decoded so far are returned with the error.
func DecodeRecords(r io.Reader) ([]RawRecord, error) {
	dec := xml.NewDecoder(r)
	// efetch declares a DOCTYPE and occasionally uses non-UTF-8 labels.
	dec.Strict = false
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var records []RawRecord
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("parsing PubMed XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "PubmedArticle" {
			continue
		}

		var rec RawRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return records, fmt.Errorf("parsing PubMed record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}
