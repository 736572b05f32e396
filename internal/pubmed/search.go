// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// esearchResponse captures the fields we need from esearch.fcgi?retmode=json.
type esearchResponse struct {
	Result struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search returns up to maxResults PMIDs matching term whose publication date
// falls in the trailing window. Identifiers keep the source order.
//
// A non-200 response is logged and yields an empty result with a nil error.
// Transport and decoding failures are returned to the caller.
func (c *Client) Search(ctx context.Context, term string, maxResults int) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	params := url.Values{
		"term":     {term},
		"retmode":  {"json"},
		"retmax":   {strconv.Itoa(maxResults)},
		"reldate":  {strconv.Itoa(c.cfg.WindowDays)},
		"datetype": {"pdat"},
	}

	resp, err := c.get(ctx, "esearch.fcgi", params)
	if err != nil {
		return nil, fmt.Errorf("PubMed search %q: %w", term, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		fmt.Fprintf(c.log, "warning: PubMed search for %q returned HTTP %d\n", term, resp.StatusCode)
		return nil, nil
	}

	var er esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing PubMed search response for %q: %w", term, err)
	}

	ids := make([]string, 0, len(er.Result.IDList))
	for _, id := range er.Result.IDList {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}
