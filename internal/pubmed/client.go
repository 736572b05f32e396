// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries NCBI E-utilities for new PubMed records and normalizes
// the returned XML into flat articles.
package pubmed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pubmed-digest/internal/httputil"
	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// eutilsBase is the E-utilities root. Declared as a var so tests can
// substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const (
	defaultWindowDays = 7
	defaultTool       = "pubmed-digest"
)

// Client issues esearch and efetch requests. Calls are throttled to the NCBI
// rate limit and retried on HTTP 429.
type Client struct {
	http    *http.Client
	cfg     types.PubMedConfig
	limiter *rate.Limiter
	log     io.Writer
}

// NewClient builds a client. A nil httpClient gets one with cfg.Timeout, and a
// nil w discards warnings.
func NewClient(httpClient *http.Client, cfg types.PubMedConfig, w io.Writer) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = defaultWindowDays
	}
	if cfg.Tool == "" {
		cfg.Tool = defaultTool
	}
	if w == nil {
		w = io.Discard
	}
	return &Client{
		http:    httpClient,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate()), 1),
		log:     w,
	}
}

// get performs one throttled GET against an E-utilities endpoint. The caller
// owns the response body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("db", "pubmed")
	params.Set("tool", c.cfg.Tool)
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, eutilsBase+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	return httputil.DoWithRetry(ctx, c.http, req, 0, c.log)
}
