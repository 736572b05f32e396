// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the NCBI and Anthropic clients.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// throttled responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-supplied Retry-After so one response cannot stall
// the whole run.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 3

// statusOverloaded is Anthropic's "overloaded" status.
const statusOverloaded = 529

// Retryable reports whether status signals a transient throttle: 429 from
// NCBI or Anthropic, 503, or Anthropic's 529.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, statusOverloaded:
		return true
	}
	return false
}

// DoWithRetry executes req and retries throttled responses with exponential
// backoff starting at RetryBaseDelay. A Retry-After header in seconds replaces
// the computed delay, capped at one minute.
//
// When maxRetries is 0 the default (3) is used. Each retry drains and closes
// the previous body and is announced on w. If ctx is cancelled during a wait
// the function returns ctx.Err(). After exhausting retries the last throttled
// response is returned so the caller can inspect it. Requests with a body
// must set GetBody (http.NewRequest does for bytes and strings readers).
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, w io.Writer) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if w == nil {
		w = io.Discard
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		backoff := backoffFor(resp, attempt)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(w, "warning: %s returned HTTP %d, retrying in %v (attempt %d/%d)\n",
			req.URL.Host, resp.StatusCode, backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func backoffFor(resp *http.Response, attempt int) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			d := time.Duration(secs) * time.Second
			if d > maxRetryAfter {
				d = maxRetryAfter
			}
			return d
		}
	}
	return RetryBaseDelay << attempt
}
