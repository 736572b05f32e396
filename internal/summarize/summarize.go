// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize compresses article abstracts into short summaries with a
// language-model API. Summarization never fails outward: every problem is
// reported as a displayable sentinel string.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel summaries returned in place of a model reply.
const (
	NoAbstract     = "No abstract available."
	NoAPIKey       = "Summary unavailable: no summarization API key is configured."
	APIFailure     = "Summary unavailable: the summarization service returned an error."
	CallFailure    = "Summary unavailable: an error occurred while generating the summary."
	EmptyReplyText = "Summary unavailable: the summarization service returned no text."
)

// Backend completes one prompt. *ClaudeBackend is the production implementation.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Summarizer wraps a Backend with the sentinel rules.
type Summarizer struct {
	backend Backend
	apiKey  string
	log     io.Writer
}

// New returns a Summarizer. apiKey is only checked for presence; the backend
// carries the credential it sends.
func New(backend Backend, apiKey string, w io.Writer) *Summarizer {
	if w == nil {
		w = io.Discard
	}
	return &Summarizer{backend: backend, apiKey: strings.TrimSpace(apiKey), log: w}
}

// Summarize returns the model's summary of abstract, or a sentinel. Blank
// abstracts and a missing key return early without an API call.
func (s *Summarizer) Summarize(ctx context.Context, abstract string) string {
	if strings.TrimSpace(abstract) == "" {
		return NoAbstract
	}
	if s.apiKey == "" || s.backend == nil {
		return NoAPIKey
	}

	prompt, err := renderPrompt(abstract)
	if err != nil {
		fmt.Fprintf(s.log, "warning: rendering summary prompt: %v\n", err)
		return CallFailure
	}

	summary, err := s.backend.Complete(ctx, prompt)
	if err != nil {
		fmt.Fprintf(s.log, "warning: summarization failed: %v\n", err)
		var se *StatusError
		if errors.As(err, &se) {
			return APIFailure
		}
		return CallFailure
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return EmptyReplyText
	}
	return summary
}
