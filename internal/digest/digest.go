// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest drives one literature-watch pass: for each stored search term
// it searches, fetches, summarizes, records new articles, and notifies.
package digest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-digest/internal/notify"
	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// Configuration failures reported before any network call.
var (
	ErrNoSearchTerms = errors.New("no search terms configured; add one with 'pubmed-digest terms add'")
	ErrNoAPIKey      = errors.New("no summarization API key configured; set summarization_api_key or .secrets/anthropic-api-key")
	ErrNoRecipient   = errors.New("no notification email configured; set the email setting")
)

// DefaultTermDelay is the pause between consecutive terms.
const DefaultTermDelay = time.Second

// Searcher returns identifiers matching a term.
type Searcher interface {
	Search(ctx context.Context, term string, maxResults int) ([]string, error)
}

// Fetcher returns normalized articles for a batch of identifiers.
type Fetcher interface {
	FetchDetails(ctx context.Context, ids []string) []types.Article
}

// Summarizer produces a displayable summary; it never fails.
type Summarizer interface {
	Summarize(ctx context.Context, abstract string) string
}

// Recorder appends an article unless its identifier is already recorded.
type Recorder interface {
	RecordIfNew(ctx context.Context, a types.Article, term, summary string) (bool, error)
}

// Runner wires the pipeline stages together.
type Runner struct {
	Search    Searcher
	Fetch     Fetcher
	Summarize Summarizer
	Record    Recorder
	Notify    notify.Notifier

	// Log receives progress and warning lines. Nil discards them.
	Log io.Writer
}

// TermOutcome is the result of processing one search term.
type TermOutcome struct {
	Term        string
	NewArticles []types.Article
	Skipped     bool
	Err         error
}

// Validate checks the preconditions of a run.
func Validate(cfg types.RunConfig) error {
	if len(cfg.Terms) == 0 {
		return ErrNoSearchTerms
	}
	if strings.TrimSpace(cfg.Summarizer.APIKey) == "" {
		return ErrNoAPIKey
	}
	if strings.TrimSpace(cfg.Recipient) == "" {
		return ErrNoRecipient
	}
	return nil
}

// Run executes one pass over cfg.Terms in order. A failing term, including
// one whose stage panics, is logged and does not stop the others; only a
// configuration failure or cancellation of ctx ends the run early. The full
// cfg.TermDelay elapses between the end of one term and the start of the next.
func (r *Runner) Run(ctx context.Context, cfg types.RunConfig) types.RunResult {
	log := r.Log
	if log == nil {
		log = io.Discard
	}

	if err := Validate(cfg); err != nil {
		return types.RunResult{Success: false, Message: err.Error()}
	}

	var outcomes []TermOutcome
	processed := 0
	for i, t := range cfg.Terms {
		term := strings.TrimSpace(t.Term)
		if term == "" {
			fmt.Fprintf(log, "skipping blank search term at position %d\n", i+1)
			continue
		}
		if processed > 0 {
			if err := pause(ctx, cfg.TermDelay); err != nil {
				return r.result(outcomes, fmt.Errorf("run interrupted before %q: %w", term, err))
			}
		}
		if err := ctx.Err(); err != nil {
			return r.result(outcomes, fmt.Errorf("run interrupted before %q: %w", term, err))
		}
		processed++

		out := r.safeProcessTerm(ctx, log, cfg, types.SearchTerm{Term: term, MaxResults: t.MaxResults})
		if out.Err != nil {
			fmt.Fprintf(log, "warning: term %q failed: %v\n", out.Term, out.Err)
		}
		outcomes = append(outcomes, out)
	}

	return r.result(outcomes, nil)
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// safeProcessTerm turns a panic in any stage into a failed outcome for the term.
func (r *Runner) safeProcessTerm(ctx context.Context, log io.Writer, cfg types.RunConfig, t types.SearchTerm) (out TermOutcome) {
	defer func() {
		if p := recover(); p != nil {
			out = TermOutcome{Term: t.Term, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return r.processTerm(ctx, log, cfg, t)
}

func (r *Runner) processTerm(ctx context.Context, log io.Writer, cfg types.RunConfig, t types.SearchTerm) TermOutcome {
	out := TermOutcome{Term: t.Term}

	ids, err := r.Search.Search(ctx, t.Term, cfg.MaxResultsFor(t))
	if err != nil {
		out.Err = fmt.Errorf("searching: %w", err)
		return out
	}
	if len(ids) == 0 {
		fmt.Fprintf(log, "%q: no new publications\n", t.Term)
		out.Skipped = true
		return out
	}

	articles := r.Fetch.FetchDetails(ctx, ids)
	fmt.Fprintf(log, "%q: %d identifier(s), %d article(s) fetched\n", t.Term, len(ids), len(articles))

	var fresh []types.Article
	for _, a := range articles {
		summary := r.Summarize.Summarize(ctx, a.Abstract)
		recorded, err := r.Record.RecordIfNew(ctx, a, t.Term, summary)
		if err != nil {
			out.Err = fmt.Errorf("recording %s: %w", a.ID, err)
			return out
		}
		if recorded {
			fresh = append(fresh, a.WithSummary(summary))
		}
	}

	if len(fresh) > 0 {
		if err := r.Notify.Notify(ctx, t.Term, fresh); err != nil {
			out.Err = fmt.Errorf("notifying: %w", err)
			return out
		}
	}
	fmt.Fprintf(log, "%q: %d new article(s)\n", t.Term, len(fresh))
	out.NewArticles = fresh
	return out
}

// result aggregates term outcomes. Failed terms contribute no count.
func (r *Runner) result(outcomes []TermOutcome, interrupted error) types.RunResult {
	res := types.RunResult{Success: interrupted == nil}
	for _, o := range outcomes {
		if o.Err != nil {
			res.FailedTerms = append(res.FailedTerms, o.Term)
			continue
		}
		res.NewArticleCount += len(o.NewArticles)
	}

	msg := fmt.Sprintf("Found %d new article(s) across %d term(s).", res.NewArticleCount, len(outcomes))
	if len(res.FailedTerms) > 0 {
		msg += fmt.Sprintf(" %d term(s) failed: %s.", len(res.FailedTerms), strings.Join(res.FailedTerms, ", "))
	}
	if interrupted != nil {
		msg += " " + interrupted.Error()
	}
	res.Message = msg
	return res
}
