// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-digest/internal/httputil"
	"github.com/pdiddy/pubmed-digest/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 0
}

type fakeBackend struct {
	calls  int
	prompt string
	reply  string
	err    error
}

func (f *fakeBackend) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func TestSummarize_BlankAbstractMakesNoCall(t *testing.T) {
	for _, abstract := range []string{"", "   ", "\n\t"} {
		b := &fakeBackend{reply: "x"}
		s := New(b, "key", nil)
		assert.Equal(t, NoAbstract, s.Summarize(context.Background(), abstract))
		assert.Zero(t, b.calls)
	}
}

func TestSummarize_MissingKeyMakesNoCall(t *testing.T) {
	b := &fakeBackend{reply: "x"}
	s := New(b, "  ", nil)
	assert.Equal(t, NoAPIKey, s.Summarize(context.Background(), "An abstract."))
	assert.Zero(t, b.calls)
}

func TestSummarize_Success(t *testing.T) {
	b := &fakeBackend{reply: "  A short summary.\n"}
	s := New(b, "key", nil)

	got := s.Summarize(context.Background(), "Gene editing in mice.")
	assert.Equal(t, "A short summary.", got)
	assert.Equal(t, 1, b.calls)
	assert.Contains(t, b.prompt, "100 words")
	assert.Contains(t, b.prompt, "Gene editing in mice.")
}

func TestSummarize_FailureSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status error", &StatusError{StatusCode: 500, Body: "boom"}, APIFailure},
		{"wrapped status error", errors.Join(errors.New("ctx"), &StatusError{StatusCode: 401}), APIFailure},
		{"transport error", errors.New("connection reset"), CallFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log bytes.Buffer
			s := New(&fakeBackend{err: tt.err}, "key", &log)
			assert.Equal(t, tt.want, s.Summarize(context.Background(), "abstract"))
			assert.Contains(t, log.String(), "warning: summarization failed")
		})
	}
}

func TestSummarize_EmptyReply(t *testing.T) {
	s := New(&fakeBackend{reply: "   "}, "key", nil)
	assert.Equal(t, EmptyReplyText, s.Summarize(context.Background(), "abstract"))
}

func withClaudeServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() { claudeAPIURL = orig })
}

func TestClaudeBackend_Complete(t *testing.T) {
	var got claudeRequest
	withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"Summary text."}]}`))
	})

	b := NewClaudeBackend(types.SummarizerConfig{APIKey: "secret"}, nil)
	text, err := b.Complete(context.Background(), "prompt body")
	require.NoError(t, err)
	assert.Equal(t, "Summary text.", text)
	assert.Equal(t, defaultModel, got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "prompt body", got.Messages[0].Content)
}

func TestClaudeBackend_StatusError(t *testing.T) {
	withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid x-api-key", http.StatusUnauthorized)
	})

	b := NewClaudeBackend(types.SummarizerConfig{APIKey: "bad", Model: "m"}, nil)
	_, err := b.Complete(context.Background(), "p")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Body, "invalid x-api-key")
}

func TestClaudeBackend_NoTextBlock(t *testing.T) {
	withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[{"type":"tool_use"}]}`))
	})

	b := NewClaudeBackend(types.SummarizerConfig{APIKey: "k"}, nil)
	_, err := b.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no text content"))
}

func TestSummarizerWithClaude_ServerErrorIsAPIFailure(t *testing.T) {
	withClaudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	cfg := types.SummarizerConfig{APIKey: "k"}
	s := New(NewClaudeBackend(cfg, nil), cfg.APIKey, nil)
	assert.Equal(t, APIFailure, s.Summarize(context.Background(), "abstract"))
}
