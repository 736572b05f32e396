// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/pubmed-digest/internal/httputil"
	"github.com/pdiddy/pubmed-digest/pkg/types"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 1000
)

// summaryPromptTmpl is the instruction sent with every abstract. The word
// limit is a hint to the model; replies are not truncated locally.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Summarize the following scientific abstract in 100 words or fewer. Write plain prose for a researcher who wants to decide whether to read the full paper: state the question, the approach, and the main finding. Do not add a heading or any text besides the summary.

Abstract:
{{.Abstract}}
`))

// claudeAPIURL is the Claude Messages endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend completes summary prompts with the Claude Messages API.
type ClaudeBackend struct {
	APIKey     string
	Model      string
	MaxTokens  int
	MaxRetries int
	Client     *http.Client
	Log        io.Writer
}

// NewClaudeBackend builds a backend from cfg, filling defaults.
func NewClaudeBackend(cfg types.SummarizerConfig, w io.Writer) *ClaudeBackend {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &ClaudeBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		MaxTokens:  cfg.MaxTokens,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{Timeout: timeout},
		Log:        w,
	}
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends prompt as a single user message and returns the first text
// block. A non-200 reply is reported as *StatusError.
func (c *ClaudeBackend) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	bodyBytes, err := json.Marshal(claudeRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.Log)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}

// StatusError is a non-success HTTP reply from the summarization API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Claude API returned %d: %s", e.StatusCode, e.Body)
}

// renderPrompt executes the summary prompt template with the given abstract.
func renderPrompt(abstract string) (string, error) {
	var buf bytes.Buffer
	if err := summaryPromptTmpl.Execute(&buf, struct{ Abstract string }{Abstract: abstract}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
