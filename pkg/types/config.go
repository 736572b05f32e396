// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Setting keys recognized in the settings table.
const (
	SettingEmail             = "email"
	SettingSummarizationKey  = "summarization_api_key"
	SettingDefaultMaxResults = "default_max_results"
)

// DefaultMaxResults applies when neither the term nor the settings give a cap.
const DefaultMaxResults = 10

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the E-utilities search and fetch clients.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Tool and Email identify the caller to NCBI, as E-utilities asks.
	Tool  string `json:"tool" yaml:"tool"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// WindowDays is the trailing publication-date window (default 7).
	WindowDays int `json:"window_days" yaml:"window_days"`

	// RequestsPerSecond throttles calls to E-utilities. Zero picks the NCBI
	// limit for the configured key.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// Rate returns the effective request rate for NCBI.
func (c PubMedConfig) Rate() float64 {
	if c.RequestsPerSecond > 0 {
		return c.RequestsPerSecond
	}
	if c.APIKey != "" {
		return 10
	}
	return 3
}

// SummarizerConfig holds settings for the language-model summarizer.
type SummarizerConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the completion length (default 1000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts on rate limiting (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MailConfig describes the SMTP relay used to deliver digests.
type MailConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	From     string `json:"from" yaml:"from"`
}

// Addr returns host:port for net/smtp.
func (m MailConfig) Addr() string {
	port := m.Port
	if port == 0 {
		port = 587
	}
	return fmt.Sprintf("%s:%d", m.Host, port)
}

// Settings is the typed view of the settings table.
type Settings struct {
	Email               string `json:"email" yaml:"email"`
	SummarizationAPIKey string `json:"summarization_api_key,omitempty" yaml:"summarization_api_key,omitempty"`
	DefaultMaxResults   int    `json:"default_max_results" yaml:"default_max_results"`
}

// SettingsFromMap converts raw key/value rows into Settings. Unknown keys are
// ignored and an unparsable default_max_results is reported.
func SettingsFromMap(kv map[string]string) (Settings, error) {
	s := Settings{
		Email:               strings.TrimSpace(kv[SettingEmail]),
		SummarizationAPIKey: strings.TrimSpace(kv[SettingSummarizationKey]),
	}
	if raw := strings.TrimSpace(kv[SettingDefaultMaxResults]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return s, fmt.Errorf("setting %s: %q is not an integer", SettingDefaultMaxResults, raw)
		}
		s.DefaultMaxResults = n
	}
	return s, nil
}

// Overlay returns s with every non-zero field of o applied on top.
func (s Settings) Overlay(o Settings) Settings {
	if o.Email != "" {
		s.Email = o.Email
	}
	if o.SummarizationAPIKey != "" {
		s.SummarizationAPIKey = o.SummarizationAPIKey
	}
	if o.DefaultMaxResults > 0 {
		s.DefaultMaxResults = o.DefaultMaxResults
	}
	return s
}

// RunConfig is the immutable input of one orchestrator pass. It is assembled
// once per invocation from the store settings, config file, and secrets.
type RunConfig struct {
	// Terms are processed in order.
	Terms []SearchTerm `json:"terms" yaml:"terms"`

	// Recipient is the notification destination (an email address).
	Recipient string `json:"recipient" yaml:"recipient"`

	// DefaultMaxResults replaces a term's MaxResults when that is <= 0.
	DefaultMaxResults int `json:"default_max_results" yaml:"default_max_results"`

	// TermDelay is the pause between consecutive terms (default 1s).
	TermDelay time.Duration `json:"term_delay" yaml:"term_delay"`

	PubMed     PubMedConfig     `json:"pubmed" yaml:"pubmed"`
	Summarizer SummarizerConfig `json:"summarizer" yaml:"summarizer"`
	Mail       MailConfig       `json:"mail" yaml:"mail"`
}

// MaxResultsFor returns the cap to use for t.
func (c RunConfig) MaxResultsFor(t SearchTerm) int {
	if t.MaxResults > 0 {
		return t.MaxResults
	}
	if c.DefaultMaxResults > 0 {
		return c.DefaultMaxResults
	}
	return DefaultMaxResults
}
