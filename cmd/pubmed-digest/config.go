// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-digest/internal/secrets"
	"github.com/pdiddy/pubmed-digest/internal/store"
	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// openStore opens the database named by --db or the db config key.
func openStore() (*store.Store, error) {
	path := viper.GetString("db")
	if path == "" {
		path = "pubmed-digest.db"
	}
	return store.Open(path)
}

// configSettings returns the settings given by the config file or
// environment, which override the settings table.
func configSettings() types.Settings {
	return types.Settings{
		Email:               strings.TrimSpace(viper.GetString(types.SettingEmail)),
		SummarizationAPIKey: strings.TrimSpace(viper.GetString(types.SettingSummarizationKey)),
		DefaultMaxResults:   viper.GetInt(types.SettingDefaultMaxResults),
	}
}

// loadRunConfig assembles the immutable configuration of one run from the
// store, viper, and the loaded secrets.
func loadRunConfig(ctx context.Context, st *store.Store) (types.RunConfig, error) {
	stored, err := st.Settings(ctx)
	if err != nil {
		return types.RunConfig{}, fmt.Errorf("loading settings: %w", err)
	}
	settings := stored.Overlay(configSettings())
	settings.SummarizationAPIKey = loadedSecrets.Or(secrets.AnthropicAPIKey, settings.SummarizationAPIKey)

	terms, err := st.Terms(ctx)
	if err != nil {
		return types.RunConfig{}, fmt.Errorf("loading search terms: %w", err)
	}

	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: "pubmed-digest/" + version,
	}

	contact := viper.GetString("pubmed.email")
	if contact == "" {
		contact = settings.Email
	}

	return types.RunConfig{
		Terms:             terms,
		Recipient:         settings.Email,
		DefaultMaxResults: settings.DefaultMaxResults,
		TermDelay:         viper.GetDuration("run.term_delay"),
		PubMed: types.PubMedConfig{
			HTTPConfig:        httpCfg,
			Tool:              viper.GetString("pubmed.tool"),
			Email:             contact,
			APIKey:            loadedSecrets.Or(secrets.NCBIAPIKey, viper.GetString("pubmed.api_key")),
			WindowDays:        viper.GetInt("pubmed.window_days"),
			RequestsPerSecond: viper.GetFloat64("pubmed.requests_per_second"),
		},
		Summarizer: types.SummarizerConfig{
			HTTPConfig: httpCfg,
			Model:      viper.GetString("summarizer.model"),
			APIKey:     settings.SummarizationAPIKey,
			MaxTokens:  viper.GetInt("summarizer.max_tokens"),
			MaxRetries: viper.GetInt("summarizer.max_retries"),
		},
		Mail: types.MailConfig{
			Host:     viper.GetString("mail.host"),
			Port:     viper.GetInt("mail.port"),
			Username: viper.GetString("mail.username"),
			Password: loadedSecrets.Or(secrets.SMTPPassword, viper.GetString("mail.password")),
			From:     viper.GetString("mail.from"),
		},
	}, nil
}

// configuredSchedule reads the weekly trigger slot.
func configuredSchedule() (types.Schedule, error) {
	day, err := types.ParseWeekday(viper.GetString("schedule.weekday"))
	if err != nil {
		return types.Schedule{}, err
	}
	s := types.Schedule{Weekday: day, Hour: viper.GetInt("schedule.hour")}
	if err := s.Validate(); err != nil {
		return types.Schedule{}, err
	}
	return s, nil
}
