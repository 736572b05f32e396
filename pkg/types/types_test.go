// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFromMap(t *testing.T) {
	s, err := SettingsFromMap(map[string]string{
		SettingEmail:             " reader@example.org ",
		SettingSummarizationKey:  "sk-test",
		SettingDefaultMaxResults: "25",
		"unrelated":              "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, Settings{Email: "reader@example.org", SummarizationAPIKey: "sk-test", DefaultMaxResults: 25}, s)

	_, err = SettingsFromMap(map[string]string{SettingDefaultMaxResults: "many"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), SettingDefaultMaxResults)
}

func TestSettingsOverlay(t *testing.T) {
	base := Settings{Email: "a@example.org", SummarizationAPIKey: "k1", DefaultMaxResults: 10}
	got := base.Overlay(Settings{SummarizationAPIKey: "k2"})
	assert.Equal(t, Settings{Email: "a@example.org", SummarizationAPIKey: "k2", DefaultMaxResults: 10}, got)
}

func TestMaxResultsFor(t *testing.T) {
	tests := []struct {
		name string
		cfg  RunConfig
		term SearchTerm
		want int
	}{
		{"term wins", RunConfig{DefaultMaxResults: 20}, SearchTerm{Term: "x", MaxResults: 5}, 5},
		{"settings default", RunConfig{DefaultMaxResults: 20}, SearchTerm{Term: "x"}, 20},
		{"built-in default", RunConfig{}, SearchTerm{Term: "x", MaxResults: -1}, DefaultMaxResults},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.MaxResultsFor(tt.term))
		})
	}
}

func TestPubMedRate(t *testing.T) {
	assert.Equal(t, 3.0, PubMedConfig{}.Rate())
	assert.Equal(t, 10.0, PubMedConfig{APIKey: "k"}.Rate())
	assert.Equal(t, 1.5, PubMedConfig{RequestsPerSecond: 1.5}.Rate())
}

func TestParseWeekday(t *testing.T) {
	for _, in := range []string{"Monday", "mon", " MONDAY "} {
		d, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, time.Monday, d)
	}
	_, err := ParseWeekday("someday")
	assert.Error(t, err)
}

func TestScheduleNext(t *testing.T) {
	s := Schedule{Weekday: time.Monday, Hour: 8}
	// 2026-10-14 is a Wednesday.
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC), s.Next(now))

	// Exactly at the trigger moves a full week ahead.
	at := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.October, 26, 8, 0, 0, 0, time.UTC), s.Next(at))

	// Same day, earlier hour.
	early := time.Date(2026, time.October, 19, 6, 30, 0, 0, time.UTC)
	assert.Equal(t, at, s.Next(early))

	assert.Equal(t, "every Monday at 08:00", s.String())
	assert.Error(t, Schedule{Hour: 24}.Validate())
}

func TestArticleURL(t *testing.T) {
	a := Article{ID: "12345678"}
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/12345678/", a.URL())
	assert.Equal(t, "s", a.WithSummary("s").Summary)
	assert.Empty(t, a.Summary)
}
