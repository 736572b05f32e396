// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-digest/internal/secrets"
	"github.com/pdiddy/pubmed-digest/pkg/types"
)

func withViper(t *testing.T, kv map[string]any) {
	t.Helper()
	for k, v := range kv {
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k := range kv {
			viper.Set(k, nil)
		}
	})
}

func TestLoadRunConfig_Precedence(t *testing.T) {
	withViper(t, map[string]any{
		"db":                           filepath.Join(t.TempDir(), "digest.db"),
		types.SettingDefaultMaxResults: 30,
		"mail.host":                    "smtp.example.org",
	})
	loadedSecrets = secrets.Secrets{
		secrets.AnthropicAPIKey: "from-secrets",
		secrets.SMTPPassword:    "smtp-secret",
	}
	t.Cleanup(func() { loadedSecrets = nil })

	st, err := openStore()
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.SetSetting(ctx, types.SettingEmail, "reader@example.org"))
	require.NoError(t, st.SetSetting(ctx, types.SettingDefaultMaxResults, "5"))
	require.NoError(t, st.AddTerm(ctx, types.SearchTerm{Term: "CRISPR"}))

	cfg, err := loadRunConfig(ctx, st)
	require.NoError(t, err)

	assert.Equal(t, []types.SearchTerm{{Term: "CRISPR"}}, cfg.Terms)
	assert.Equal(t, "reader@example.org", cfg.Recipient)
	assert.Equal(t, "reader@example.org", cfg.PubMed.Email)
	assert.Equal(t, 30, cfg.DefaultMaxResults)
	assert.Equal(t, "from-secrets", cfg.Summarizer.APIKey)
	assert.Equal(t, "smtp-secret", cfg.Mail.Password)
	assert.Equal(t, "smtp.example.org", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, time.Second, cfg.TermDelay)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Summarizer.Model)
	assert.Equal(t, 7, cfg.PubMed.WindowDays)
}

func TestLoadRunConfig_StoredKeyBeatsSecret(t *testing.T) {
	withViper(t, map[string]any{"db": filepath.Join(t.TempDir(), "digest.db")})
	loadedSecrets = secrets.Secrets{secrets.AnthropicAPIKey: "from-secrets"}
	t.Cleanup(func() { loadedSecrets = nil })

	st, err := openStore()
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	require.NoError(t, st.SetSetting(ctx, types.SettingSummarizationKey, "stored"))

	cfg, err := loadRunConfig(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, "stored", cfg.Summarizer.APIKey)
}

func TestConfiguredSchedule(t *testing.T) {
	s, err := configuredSchedule()
	require.NoError(t, err)
	assert.Equal(t, types.Schedule{Weekday: time.Monday, Hour: 8}, s)

	withViper(t, map[string]any{"schedule.weekday": "fri", "schedule.hour": 25})
	_, err = configuredSchedule()
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "********cdef", mask("sk-ant-abcdef"))
	assert.Equal(t, "***", mask("abc"))
}
