// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-digest CLI.
// The run subcommand performs one literature-watch pass; the other
// subcommands manage the search terms, settings, and recorded results kept
// in the local database.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-digest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the pubmed-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-digest",
	Short: "Weekly PubMed literature watch with AI summaries",
	Long: `pubmed-digest searches PubMed for publications from the last week that
match your stored search terms, summarizes each new article's abstract with
Claude, records it in a local SQLite database, and emails one digest per term.

Articles already recorded are never summarized into a digest twice, so runs
over overlapping windows are safe. Schedule "pubmed-digest run" weekly with
cron or systemd; "pubmed-digest schedule" prints the configured slot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-digest.yaml or ~/.config/pubmed-digest/pubmed-digest.yaml)")
	rootCmd.PersistentFlags().String("db", "pubmed-digest.db", "path to the SQLite database")
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	viper.SetDefault("pubmed.window_days", 7)
	viper.SetDefault("pubmed.tool", "pubmed-digest")
	viper.SetDefault("http.timeout", 30*time.Second)
	viper.SetDefault("summarizer.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("summarizer.max_tokens", 1000)
	viper.SetDefault("summarizer.max_retries", 3)
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("run.term_delay", time.Second)
	viper.SetDefault("schedule.weekday", "Monday")
	viper.SetDefault("schedule.hour", 8)
}

func initConfig() {
	// .env is optional; values already in the environment take precedence.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-digest"))
		}
	}

	viper.SetEnvPrefix("PUBMED_DIGEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
