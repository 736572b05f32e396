// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

// knownSettings lists the keys run reads from the settings table.
var knownSettings = []string{
	types.SettingEmail,
	types.SettingSummarizationKey,
	types.SettingDefaultMaxResults,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and edit stored settings",
	Long: `Settings reads and writes the key/value settings stored in the database.
Recognized keys:

  email                  digest recipient
  summarization_api_key  Anthropic API key (or .secrets/anthropic-api-key)
  default_max_results    identifiers per search when a term sets none

Values from the config file or PUBMED_DIGEST_* environment variables take
precedence over stored values when run assembles its configuration.`,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
		if !isKnownSetting(key) {
			return fmt.Errorf("unknown setting %q: use one of %s", key, strings.Join(knownSettings, ", "))
		}
		if key == types.SettingDefaultMaxResults {
			if n, err := strconv.Atoi(value); err != nil || n <= 0 {
				return fmt.Errorf("%s must be a positive integer, got %q", key, value)
			}
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SetSetting(context.Background(), key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s\n", key)
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		value, ok, err := st.Setting(context.Background(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("setting %q is not set", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored settings (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		kv, err := st.SettingsMap(context.Background())
		if err != nil {
			return err
		}
		if len(kv) == 0 {
			fmt.Println("No settings stored.")
			return nil
		}

		keys := make([]string, 0, len(kv))
		for k := range kv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := kv[k]
			if k == types.SettingSummarizationKey {
				v = mask(v)
			}
			fmt.Fprintf(os.Stdout, "%-22s  %s\n", k, v)
		}
		return nil
	},
}

func isKnownSetting(key string) bool {
	for _, k := range knownSettings {
		if k == key {
			return true
		}
	}
	return false
}

// mask keeps the last four characters of a credential.
func mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", 8) + v[len(v)-4:]
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsListCmd)

	rootCmd.AddCommand(settingsCmd)
}
