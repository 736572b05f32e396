// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-digest/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Inspect and export recorded articles",
	Long: `Results reads the append-only log of recorded articles. Use list for a
table view or export to write YAML or JSON to stdout.`,
}

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := resultFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.ListResults(context.Background(), filter)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No results recorded.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-50s  %-20s  %s\n",
			"PMID", "Date", "Title", "Term", "Recorded")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
		for _, r := range records {
			fmt.Fprintf(os.Stdout, "%-10s  %-10s  %-50s  %-20s  %s\n",
				r.ID, r.PublicationDate, truncate(r.Title, 50), truncate(r.SearchTerm, 20), r.RecordedAt.Format("2006-01-02"))
		}
		fmt.Fprintf(os.Stdout, "\n%d results\n", len(records))
		return nil
	},
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded articles as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		filter, err := resultFilterFromFlags(cmd)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		switch format {
		case "yaml", "":
			return st.ExportYAML(context.Background(), os.Stdout, filter)
		case "json":
			return st.ExportJSON(context.Background(), os.Stdout, filter)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
	},
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func resultFilterFromFlags(cmd *cobra.Command) (store.ResultFilter, error) {
	term, _ := cmd.Flags().GetString("term")
	since, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("limit")

	f := store.ResultFilter{Term: term, Limit: limit}
	if since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return f, fmt.Errorf("invalid --since %q: use YYYY-MM-DD", since)
		}
		f.Since = t
	}
	return f, nil
}

func init() {
	resultsCmd.PersistentFlags().String("term", "", "only results recorded for this search term")
	resultsCmd.PersistentFlags().String("since", "", "only results recorded on or after this date (YYYY-MM-DD)")
	resultsCmd.PersistentFlags().Int("limit", 0, "maximum rows (0 = all)")

	resultsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsExportCmd)

	rootCmd.AddCommand(resultsCmd)
}
