// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-digest/pkg/types"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Manage the stored search terms",
	Long: `Terms lists, adds, and removes the PubMed queries processed by run.
Terms are processed in the order they were added. A term with max results 0
uses the default_max_results setting.`,
}

var termsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List search terms in processing order",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		terms, err := st.Terms(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if terms == nil {
				terms = []types.SearchTerm{}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(terms)
		}

		if len(terms) == 0 {
			fmt.Println("No search terms. Add one with: pubmed-digest terms add <query>")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-4s  %-11s  %s\n", "#", "Max results", "Term")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
		for i, t := range terms {
			limit := "default"
			if t.MaxResults > 0 {
				limit = fmt.Sprint(t.MaxResults)
			}
			fmt.Fprintf(os.Stdout, "%-4d  %-11s  %s\n", i+1, limit, t.Term)
		}
		return nil
	},
}

var termsAddCmd = &cobra.Command{
	Use:   "add <query...>",
	Short: "Append a search term",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxResults, _ := cmd.Flags().GetInt("max-results")
		term := types.SearchTerm{Term: strings.Join(args, " "), MaxResults: maxResults}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.AddTerm(context.Background(), term); err != nil {
			return err
		}
		fmt.Printf("Added search term %q\n", strings.TrimSpace(term.Term))
		return nil
	},
}

var termsRemoveCmd = &cobra.Command{
	Use:   "remove <query...>",
	Short: "Remove a search term",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.Join(args, " ")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.RemoveTerm(context.Background(), term); err != nil {
			return err
		}
		fmt.Printf("Removed search term %q\n", strings.TrimSpace(term))
		return nil
	},
}

func init() {
	termsListCmd.Flags().Bool("json", false, "output terms as JSON")
	termsAddCmd.Flags().Int("max-results", 0, "maximum identifiers per search (0 = default_max_results)")

	termsCmd.AddCommand(termsListCmd)
	termsCmd.AddCommand(termsAddCmd)
	termsCmd.AddCommand(termsRemoveCmd)

	rootCmd.AddCommand(termsCmd)
}
