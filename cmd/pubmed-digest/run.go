// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubmed-digest/internal/digest"
	"github.com/pdiddy/pubmed-digest/internal/notify"
	"github.com/pdiddy/pubmed-digest/internal/pubmed"
	"github.com/pdiddy/pubmed-digest/internal/summarize"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one literature-watch pass over all search terms",
	Long: `Run searches PubMed for each stored term (publications from the last
seven days), fetches details for the matches, summarizes every abstract,
records articles not seen before, and emails one digest per term that has
new articles.

Configuration problems (no terms, no summarization API key, no email) stop
the run before any network call. A failure on one term is logged and the
remaining terms are still processed.`,
	RunE: runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, err := loadRunConfig(ctx, st)
	if err != nil {
		return err
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); cmd.Flags().Changed("delay") {
		cfg.TermDelay = delay
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Summarizer.Model = model
	}

	var notifier notify.Notifier = notify.NewSMTPMailer(cfg.Mail, cfg.Recipient)
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		notifier = notify.WriterNotifier{W: os.Stdout}
	}

	client := pubmed.NewClient(nil, cfg.PubMed, os.Stderr)
	runner := &digest.Runner{
		Search:    client,
		Fetch:     client,
		Summarize: summarize.New(summarize.NewClaudeBackend(cfg.Summarizer, os.Stderr), cfg.Summarizer.APIKey, os.Stderr),
		Record:    st,
		Notify:    notifier,
		Log:       os.Stderr,
	}

	res := runner.Run(ctx, cfg)
	fmt.Fprintln(os.Stdout, res.Message)
	if !res.Success {
		return fmt.Errorf("run failed")
	}
	return nil
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "print digests to stdout instead of sending email (articles are still recorded)")
	runCmd.Flags().Duration("delay", digest.DefaultTermDelay, "pause between search terms")
	runCmd.Flags().String("model", "", "Claude model identifier for summaries")

	rootCmd.AddCommand(runCmd)
}
