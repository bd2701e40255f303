package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/report"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/store"
)

func newPostReviewCommand(ctx *commandContext) *cobra.Command {
	var showResults bool

	cmd := &cobra.Command{
		Use:   "post-review <reviewed-csv>",
		Short: "Re-match unmatched transactions using reviewer-extracted PII",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			matcher, err := ctx.newMatcher()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			imp := importers.NewReviewImporter(args[0], logger)
			items, err := imp.Extract(cmd.Context())
			if err != nil {
				return fmt.Errorf("read reviewed file: %w", err)
			}

			start := time.Now()
			results := matcher.ResolvePostReview(items)

			runID := importers.NewRunID("stripe_post_review")
			summary := report.Summarize(runID, matching.PlatformStripe, imp.Source(),
				results, matcher.Options().Thresholds, time.Since(start))

			if err := ctx.withStore(func(st *store.Store) error {
				return st.SaveRun(cmd.Context(), summary)
			}); err != nil {
				return err
			}
			reportPath, err := summary.WriteJSON(cfg.Paths.ReportsDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			renderSummary(out, summary)
			if showResults {
				colorize := shouldColorize(out)
				for _, result := range results {
					fmt.Fprintln(out, renderMatchLine(result, colorize))
				}
			}
			fmt.Fprintf(out, "Report written to %s\n", reportPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showResults, "results", false, "Print the per-transaction outcome lines")
	return cmd
}
