package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect reconciliation run history",
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsExportCommand(ctx))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx))

	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				records, err := st.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						record.RunID,
						record.Platform,
						record.RunDate.Local().Format(time.DateTime),
						formatCount(record.TotalTransactions),
						formatCount(record.MatchedTransactions),
						formatPercent(record.MatchRate()),
						formatCount(record.RequiresReview),
					})
				}
				table := renderTable(
					[]string{"Run", "Platform", "Date", "Total", "Matched", "Rate", "Review"},
					rows,
					[]int{3, 4, 5, 6},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its match results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				record, err := st.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s (%s)\n", record.RunID, record.Platform)
				fmt.Fprintf(out, "Date: %s  Elapsed: %s\n",
					record.RunDate.Local().Format(time.DateTime),
					record.ProcessingTime.Round(time.Millisecond))

				rows := [][2]string{
					{"Total transactions", formatCount(record.TotalTransactions)},
					{"Matched", formatCount(record.MatchedTransactions)},
					{"Unmatched", formatCount(record.UnmatchedTransactions)},
					{"Requires review", formatCount(record.RequiresReview)},
					{"High confidence", formatCount(record.HighConfidence)},
					{"Medium confidence", formatCount(record.MediumConfidence)},
					{"Low confidence", formatCount(record.LowConfidence)},
				}
				fmt.Fprintln(out, renderPairs("Metric", "Value", rows, true))

				results, err := st.ResultsForRun(cmd.Context(), record.RunID, !showAll)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					return nil
				}
				if showAll {
					fmt.Fprintln(out, "Results:")
				} else {
					fmt.Fprintln(out, "Results requiring review:")
				}
				colorize := shouldColorize(out)
				for _, result := range results {
					fmt.Fprintln(out, renderMatchLine(result, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "Show every result, not only those requiring review")
	return cmd
}

// newRunsExportCommand writes the unmatched rows of a run as a review CSV
// whose filled-in copy feeds the post-review command.
func newRunsExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export-unmatched <run-id>",
		Short: "Export a run's unmatched transactions as a review CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				results, err := st.ResultsForRun(cmd.Context(), args[0], false)
				if err != nil {
					return err
				}

				target := outputPath
				if target == "" {
					target = args[0] + "_review.csv"
				}
				file, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create review file: %w", err)
				}
				defer file.Close()

				writer := csv.NewWriter(file)
				// The base columns mirror the Stripe export so the filled-in
				// file feeds the post-review command unchanged.
				header := []string{"id", "Customer Email", "Amount", "Created date (UTC)", "Description",
					"Client Id", "Match Method", "Confidence", "Matched",
					"Name", "Address", "ACN", "Invoice", "Phone", "Email"}
				if err := writer.Write(header); err != nil {
					return fmt.Errorf("write review header: %w", err)
				}

				exported := 0
				for _, result := range results {
					matched := ""
					if result.IsMatched {
						matched = "Matched"
					} else {
						exported++
					}
					date := ""
					if !result.Source.Date.IsZero() {
						date = result.Source.Date.UTC().Format(time.DateOnly)
					}
					row := []string{
						result.TransactionID,
						result.Source.Email,
						result.Source.Amount.String(),
						date,
						result.Source.Description,
						result.ClientID,
						string(result.Method),
						strconv.FormatFloat(result.ConfidenceScore, 'f', 2, 64),
						matched,
						"", "", "", "", "", "",
					}
					if err := writer.Write(row); err != nil {
						return fmt.Errorf("write review row: %w", err)
					}
				}
				writer.Flush()
				if err := writer.Error(); err != nil {
					return fmt.Errorf("flush review file: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d unmatched of %d results)\n",
					target, exported, len(results))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination CSV path")
	return cmd
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a run and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.DeleteRun(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
				return nil
			})
		},
	}
}
