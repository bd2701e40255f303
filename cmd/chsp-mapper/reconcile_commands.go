package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/config"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers/shiftcare"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/report"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/store"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run transaction reconciliation against the client registry",
	}

	reconcileCmd.AddCommand(newReconcileBankCommand(ctx))
	reconcileCmd.AddCommand(newReconcileStripeCommand(ctx))
	reconcileCmd.AddCommand(newReconcileReceiptsCommand(ctx))
	reconcileCmd.AddCommand(newReconcileShiftCareCommand(ctx))
	reconcileCmd.AddCommand(newReconcileAllCommand(ctx))

	return reconcileCmd
}

// runImporter drives one importer through the shared workflow, persists
// the run, writes the JSON report, and renders the summary.
func runImporter(cmd *cobra.Command, ctx *commandContext, imp importers.Importer) (report.Summary, error) {
	matcher, err := ctx.newMatcher()
	if err != nil {
		return report.Summary{}, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return report.Summary{}, err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return report.Summary{}, err
	}

	var summary report.Summary
	err = ctx.withRunLock(func() error {
		var runErr error
		summary, runErr = importers.Reconcile(cmd.Context(), imp, matcher, logger)
		if runErr != nil {
			return runErr
		}
		return ctx.withStore(func(st *store.Store) error {
			return st.SaveRun(cmd.Context(), summary)
		})
	})
	if err != nil {
		return report.Summary{}, err
	}

	reportPath, err := summary.WriteJSON(cfg.Paths.ReportsDir)
	if err != nil {
		return report.Summary{}, err
	}

	out := cmd.OutOrStdout()
	renderSummary(out, summary)
	fmt.Fprintf(out, "Report written to %s\n", reportPath)
	return summary, nil
}

func sourceFromFlagOrConfig(flagValue, configValue, name string) (string, error) {
	if path := strings.TrimSpace(flagValue); path != "" {
		return config.ExpandPath(path)
	}
	if configValue != "" {
		return configValue, nil
	}
	return "", fmt.Errorf("no %s source configured; pass --file or set it in the config", name)
}

func newReconcileBankCommand(ctx *commandContext) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Reconcile a bank statement CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := sourceFromFlagOrConfig(file, cfg.Data.BankCSV, "bank statement")
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			_, err = runImporter(cmd, ctx, importers.NewBankImporter(path, logger))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Bank statement CSV path")
	return cmd
}

func newReconcileStripeCommand(ctx *commandContext) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "stripe",
		Short: "Reconcile a Stripe payments CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := sourceFromFlagOrConfig(file, cfg.Data.StripeCSV, "stripe")
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			_, err = runImporter(cmd, ctx, importers.NewStripeImporter(path, logger))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Stripe CSV path")
	return cmd
}

func newReconcileReceiptsCommand(ctx *commandContext) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Reconcile a paper receipts CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := sourceFromFlagOrConfig(file, cfg.Data.PaperReceiptsCSV, "paper receipts")
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			_, err = runImporter(cmd, ctx, importers.NewReceiptImporter(path, logger))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Paper receipts CSV path")
	return cmd
}

func newReconcileShiftCareCommand(ctx *commandContext) *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "shiftcare",
		Short: "Reconcile paid invoices from the ShiftCare API",
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := newShiftCareImporter(ctx, account)
			if err != nil {
				return err
			}
			_, err = runImporter(cmd, ctx, imp)
			return err
		},
	}
	cmd.Flags().StringVarP(&account, "account", "a", "da", "ShiftCare account name (credentials come from SHIFTCARE_<ACCOUNT>_* env vars)")
	return cmd
}

func newShiftCareImporter(ctx *commandContext, account string) (*importers.ShiftCareImporter, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}

	creds, err := shiftcare.CredentialsFromEnv(account)
	if err != nil {
		return nil, err
	}
	client, err := shiftcare.New(cfg.ShiftCare.BaseURL, creds,
		shiftcare.WithPageSize(cfg.ShiftCare.PageSize),
		shiftcare.WithTimeout(time.Duration(cfg.ShiftCare.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, err
	}
	rateLimit := time.Duration(cfg.ShiftCare.RateLimitSeconds) * time.Second
	return importers.NewShiftCareImporter(client, account, cfg.ShiftCare.BaseURL, rateLimit, logger), nil
}

// newReconcileAllCommand walks every configured file source in sequence.
// Sources that are not configured are skipped; a failing source stops the
// walk so partial results are never mistaken for a full run.
func newReconcileAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Reconcile every configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			sources := []struct {
				name string
				path string
				make func(string) importers.Importer
			}{
				{"bank", cfg.Data.BankCSV, func(p string) importers.Importer { return importers.NewBankImporter(p, logger) }},
				{"stripe", cfg.Data.StripeCSV, func(p string) importers.Importer { return importers.NewStripeImporter(p, logger) }},
				{"receipts", cfg.Data.PaperReceiptsCSV, func(p string) importers.Importer { return importers.NewReceiptImporter(p, logger) }},
			}

			ran := 0
			out := cmd.OutOrStdout()
			for _, source := range sources {
				if source.path == "" {
					fmt.Fprintf(out, "Skipping %s: no source configured\n", source.name)
					continue
				}
				if _, err := runImporter(cmd, ctx, source.make(source.path)); err != nil {
					return fmt.Errorf("reconcile %s: %w", source.name, err)
				}
				ran++
			}

			if ran == 0 {
				return errors.New("no sources configured; set data paths in the config file")
			}
			fmt.Fprintf(out, "Completed %d reconciliation runs\n", ran)
			return nil
		},
	}
}
