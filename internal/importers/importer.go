package importers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/report"
)

// Importer extracts normalized transactions from one platform source.
type Importer interface {
	// Platform returns the platform name stamped on every transaction.
	Platform() string
	// Source identifies the concrete input (file path or API endpoint).
	Source() string
	// Extract reads the source and returns its transactions.
	Extract(ctx context.Context) ([]matching.Transaction, error)
}

// NewRunID builds a unique, sortable run identifier for a platform.
func NewRunID(platform string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s", platform, timestamp, uuid.NewString()[:8])
}

// Reconcile runs the full workflow for one importer: extract, resolve the
// batch, and summarize. Per-row extraction problems are handled inside the
// importer; an error here means the source itself was unusable.
func Reconcile(ctx context.Context, imp Importer, matcher *matching.Matcher, logger *slog.Logger) (report.Summary, error) {
	log := logging.NewComponentLogger(logger, "reconcile")

	runID := NewRunID(imp.Platform())
	start := time.Now()

	log.Info("starting reconciliation run",
		logging.String("run_id", runID),
		logging.String("platform", imp.Platform()),
		logging.String("source", imp.Source()),
	)

	transactions, err := imp.Extract(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("extract %s transactions: %w", imp.Platform(), err)
	}
	log.Info("extracted transactions",
		logging.String("run_id", runID),
		logging.Int("count", len(transactions)),
		logging.Duration("elapsed", time.Since(start)),
	)

	results, err := matcher.ResolveBatch(ctx, transactions)
	if err != nil {
		return report.Summary{}, fmt.Errorf("resolve %s batch: %w", imp.Platform(), err)
	}

	summary := report.Summarize(runID, imp.Platform(), imp.Source(), results,
		matcher.Options().Thresholds, time.Since(start))

	log.Info("reconciliation run complete",
		logging.String("run_id", runID),
		logging.Int("total", summary.TotalTransactions),
		logging.Int("matched", summary.MatchedTransactions),
		logging.Int("unmatched", summary.UnmatchedTransactions),
		logging.Int("requires_review", summary.RequiresReview),
		logging.Duration("elapsed", summary.ProcessingTime),
	)

	return summary, nil
}
