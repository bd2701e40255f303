package importers

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
)

// reviewedMarker is the cell value reviewers leave in the Matched column
// for rows the original run already resolved.
const reviewedMarker = "Matched"

// ReviewImporter reads reviewed spreadsheets: the unmatched export of a
// Stripe run after a human has filled in the extracted PII columns.
type ReviewImporter struct {
	path   string
	logger *slog.Logger
}

// NewReviewImporter builds an importer for a reviewed CSV file.
func NewReviewImporter(path string, logger *slog.Logger) *ReviewImporter {
	return &ReviewImporter{
		path:   path,
		logger: logging.NewComponentLogger(logger, "review_importer"),
	}
}

// Source returns the reviewed file path.
func (r *ReviewImporter) Source() string { return r.path }

// Extract parses reviewed rows into transactions annotated with the
// reviewer's PII columns. The base transaction columns mirror the Stripe
// export the review sheet was generated from.
func (r *ReviewImporter) Extract(ctx context.Context) ([]matching.ReviewedTransaction, error) {
	table, err := readCSVFile(r.path, []string{"id", "Customer Email", "Amount", "Created date (UTC)", "Description"})
	if err != nil {
		return nil, err
	}

	items := make([]matching.ReviewedTransaction, 0, len(table.rows))
	for i, row := range table.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := table.field(row, "id")

		// Blank date or amount cells must not drop a row that carries
		// usable PII; only unparsable values skip.
		var date time.Time
		if raw := table.field(row, "Created date (UTC)"); raw != "" {
			parsed, err := parseStripeDate(raw)
			if err != nil {
				r.logger.Warn("skipping reviewed row",
					logging.Int("row", i+1), logging.String("id", id), logging.Error(err))
				continue
			}
			date = parsed
		}
		var amount decimal.Decimal
		if raw := table.field(row, "Amount"); raw != "" {
			parsed, err := parseAmount(raw)
			if err != nil {
				r.logger.Warn("skipping reviewed row",
					logging.Int("row", i+1), logging.String("id", id), logging.Error(err))
				continue
			}
			amount = parsed
		}

		items = append(items, matching.ReviewedTransaction{
			Transaction: matching.Transaction{
				ID:          id,
				Date:        date,
				Amount:      amount,
				Description: table.field(row, "Description"),
				Email:       table.field(row, "Customer Email"),
				Platform:    matching.PlatformStripe,
			},
			PII: matching.PIIFields{
				Name:    table.field(row, "Name"),
				Address: table.field(row, "Address"),
				ACN:     table.field(row, "ACN"),
				Invoice: table.field(row, "Invoice"),
				Phone:   table.field(row, "Phone"),
				Email:   table.field(row, "Email"),
			},
			PreviouslyMatched: table.field(row, "Matched") == reviewedMarker,
			ExistingClientID:  table.field(row, "Client Id"),
		})
	}

	return items, nil
}
