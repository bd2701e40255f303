package importers

import (
	"context"
	"log/slog"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
)

// StripeImporter reads Stripe payment CSV exports.
type StripeImporter struct {
	path   string
	logger *slog.Logger
}

// NewStripeImporter builds an importer for a Stripe CSV export.
func NewStripeImporter(path string, logger *slog.Logger) *StripeImporter {
	return &StripeImporter{
		path:   path,
		logger: logging.NewComponentLogger(logger, "stripe_importer"),
	}
}

// Platform identifies Stripe transactions.
func (s *StripeImporter) Platform() string { return matching.PlatformStripe }

// Source returns the export file path.
func (s *StripeImporter) Source() string { return s.path }

// Extract parses the export rows. Stripe amounts are already in dollars.
func (s *StripeImporter) Extract(ctx context.Context) ([]matching.Transaction, error) {
	table, err := readCSVFile(s.path, []string{"id", "Customer Email", "Amount", "Created date (UTC)", "Description"})
	if err != nil {
		return nil, err
	}

	transactions := make([]matching.Transaction, 0, len(table.rows))
	for i, row := range table.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := table.field(row, "id")
		date, err := parseStripeDate(table.field(row, "Created date (UTC)"))
		if err != nil {
			s.logger.Warn("skipping stripe row",
				logging.Int("row", i+1), logging.String("id", id), logging.Error(err))
			continue
		}
		amount, err := parseAmount(table.field(row, "Amount"))
		if err != nil {
			s.logger.Warn("skipping stripe row",
				logging.Int("row", i+1), logging.String("id", id), logging.Error(err))
			continue
		}

		currency := table.field(row, "Currency")
		if currency == "" {
			currency = "aud"
		}

		transactions = append(transactions, matching.Transaction{
			ID:          id,
			Date:        date,
			Amount:      amount,
			Description: table.field(row, "Description"),
			Email:       table.field(row, "Customer Email"),
			Platform:    matching.PlatformStripe,
			Metadata: map[string]string{
				"customer_id": table.field(row, "Customer ID"),
				"status":      table.field(row, "Status"),
				"currency":    currency,
				"invoice_id":  table.field(row, "Invoice ID"),
			},
		})
	}

	return transactions, nil
}
