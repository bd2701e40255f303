package importers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
)

// ReceiptImporter reads hand-keyed paper receipt spreadsheets. The client
// name and suburb columns flow into transaction metadata so the matcher
// can run its manual-entry strategy.
type ReceiptImporter struct {
	path   string
	logger *slog.Logger
}

// NewReceiptImporter builds an importer for a paper receipt CSV file.
func NewReceiptImporter(path string, logger *slog.Logger) *ReceiptImporter {
	return &ReceiptImporter{
		path:   path,
		logger: logging.NewComponentLogger(logger, "receipt_importer"),
	}
}

// Platform identifies paper receipt transactions.
func (r *ReceiptImporter) Platform() string { return matching.PlatformPaperReceipt }

// Source returns the receipt file path.
func (r *ReceiptImporter) Source() string { return r.path }

// Extract parses the receipt rows. Rows without a date are treated as
// ledger padding and skipped silently; other malformed rows are logged.
func (r *ReceiptImporter) Extract(ctx context.Context) ([]matching.Transaction, error) {
	table, err := readCSVFile(r.path, []string{"Name", "Suburb", "DATE", "AMOUNT", "Service", "Email"})
	if err != nil {
		return nil, err
	}

	transactions := make([]matching.Transaction, 0, len(table.rows))
	for i, row := range table.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dateValue := table.field(row, "DATE")
		if dateValue == "" {
			continue
		}
		date, err := parseFlexibleDate(dateValue)
		if err != nil {
			r.logger.Warn("skipping receipt row", logging.Int("row", i+1), logging.Error(err))
			continue
		}
		amount, err := parseAmount(table.field(row, "AMOUNT"))
		if err != nil {
			r.logger.Warn("skipping receipt row", logging.Int("row", i+1), logging.Error(err))
			continue
		}

		name := table.field(row, "Name")
		suburb := table.field(row, "Suburb")
		service := table.field(row, "Service")
		comment := table.field(row, "Comment")

		transactions = append(transactions, matching.Transaction{
			ID:          fmt.Sprintf("receipt_%d", i+1),
			Date:        date,
			Amount:      amount,
			Description: receiptDescription(name, suburb, service, comment),
			Email:       table.field(row, "Email"),
			Platform:    matching.PlatformPaperReceipt,
			Metadata: map[string]string{
				matching.MetaClientName:   name,
				matching.MetaClientSuburb: suburb,
				"service":                 service,
				"comment":                 comment,
			},
		})
	}

	return transactions, nil
}

func receiptDescription(name, suburb, service, comment string) string {
	var b strings.Builder
	b.WriteString("Paper Receipt - ")
	b.WriteString(name)
	if suburb != "" {
		b.WriteString(" (")
		b.WriteString(suburb)
		b.WriteString(")")
	}
	if service != "" {
		b.WriteString(" - ")
		b.WriteString(service)
	}
	if comment != "" {
		b.WriteString(" - ")
		b.WriteString(comment)
	}
	return b.String()
}
