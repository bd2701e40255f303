package importers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
)

// BankImporter reads generic bank statement CSV exports.
type BankImporter struct {
	path   string
	logger *slog.Logger
}

// NewBankImporter builds an importer for a bank statement CSV file.
func NewBankImporter(path string, logger *slog.Logger) *BankImporter {
	return &BankImporter{
		path:   path,
		logger: logging.NewComponentLogger(logger, "bank_importer"),
	}
}

// Platform identifies bank statement transactions.
func (b *BankImporter) Platform() string { return matching.PlatformBankStatement }

// Source returns the statement file path.
func (b *BankImporter) Source() string { return b.path }

// Extract parses the statement rows. Transaction ids are positional since
// bank exports carry no stable identifier.
func (b *BankImporter) Extract(ctx context.Context) ([]matching.Transaction, error) {
	table, err := readCSVFile(b.path, []string{"Date", "Amount", "Transaction Details"})
	if err != nil {
		return nil, err
	}

	transactions := make([]matching.Transaction, 0, len(table.rows))
	for i, row := range table.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date, err := parseFlexibleDate(table.field(row, "Date"))
		if err != nil {
			b.logger.Warn("skipping bank row", logging.Int("row", i+1), logging.Error(err))
			continue
		}
		amount, err := parseAmount(table.field(row, "Amount"))
		if err != nil {
			b.logger.Warn("skipping bank row", logging.Int("row", i+1), logging.Error(err))
			continue
		}

		transactions = append(transactions, matching.Transaction{
			ID:          fmt.Sprintf("bank_%d", i+1),
			Date:        date,
			Amount:      amount,
			Description: table.field(row, "Transaction Details"),
			Platform:    matching.PlatformBankStatement,
			Metadata: map[string]string{
				"account_number":   table.field(row, "Account Number"),
				"transaction_type": table.field(row, "Transaction Type"),
				"balance":          table.field(row, "Balance"),
				"category":         table.field(row, "Category"),
				"merchant_name":    table.field(row, "Merchant Name"),
			},
		})
	}

	return transactions, nil
}
