package importers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers/shiftcare"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
)

// ShiftCareImporter pulls paid invoices from a ShiftCare account and turns
// them into transactions. The platform name carries the account so runs
// against different accounts stay distinguishable.
type ShiftCareImporter struct {
	client    *shiftcare.Client
	account   string
	source    string
	rateLimit time.Duration
	logger    *slog.Logger
}

// NewShiftCareImporter builds an importer over an existing API client.
func NewShiftCareImporter(client *shiftcare.Client, account, source string, rateLimit time.Duration, logger *slog.Logger) *ShiftCareImporter {
	return &ShiftCareImporter{
		client:    client,
		account:   strings.ToLower(strings.TrimSpace(account)),
		source:    source,
		rateLimit: rateLimit,
		logger:    logging.NewComponentLogger(logger, "shiftcare_importer"),
	}
}

// Platform identifies transactions from this ShiftCare account.
func (s *ShiftCareImporter) Platform() string {
	return "shiftcare_" + s.account
}

// Source returns the API endpoint the importer reads from.
func (s *ShiftCareImporter) Source() string { return s.source }

// Extract walks every page of paid invoices, resolving each invoice's
// client profile for email and identifier enrichment. A pause between
// pages keeps the importer inside the API rate limit.
func (s *ShiftCareImporter) Extract(ctx context.Context) ([]matching.Transaction, error) {
	var transactions []matching.Transaction

	for page := 1; ; page++ {
		invoicePage, err := s.client.PaidInvoices(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch invoices page %d: %w", page, err)
		}
		if len(invoicePage.Invoices) == 0 {
			break
		}

		s.logger.Debug("fetched invoice page",
			logging.Int("page", page),
			logging.Int("invoices", len(invoicePage.Invoices)),
			logging.Int("total", invoicePage.Total),
		)

		for _, invoice := range invoicePage.Invoices {
			tx, err := s.invoiceTransaction(ctx, invoice)
			if err != nil {
				s.logger.Warn("skipping invoice",
					logging.Int("invoice_id", int(invoice.ID)), logging.Error(err))
				continue
			}
			transactions = append(transactions, tx)
		}

		if !invoicePage.HasMore {
			break
		}
		if s.rateLimit > 0 {
			select {
			case <-time.After(s.rateLimit):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return transactions, nil
}

func (s *ShiftCareImporter) invoiceTransaction(ctx context.Context, invoice shiftcare.Invoice) (matching.Transaction, error) {
	amount, err := decimal.NewFromString(invoice.TotalAmountString())
	if err != nil {
		return matching.Transaction{}, fmt.Errorf("parse total amount: %w", err)
	}

	date := time.Now().UTC()
	for _, candidate := range []string{invoice.InvoiceDate, invoice.CreatedAt} {
		if candidate == "" {
			continue
		}
		if parsed, parseErr := parseISODate(candidate); parseErr == nil {
			date = parsed
			break
		}
	}

	var (
		clientIdentifier string
		clientEmail      string
		displayName      string
	)
	if invoice.ClientID != 0 {
		profile, err := s.client.ClientByID(ctx, invoice.ClientID)
		if err != nil {
			return matching.Transaction{}, fmt.Errorf("fetch client %d: %w", invoice.ClientID, err)
		}
		if profile != nil {
			clientIdentifier = strconv.FormatInt(profile.ID, 10)
			clientEmail = profile.Email
			displayName = profile.DisplayName
		}
	}

	invoiceLabel := invoice.InvoiceNumber
	if invoiceLabel == "" {
		invoiceLabel = strconv.FormatInt(invoice.ID, 10)
	}
	description := "ShiftCare Invoice #" + invoiceLabel
	if displayName != "" {
		description += " - " + displayName
	}

	return matching.Transaction{
		ID:               fmt.Sprintf("invoice_%d", invoice.ID),
		Date:             date,
		Amount:           amount,
		Description:      description,
		Email:            clientEmail,
		ClientIdentifier: clientIdentifier,
		Platform:         s.Platform(),
		Metadata: map[string]string{
			"invoice_id":          strconv.FormatInt(invoice.ID, 10),
			"invoice_number":      invoice.InvoiceNumber,
			"client_id":           clientIdentifier,
			"client_display_name": displayName,
			"payment_status":      invoice.PaymentStatus,
			"due_date":            invoice.DueDate,
		},
	}, nil
}

func parseISODate(value string) (time.Time, error) {
	datePart := strings.SplitN(strings.TrimSpace(value), "T", 2)[0]
	return time.Parse("2006-01-02", datePart)
}
