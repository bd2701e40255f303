package importers_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/testsupport"
)

func TestStripeImporterExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.csv")
	testsupport.WriteFile(t, path, `id,Customer Email,Amount,Created date (UTC),Description,Status,Currency
ch_123,mary@example.com,120.00,26/1/2025 23:18,Invoice payment,succeeded,aud
ch_456,,89.50,2025-02-03T10:15:00Z,Subscription,succeeded,
ch_789,bad@example.com,not-a-number,26/1/2025 23:18,Broken,succeeded,aud
`)

	imp := importers.NewStripeImporter(path, logging.NewNop())
	if imp.Platform() != matching.PlatformStripe {
		t.Fatalf("Platform = %q", imp.Platform())
	}

	transactions, err := imp.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("got %d transactions, want 2 (bad row skipped)", len(transactions))
	}

	first := transactions[0]
	if first.ID != "ch_123" {
		t.Errorf("ID = %q, want ch_123", first.ID)
	}
	if first.Email != "mary@example.com" {
		t.Errorf("Email = %q", first.Email)
	}
	if first.Date.Day() != 26 || first.Date.Month() != 1 {
		t.Errorf("slash date parsed as %v, want day 26 month 1", first.Date)
	}
	if !first.Amount.Equal(decimal.RequireFromString("120.00")) {
		t.Errorf("Amount = %s", first.Amount)
	}
	if first.Metadata["status"] != "succeeded" {
		t.Errorf("status = %q", first.Metadata["status"])
	}

	second := transactions[1]
	if second.Date.Year() != 2025 || second.Date.Month() != 2 || second.Date.Day() != 3 {
		t.Errorf("ISO date parsed as %v, want 2025-02-03", second.Date)
	}
	if second.Metadata["currency"] != "aud" {
		t.Errorf("empty currency should default to aud, got %q", second.Metadata["currency"])
	}
}
