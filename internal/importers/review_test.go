package importers_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/testsupport"
)

func TestReviewImporterExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewed.csv")
	testsupport.WriteFile(t, path, `id,Customer Email,Amount,Created date (UTC),Description,Name,Address,ACN,Invoice,Phone,Email,Matched,Client Id
ch_1,payer@example.com,50.00,26/1/2025 23:18,Payment,Mary Jones,,,,,mary@example.com,,
ch_2,other@example.com,75.00,27/1/2025 08:00,Payment,,,AC123,,,,Matched,CL009
ch_3,,25.00,28/1/2025 12:00,Payment,,12 Smith Street,,INV-7,0412 345 678,,,
`)

	imp := importers.NewReviewImporter(path, logging.NewNop())
	items, err := imp.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	first := items[0]
	if first.Transaction.ID != "ch_1" || first.Transaction.Email != "payer@example.com" {
		t.Errorf("unexpected transaction: %+v", first.Transaction)
	}
	if first.PII.Name != "Mary Jones" || first.PII.Email != "mary@example.com" {
		t.Errorf("unexpected PII: %+v", first.PII)
	}
	if first.PreviouslyMatched {
		t.Error("first row should not be previously matched")
	}

	second := items[1]
	if !second.PreviouslyMatched {
		t.Error("second row should be previously matched")
	}
	if second.ExistingClientID != "CL009" {
		t.Errorf("ExistingClientID = %q, want CL009", second.ExistingClientID)
	}
	if second.PII.ACN != "AC123" {
		t.Errorf("ACN = %q", second.PII.ACN)
	}

	third := items[2]
	if third.PII.Address != "12 Smith Street" || third.PII.Phone != "0412 345 678" || third.PII.Invoice != "INV-7" {
		t.Errorf("unexpected PII: %+v", third.PII)
	}
}

func TestReviewImporterToleratesBlankBaseColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewed.csv")
	testsupport.WriteFile(t, path, `id,Customer Email,Amount,Created date (UTC),Description,Name,Address,ACN,Invoice,Phone,Email,Matched,Client Id
ch_blank,,,,,Mary Jones,,,,,,,
ch_bad_date,,10.00,not-a-date,Payment,,,,,,,,
`)

	imp := importers.NewReviewImporter(path, logging.NewNop())
	items, err := imp.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	// The blank row survives with zero date and amount; the unparsable
	// date is still skipped.
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	row := items[0]
	if row.Transaction.ID != "ch_blank" || row.PII.Name != "Mary Jones" {
		t.Errorf("unexpected row: %+v", row)
	}
	if !row.Transaction.Date.IsZero() || !row.Transaction.Amount.IsZero() {
		t.Errorf("blank base columns should yield zero values: %+v", row.Transaction)
	}
}
