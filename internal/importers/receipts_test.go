package importers_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/testsupport"
)

func TestReceiptImporterExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipts.csv")
	testsupport.WriteFile(t, path, `Name,Suburb,DATE,AMOUNT,Service,Email,Comment
Mary Jones,Brighton,15/01/2025,$45.00,Cleaning,mary@example.com,weekly
John Citizen,,2025-01-20,30.00,Gardening,,
No Date Client,Parkville,,10.00,Cleaning,,
`)

	imp := importers.NewReceiptImporter(path, logging.NewNop())
	if imp.Platform() != matching.PlatformPaperReceipt {
		t.Fatalf("Platform = %q", imp.Platform())
	}

	transactions, err := imp.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("got %d transactions, want 2 (dateless row skipped)", len(transactions))
	}

	first := transactions[0]
	if first.ID != "receipt_1" {
		t.Errorf("ID = %q, want receipt_1", first.ID)
	}
	if first.Metadata[matching.MetaClientName] != "Mary Jones" {
		t.Errorf("client_name = %q", first.Metadata[matching.MetaClientName])
	}
	if first.Metadata[matching.MetaClientSuburb] != "Brighton" {
		t.Errorf("client_suburb = %q", first.Metadata[matching.MetaClientSuburb])
	}
	want := "Paper Receipt - Mary Jones (Brighton) - Cleaning - weekly"
	if first.Description != want {
		t.Errorf("Description = %q, want %q", first.Description, want)
	}
	if first.Email != "mary@example.com" {
		t.Errorf("Email = %q", first.Email)
	}

	second := transactions[1]
	if second.Description != "Paper Receipt - John Citizen - Gardening" {
		t.Errorf("Description without suburb = %q", second.Description)
	}
}
