package shiftcare_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/importers/shiftcare"
)

var testCreds = shiftcare.Credentials{AccountID: "acct", APIKey: "key"}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := shiftcare.New("https://example.com", shiftcare.Credentials{}); err == nil {
		t.Fatal("expected error when credentials missing")
	}
	if _, err := shiftcare.New("", testCreds); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestPaidInvoicesPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("acct:key"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Fatalf("Authorization = %q, want %q", got, wantAuth)
		}
		if r.URL.Query().Get("payment_status") != "paid" {
			t.Fatalf("expected payment_status=paid, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"invoices":[{"id":1,"invoice_number":"INV-1","client_id":7,"invoice_date":"2025-01-10","total_amount":"150.00","payment_status":"paid"}],"meta":{"total":2,"last_page":2}}`))
		default:
			_, _ = w.Write([]byte(`{"invoices":[{"id":2,"invoice_number":"INV-2","client_id":8,"total_amount":99.5,"payment_status":"paid"}],"meta":{"total":2,"last_page":2}}`))
		}
	}))
	t.Cleanup(server.Close)

	client, err := shiftcare.New(server.URL, testCreds, shiftcare.WithPageSize(1))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	page1, err := client.PaidInvoices(context.Background(), 1)
	if err != nil {
		t.Fatalf("PaidInvoices page 1 returned error: %v", err)
	}
	if len(page1.Invoices) != 1 || page1.Invoices[0].InvoiceNumber != "INV-1" {
		t.Fatalf("unexpected page 1: %#v", page1)
	}
	if !page1.HasMore || page1.Total != 2 {
		t.Fatalf("expected more pages with total 2, got %#v", page1)
	}
	if got := page1.Invoices[0].TotalAmountString(); got != "150.00" {
		t.Errorf("TotalAmountString = %q, want 150.00", got)
	}

	page2, err := client.PaidInvoices(context.Background(), 2)
	if err != nil {
		t.Fatalf("PaidInvoices page 2 returned error: %v", err)
	}
	if page2.HasMore {
		t.Fatal("expected final page")
	}
	if got := page2.Invoices[0].TotalAmountString(); got != "99.5" {
		t.Errorf("TotalAmountString = %q, want 99.5", got)
	}
}

func TestClientByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("filter_by_id") == "7" {
			_, _ = w.Write([]byte(`{"clients":[{"id":7,"display_name":"Mary Jones","email":"mary@example.com"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"clients":[]}`))
	}))
	t.Cleanup(server.Close)

	client, err := shiftcare.New(server.URL, testCreds)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	record, err := client.ClientByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("ClientByID returned error: %v", err)
	}
	if record == nil || record.DisplayName != "Mary Jones" {
		t.Fatalf("unexpected client: %#v", record)
	}

	missing, err := client.ClientByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("ClientByID for missing id returned error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing client, got %#v", missing)
	}
}

func TestGetHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := shiftcare.New(server.URL, testCreds)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("SHIFTCARE_DA_ACCOUNT_ID", "acct")
	t.Setenv("SHIFTCARE_DA_API_KEY", "key")

	creds, err := shiftcare.CredentialsFromEnv("da")
	if err != nil {
		t.Fatalf("CredentialsFromEnv returned error: %v", err)
	}
	if creds.AccountID != "acct" || creds.APIKey != "key" {
		t.Fatalf("unexpected credentials: %#v", creds)
	}

	if _, err := shiftcare.CredentialsFromEnv("missing"); err == nil {
		t.Fatal("expected error for unset account")
	}
}
