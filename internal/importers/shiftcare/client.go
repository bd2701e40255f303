package shiftcare

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Invoice is one entry in the invoices listing.
type Invoice struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientID      int64           `json:"client_id"`
	InvoiceDate   string          `json:"invoice_date"`
	CreatedAt     string          `json:"created_at"`
	DueDate       string          `json:"due_date"`
	TotalAmount   json.RawMessage `json:"total_amount"`
	PaymentStatus string          `json:"payment_status"`
}

// TotalAmountString normalizes the total_amount field, which the API
// serves as either a JSON number or a quoted string.
func (i Invoice) TotalAmountString() string {
	raw := strings.TrimSpace(string(i.TotalAmount))
	if raw == "" || raw == "null" {
		return "0"
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		return strings.TrimSpace(unquoted)
	}
	return raw
}

// ClientRecord is a ShiftCare client profile, reduced to the fields the
// importer uses to identify the payer.
type ClientRecord struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type listMeta struct {
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

type invoicesResponse struct {
	Invoices []Invoice `json:"invoices"`
	Meta     listMeta  `json:"meta"`
}

type clientsResponse struct {
	Clients []ClientRecord `json:"clients"`
}

// InvoicePage is one page of the paid-invoice listing.
type InvoicePage struct {
	Invoices []Invoice
	Total    int
	HasMore  bool
}

// Credentials authenticate one ShiftCare account.
type Credentials struct {
	AccountID string
	APIKey    string
}

// CredentialsFromEnv resolves account-scoped credentials from
// SHIFTCARE_<ACCOUNT>_ACCOUNT_ID and SHIFTCARE_<ACCOUNT>_API_KEY.
func CredentialsFromEnv(account string) (Credentials, error) {
	account = strings.ToUpper(strings.TrimSpace(account))
	if account == "" {
		return Credentials{}, errors.New("shiftcare account name required")
	}
	creds := Credentials{
		AccountID: os.Getenv("SHIFTCARE_" + account + "_ACCOUNT_ID"),
		APIKey:    os.Getenv("SHIFTCARE_" + account + "_API_KEY"),
	}
	if creds.AccountID == "" || creds.APIKey == "" {
		return Credentials{}, fmt.Errorf("missing shiftcare %s credentials", strings.ToLower(account))
	}
	return creds, nil
}

// Client provides access to the ShiftCare API.
type Client struct {
	baseURL    string
	creds      Credentials
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPageSize overrides the invoice listing page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a ShiftCare client.
func New(baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("shiftcare base url required")
	}
	if creds.AccountID == "" || creds.APIKey == "" {
		return nil, errors.New("shiftcare credentials required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		pageSize:   20,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// PaidInvoices fetches one page of paid invoices.
func (c *Client) PaidInvoices(ctx context.Context, page int) (InvoicePage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.pageSize))
	params.Set("payment_status", "paid")

	var payload invoicesResponse
	if err := c.get(ctx, "/invoices", params, &payload); err != nil {
		return InvoicePage{}, err
	}

	return InvoicePage{
		Invoices: payload.Invoices,
		Total:    payload.Meta.Total,
		HasMore:  page < payload.Meta.LastPage,
	}, nil
}

// ClientByID fetches the client profile for an invoice's payer. A missing
// client comes back as (nil, nil); invoices can reference archived clients.
func (c *Client) ClientByID(ctx context.Context, clientID int64) (*ClientRecord, error) {
	params := url.Values{}
	params.Set("filter_by_id", strconv.FormatInt(clientID, 10))
	params.Set("per_page", "1")

	var payload clientsResponse
	if err := c.get(ctx, "/clients", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Clients) == 0 {
		return nil, nil
	}
	record := payload.Clients[0]
	return &record, nil
}

// Ping verifies the credentials against the invoice endpoint.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("per_page", "1")
	var payload invoicesResponse
	return c.get(ctx, "/invoices", params, &payload)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse shiftcare url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	token := base64.StdEncoding.EncodeToString([]byte(c.creds.AccountID + ":" + c.creds.APIKey))
	req.Header.Set("Authorization", "Basic "+token)
	req.Header.Set("Accept", "*/*")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("shiftcare %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode shiftcare response: %w", err)
	}
	return nil
}
