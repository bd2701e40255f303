package matching

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform names for transaction sources. PlatformPaperReceipt is the
// designated manual-entry platform that unlocks the name+suburb strategy.
const (
	PlatformBankStatement = "bank_statement"
	PlatformStripe        = "stripe"
	PlatformPaperReceipt  = "paper_receipt"
)

// Metadata keys populated by importers for manual-entry sources.
const (
	MetaClientName   = "client_name"
	MetaClientSuburb = "client_suburb"
)

// Transaction is a normalized financial transaction handed to the matcher
// by an importer. The matcher never cares how it was produced.
type Transaction struct {
	ID               string            `json:"transaction_id"`
	Date             time.Time         `json:"date"`
	Amount           decimal.Decimal   `json:"amount"`
	Description      string            `json:"description"`
	Reference        string            `json:"reference,omitempty"`
	Email            string            `json:"email,omitempty"`
	ClientIdentifier string            `json:"client_identifier,omitempty"`
	Platform         string            `json:"platform"`
	Metadata         map[string]string `json:"platform_metadata,omitempty"`
}

// TransactionSource is the slice of a transaction every match result keeps,
// so review exports can be rebuilt from the run archive without the import
// file that produced the run.
type TransactionSource struct {
	Email       string          `json:"email,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// Source extracts the persisted slice of the transaction.
func (t Transaction) Source() TransactionSource {
	return TransactionSource{
		Email:       t.Email,
		Amount:      t.Amount,
		Date:        t.Date,
		Description: t.Description,
	}
}
