package matching

import (
	"strings"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/logging"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/registry"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/textutil"
)

// PIIFields holds the manually extracted identifiers a reviewer attached
// to an unmatched transaction.
type PIIFields struct {
	Name    string
	Address string
	ACN     string
	Invoice string
	Phone   string
	Email   string
}

// ReviewedTransaction pairs a transaction with its review annotations.
// PreviouslyMatched marks rows the original run already resolved; they
// keep their match and are excluded from propagation.
type ReviewedTransaction struct {
	Transaction       Transaction
	PII               PIIFields
	PreviouslyMatched bool
	ExistingClientID  string
}

type emailOrigin struct {
	clientID string
	method   Method
	details  Details
}

// ResolvePostReview runs the secondary PII-assisted pass over a reviewed
// batch. Phase one applies the extracted-field strategies to every row;
// phase two propagates each email-to-client mapping discovered in phase
// one to still-unresolved rows sharing that email. Propagation must not
// start earlier because it depends on mappings found anywhere in the
// batch. Results come back in input order, one per row.
func (m *Matcher) ResolvePostReview(items []ReviewedTransaction) []MatchResult {
	snapshot := m.registry.Current()

	results := make([]MatchResult, len(items))
	emailMap := make(map[string]emailOrigin)

	for i, item := range items {
		if item.PreviouslyMatched {
			results[i] = MatchResult{
				TransactionID:   item.Transaction.ID,
				ClientID:        item.ExistingClientID,
				ConfidenceScore: 1.0,
				Method:          MethodPreviouslyMatched,
				IsMatched:       true,
				RequiresReview:  false,
			}
			continue
		}

		result := m.resolveExtractedPII(snapshot, item.Transaction, item.PII)
		results[i] = result

		email := strings.ToLower(strings.TrimSpace(item.Transaction.Email))
		if result.IsMatched && email != "" {
			if _, seen := emailMap[email]; !seen {
				emailMap[email] = emailOrigin{
					clientID: result.ClientID,
					method:   result.Method,
					details:  result.Details,
				}
			}
		}
	}

	m.logger.Info("post-review email propagation",
		logging.Int("mappings", len(emailMap)),
		logging.Int("batch_size", len(items)),
	)

	for i, item := range items {
		if results[i].IsMatched {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(item.Transaction.Email))
		if email == "" {
			continue
		}
		origin, ok := emailMap[email]
		if !ok {
			continue
		}
		results[i] = MatchResult{
			TransactionID:   item.Transaction.ID,
			ClientID:        origin.clientID,
			ConfidenceScore: propagatedEmailScore,
			Method:          PropagatedMethod(origin.method),
			Details: Details{
				PropagatedEmail: item.Transaction.Email,
				OriginalMethod:  origin.method,
			},
			IsMatched:      true,
			RequiresReview: false,
		}
	}

	for i := range results {
		results[i].Source = items[i].Transaction.Source()
	}

	return results
}

func (m *Matcher) resolveExtractedPII(snapshot *registry.Snapshot, tx Transaction, pii PIIFields) MatchResult {
	if email := strings.TrimSpace(pii.Email); email != "" {
		if clientID := snapshot.FindByEmail(email); clientID != "" {
			return MatchResult{
				TransactionID:   tx.ID,
				ClientID:        clientID,
				ConfidenceScore: 1.0,
				Method:          MethodExtractedEmail,
				Details:         Details{MatchedEmail: email},
				IsMatched:       true,
				RequiresReview:  false,
			}
		}
	}

	if acn := strings.TrimSpace(pii.ACN); acn != "" {
		if clientID := findByACN(snapshot, acn); clientID != "" {
			return MatchResult{
				TransactionID:   tx.ID,
				ClientID:        clientID,
				ConfidenceScore: 1.0,
				Method:          MethodExtractedACN,
				Details:         Details{MatchedACN: acn},
				IsMatched:       true,
				RequiresReview:  false,
			}
		}
	}

	if phone := digitsOnly(pii.Phone); phone != "" {
		if clientID := findByPhone(snapshot, phone); clientID != "" {
			return MatchResult{
				TransactionID:   tx.ID,
				ClientID:        clientID,
				ConfidenceScore: extractedPhoneScore,
				Method:          MethodExtractedPhone,
				Details:         Details{MatchedPhone: pii.Phone},
				IsMatched:       true,
				RequiresReview:  false,
			}
		}
	}

	if address := strings.TrimSpace(pii.Address); address != "" {
		if match, ok := snapshot.FindByAddress(address, postReviewAddressMinScore); ok {
			return MatchResult{
				TransactionID:   tx.ID,
				ClientID:        match.ClientID,
				ConfidenceScore: match.Score,
				Method:          MethodExtractedAddress,
				Details:         Details{Address: &match, ExtractedAddress: address},
				IsMatched:       true,
				RequiresReview:  m.opts.Thresholds.RequiresReview(MethodExtractedAddress, match.Score),
			}
		}
	}

	if name := strings.TrimSpace(pii.Name); len(name) >= 2 {
		if result, ok := m.matchExtractedName(snapshot, tx, name); ok {
			return result
		}
	}

	return MatchResult{
		TransactionID:   tx.ID,
		ConfidenceScore: 0.0,
		Method:          MethodNoMatchPostReview,
		IsMatched:       false,
		RequiresReview:  true,
	}
}

// matchExtractedName compares the reviewer-supplied name against every
// client with whole-string similarity. The threshold is lower than the
// cascade's because extracted names are already human-curated.
func (m *Matcher) matchExtractedName(snapshot *registry.Snapshot, tx Transaction, name string) (MatchResult, bool) {
	lowered := strings.ToLower(name)

	var best MatchResult
	found := false

	for _, id := range snapshot.ClientIDs() {
		client := snapshot.Client(id)
		fullName := client.FullName()
		if fullName == "" {
			continue
		}

		score := textutil.Ratio(lowered, strings.ToLower(fullName))
		if score < postReviewNameThreshold {
			continue
		}
		if found && score <= best.ConfidenceScore {
			continue
		}

		best = MatchResult{
			TransactionID:   tx.ID,
			ClientID:        id,
			ConfidenceScore: score,
			Method:          MethodExtractedName,
			Details: Details{
				MatchedName:   fullName,
				ExtractedName: name,
				NameScore:     score,
			},
			IsMatched: true,
		}
		found = true
	}

	if !found {
		return MatchResult{}, false
	}
	best.RequiresReview = m.opts.Thresholds.RequiresReview(best.Method, best.ConfidenceScore)
	return best, true
}

func findByACN(snapshot *registry.Snapshot, acn string) string {
	for _, id := range snapshot.ClientIDs() {
		for _, platformID := range snapshot.Client(id).PlatformIdentifiers {
			if platformID.Platform != "aged_care" {
				continue
			}
			if platformID.Identifiers["acn"] == acn {
				return id
			}
		}
	}
	return ""
}

func findByPhone(snapshot *registry.Snapshot, digits string) string {
	for _, id := range snapshot.ClientIDs() {
		for _, number := range snapshot.Client(id).PersonalInfo.ContactNumbers {
			if digitsOnly(number) == digits {
				return id
			}
		}
	}
	return ""
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
