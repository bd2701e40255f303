package matching

import (
	"strings"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/registry"
)

// Method identifies the strategy that produced a match result. The set is
// closed; downstream code switches on these values rather than parsing
// free-form strings. Propagated results are the one exception: their
// method carries the originating method as a suffix.
type Method string

const (
	MethodExactClientID Method = "exact_client_id"
	MethodExactEmail    Method = "exact_email"
	MethodReceiptName   Method = "receipt_name_suburb"
	MethodFuzzyName     Method = "fuzzy_name"
	MethodAddress       Method = "address_match"
	MethodNoMatch       Method = "no_match"

	MethodExtractedEmail    Method = "extracted_email"
	MethodExtractedACN      Method = "extracted_acn"
	MethodExtractedPhone    Method = "extracted_phone"
	MethodExtractedAddress  Method = "extracted_address_fuzzy"
	MethodExtractedName     Method = "extracted_name_fuzzy"
	MethodPreviouslyMatched Method = "previously_matched"
	MethodNoMatchPostReview Method = "no_match_post_review"
)

const emailPropagatedPrefix = "email_propagated_from_"

// PropagatedMethod builds the method value for an email-propagated match.
func PropagatedMethod(origin Method) Method {
	return Method(emailPropagatedPrefix + string(origin))
}

// IsPropagated reports whether the method records an email propagation.
func (m Method) IsPropagated() bool {
	return strings.HasPrefix(string(m), emailPropagatedPrefix)
}

// IsExact reports whether the method is an exact-identifier strategy.
// Exact strategies never require review.
func (m Method) IsExact() bool {
	switch m {
	case MethodExactClientID, MethodExactEmail, MethodExtractedEmail, MethodExtractedACN, MethodExtractedPhone:
		return true
	}
	return false
}

// Details is the structured explanation payload attached to every match.
// Fields are populated per method; zero values are omitted from JSON so
// each result only carries the scoring evidence its strategy produced.
type Details struct {
	MatchedEmail      string                 `json:"matched_email,omitempty"`
	MatchedIdentifier string                 `json:"matched_identifier,omitempty"`
	MatchedName       string                 `json:"matched_name,omitempty"`
	NameScore         float64                `json:"name_score,omitempty"`
	SuburbScore       float64                `json:"suburb_score,omitempty"`
	SuburbBoost       float64                `json:"suburb_boost,omitempty"`
	Address           *registry.AddressMatch `json:"address,omitempty"`
	MatchedACN        string                 `json:"matched_acn,omitempty"`
	MatchedPhone      string                 `json:"matched_phone,omitempty"`
	ExtractedName     string                 `json:"extracted_name,omitempty"`
	ExtractedAddress  string                 `json:"extracted_address,omitempty"`
	PropagatedEmail   string                 `json:"propagated_from_email,omitempty"`
	OriginalMethod    Method                 `json:"original_match_method,omitempty"`
}

// MatchResult is the immutable outcome of resolving one transaction.
// Confidence band is never stored here; it is always derived from
// ConfidenceScore through Thresholds.Band so the two cannot drift.
type MatchResult struct {
	TransactionID   string            `json:"transaction_id"`
	ClientID        string            `json:"client_id,omitempty"`
	ConfidenceScore float64           `json:"confidence_score"`
	Method          Method            `json:"match_method"`
	Details         Details           `json:"match_details"`
	Source          TransactionSource `json:"transaction"`
	IsMatched       bool              `json:"is_matched"`
	RequiresReview  bool              `json:"requires_review"`
}

// Band is a discrete confidence classification derived from a score.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Thresholds are the configured band boundaries. They are the single
// source of truth for confidence banding and review policy.
type Thresholds struct {
	High   float64
	Medium float64
	Low    float64
}

// Band classifies a confidence score.
func (t Thresholds) Band(score float64) Band {
	switch {
	case score >= t.High:
		return BandHigh
	case score >= t.Medium:
		return BandMedium
	default:
		return BandLow
	}
}

// RequiresReview applies the review policy: exact methods never need
// review, every other method needs it unless the band is high.
func (t Thresholds) RequiresReview(method Method, score float64) bool {
	if method.IsExact() {
		return false
	}
	return t.Band(score) != BandHigh
}
