package registry

import (
	"strings"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/textutil"
)

// Fixed scores for the containment heuristics. Suburb containment is
// strong evidence, a literal postcode in the raw input stronger still.
const (
	suburbContainmentScore = 0.85
	postcodeExactScore     = 0.90
)

// Address strategy names recorded in match explanations.
const (
	StrategyFullAddress = "full_address"
	StrategyStreetOnly  = "street_only"
	StrategySuburb      = "suburb_match"
	StrategyPostcode    = "postcode_match"
)

// AddressMatch explains the winning candidate of an address search.
type AddressMatch struct {
	ClientID        string             `json:"client_id"`
	Score           float64            `json:"score"`
	Strategy        string             `json:"strategy"`
	MatchedAddress  string             `json:"matched_address"`
	InputAddress    string             `json:"input_address"`
	NormalizedInput string             `json:"normalized_input"`
	StrategyScores  map[string]float64 `json:"strategy_scores"`
}

// FindByAddress scans every client with a non-empty location and scores the
// input against each candidate address with up to four strategies:
// partial-ratio similarity against the full address and against the street
// line alone, suburb containment at a fixed 0.85, and a literal postcode hit
// in the raw input at a fixed 0.90. Each candidate scores the maximum of its
// applicable strategies; the registry-wide winner must reach minScore.
//
// Inputs shorter than 5 trimmed characters never match. Equal top scores
// keep the first-seen candidate, which is the lowest client id.
func (s *Snapshot) FindByAddress(input string, minScore float64) (AddressMatch, bool) {
	if len(strings.TrimSpace(input)) < 5 {
		return AddressMatch{}, false
	}

	normalizedInput := NormalizeAddress(input)
	if normalizedInput == "" {
		return AddressMatch{}, false
	}

	var best AddressMatch
	found := false

	for _, id := range s.ids {
		client := s.clients[id]
		location := client.Location
		if location.IsZero() {
			continue
		}

		candidate := location.CandidateAddress()
		normalizedCandidate := NormalizeAddress(candidate)
		if normalizedCandidate == "" {
			continue
		}

		scores := map[string]float64{
			StrategyFullAddress: textutil.PartialRatio(normalizedInput, normalizedCandidate),
		}
		if location.Street != "" {
			scores[StrategyStreetOnly] = textutil.PartialRatio(normalizedInput, NormalizeAddress(location.Street))
		}
		if suburb := NormalizeAddress(location.Suburb); suburb != "" && strings.Contains(normalizedInput, suburb) {
			scores[StrategySuburb] = suburbContainmentScore
		}
		if postcode := strings.TrimSpace(location.Postcode); postcode != "" && strings.Contains(input, postcode) {
			scores[StrategyPostcode] = postcodeExactScore
		}

		clientBest, strategy := bestStrategy(scores)
		if clientBest < minScore {
			continue
		}
		if found && clientBest <= best.Score {
			continue
		}

		best = AddressMatch{
			ClientID:        id,
			Score:           clientBest,
			Strategy:        strategy,
			MatchedAddress:  candidate,
			InputAddress:    input,
			NormalizedInput: normalizedInput,
			StrategyScores:  scores,
		}
		found = true
	}

	return best, found
}

func bestStrategy(scores map[string]float64) (float64, string) {
	best := -1.0
	name := ""
	// Deterministic preference order when strategies tie.
	for _, strategy := range []string{StrategyFullAddress, StrategyStreetOnly, StrategySuburb, StrategyPostcode} {
		if score, ok := scores[strategy]; ok && score > best {
			best = score
			name = strategy
		}
	}
	return best, name
}
