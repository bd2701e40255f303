package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
)

// Summary is the aggregate outcome of one reconciliation run.
type Summary struct {
	RunID                  string                   `json:"run_id"`
	Platform               string                   `json:"platform"`
	RunDate                time.Time                `json:"run_date"`
	Source                 string                   `json:"source_identifier"`
	TotalTransactions      int                      `json:"total_transactions"`
	MatchedTransactions    int                      `json:"matched_transactions"`
	UnmatchedTransactions  int                      `json:"unmatched_transactions"`
	RequiresReview         int                      `json:"requires_review"`
	ConfidenceDistribution map[matching.Band]int    `json:"confidence_distribution"`
	MethodBreakdown        map[matching.Method]int  `json:"match_method_breakdown"`
	ProcessingTime         time.Duration            `json:"processing_time"`
	Results                []matching.MatchResult   `json:"match_results"`
}

// Summarize builds a Summary from match results. Bands are derived from
// each result's score through the supplied thresholds, never stored.
func Summarize(runID, platform, source string, results []matching.MatchResult, thresholds matching.Thresholds, elapsed time.Duration) Summary {
	summary := Summary{
		RunID:    runID,
		Platform: platform,
		RunDate:  time.Now().UTC(),
		Source:   source,
		ConfidenceDistribution: map[matching.Band]int{
			matching.BandHigh:   0,
			matching.BandMedium: 0,
			matching.BandLow:    0,
		},
		MethodBreakdown: make(map[matching.Method]int),
		ProcessingTime:  elapsed,
		Results:         results,
	}

	summary.TotalTransactions = len(results)
	for _, result := range results {
		if result.IsMatched {
			summary.MatchedTransactions++
		}
		if result.RequiresReview {
			summary.RequiresReview++
		}
		summary.ConfidenceDistribution[thresholds.Band(result.ConfidenceScore)]++
		summary.MethodBreakdown[result.Method]++
	}
	summary.UnmatchedTransactions = summary.TotalTransactions - summary.MatchedTransactions

	return summary
}

// MatchRate returns the matched fraction in [0, 1], or 0 for empty runs.
func (s Summary) MatchRate() float64 {
	if s.TotalTransactions == 0 {
		return 0
	}
	return float64(s.MatchedTransactions) / float64(s.TotalTransactions)
}

// WriteJSON writes the summary as an indented JSON report file named after
// the run id and returns the path written.
func (s Summary) WriteJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(dir, s.RunID+".json")
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
