package report

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
)

func sampleResults() []matching.MatchResult {
	return []matching.MatchResult{
		{TransactionID: "t1", ClientID: "CL1", ConfidenceScore: 1.0, Method: matching.MethodExactEmail, IsMatched: true},
		{TransactionID: "t2", ClientID: "CL2", ConfidenceScore: 0.82, Method: matching.MethodAddress, IsMatched: true, RequiresReview: true},
		{TransactionID: "t3", ConfidenceScore: 0.0, Method: matching.MethodNoMatch, RequiresReview: true},
		{TransactionID: "t4", ClientID: "CL1", ConfidenceScore: 0.91, Method: matching.MethodFuzzyName, IsMatched: true},
	}
}

func TestSummarize(t *testing.T) {
	thresholds := matching.DefaultOptions().Thresholds
	summary := Summarize("run-1", "stripe", "payments.csv", sampleResults(), thresholds, 2*time.Second)

	if summary.TotalTransactions != 4 {
		t.Errorf("TotalTransactions = %d, want 4", summary.TotalTransactions)
	}
	if summary.MatchedTransactions != 3 || summary.UnmatchedTransactions != 1 {
		t.Errorf("matched/unmatched = %d/%d, want 3/1", summary.MatchedTransactions, summary.UnmatchedTransactions)
	}
	if summary.RequiresReview != 2 {
		t.Errorf("RequiresReview = %d, want 2", summary.RequiresReview)
	}

	dist := summary.ConfidenceDistribution
	if dist[matching.BandHigh] != 2 || dist[matching.BandMedium] != 1 || dist[matching.BandLow] != 1 {
		t.Errorf("ConfidenceDistribution = %v", dist)
	}

	if summary.MethodBreakdown[matching.MethodExactEmail] != 1 ||
		summary.MethodBreakdown[matching.MethodNoMatch] != 1 {
		t.Errorf("MethodBreakdown = %v", summary.MethodBreakdown)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	thresholds := matching.DefaultOptions().Thresholds
	summary := Summarize("run-2", "bank_statement", "empty.csv", nil, thresholds, 0)

	if summary.TotalTransactions != 0 || summary.MatchRate() != 0 {
		t.Errorf("empty summary = %+v", summary)
	}
}

func TestMatchRate(t *testing.T) {
	thresholds := matching.DefaultOptions().Thresholds
	summary := Summarize("run-3", "stripe", "src", sampleResults(), thresholds, 0)

	if got := summary.MatchRate(); got != 0.75 {
		t.Errorf("MatchRate() = %v, want 0.75", got)
	}
}

func TestWriteJSON(t *testing.T) {
	thresholds := matching.DefaultOptions().Thresholds
	summary := Summarize("run-4", "stripe", "src", sampleResults(), thresholds, time.Second)

	dir := t.TempDir()
	path, err := summary.WriteJSON(dir)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded["run_id"] != "run-4" {
		t.Errorf("run_id = %v", decoded["run_id"])
	}
}
