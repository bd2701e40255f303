package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/report"
)

func TestMethodLabel(t *testing.T) {
	tests := []struct {
		method matching.Method
		want   string
	}{
		{matching.MethodExactEmail, "Exact Email"},
		{matching.MethodReceiptName, "Receipt Name Suburb"},
		{matching.MethodNoMatch, "No Match"},
	}
	for _, tt := range tests {
		if got := methodLabel(tt.method); got != tt.want {
			t.Errorf("methodLabel(%q) = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestRenderSummaryContents(t *testing.T) {
	results := []matching.MatchResult{
		{TransactionID: "t1", ClientID: "CL001", ConfidenceScore: 1.0,
			Method: matching.MethodExactEmail, IsMatched: true},
		{TransactionID: "t2", Method: matching.MethodNoMatch, RequiresReview: true},
	}
	summary := report.Summarize("run-x", "stripe", "payments.csv", results,
		matching.DefaultOptions().Thresholds, 42*time.Millisecond)

	var buf bytes.Buffer
	renderSummary(&buf, summary)

	out := buf.String()
	for _, want := range []string{"run-x", "stripe", "payments.csv", "Exact Email", "No Match", "50.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, ansiGreen) {
		t.Error("buffer output should not be colorized")
	}
}

func TestRenderMatchLine(t *testing.T) {
	matched := matching.MatchResult{TransactionID: "t1", Method: matching.MethodFuzzyName,
		ConfidenceScore: 0.9, IsMatched: true}
	line := renderMatchLine(matched, false)
	if !strings.Contains(line, "MATCHED") || !strings.Contains(line, "fuzzy_name") {
		t.Errorf("unexpected line: %q", line)
	}

	colored := renderMatchLine(matched, true)
	if !strings.HasPrefix(colored, ansiGreen) || !strings.HasSuffix(colored, ansiReset) {
		t.Errorf("expected green wrapping, got %q", colored)
	}

	unmatched := matching.MatchResult{TransactionID: "t2", Method: matching.MethodNoMatch}
	if line := renderMatchLine(unmatched, false); !strings.Contains(line, "UNMATCHED") {
		t.Errorf("unexpected line: %q", line)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
