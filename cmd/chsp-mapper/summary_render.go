package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/matching"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/report"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

var (
	titleCaser   = cases.Title(language.English)
	countPrinter = message.NewPrinter(language.English)
)

// methodLabel turns a method value like "receipt_name_suburb" into a
// human-readable table label.
func methodLabel(method matching.Method) string {
	return titleCaser.String(strings.ReplaceAll(string(method), "_", " "))
}

func formatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

func formatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

func renderSummary(out io.Writer, summary report.Summary) {
	colorize := shouldColorize(out)

	header := fmt.Sprintf("== Run %s ==", summary.RunID)
	if colorize {
		header = ansiBlue + header + ansiReset
	}
	fmt.Fprintln(out, header)
	fmt.Fprintf(out, "Platform: %s\n", summary.Platform)
	fmt.Fprintf(out, "Source:   %s\n", summary.Source)
	fmt.Fprintf(out, "Elapsed:  %s\n", summary.ProcessingTime.Round(time.Millisecond))

	rows := [][2]string{
		{"Total transactions", formatCount(summary.TotalTransactions)},
		{"Matched", formatCount(summary.MatchedTransactions)},
		{"Unmatched", formatCount(summary.UnmatchedTransactions)},
		{"Requires review", formatCount(summary.RequiresReview)},
		{"Match rate", formatPercent(summary.MatchRate())},
	}
	fmt.Fprintln(out, renderPairs("Metric", "Value", rows, true))

	bandRows := [][2]string{
		{"High", formatCount(summary.ConfidenceDistribution[matching.BandHigh])},
		{"Medium", formatCount(summary.ConfidenceDistribution[matching.BandMedium])},
		{"Low", formatCount(summary.ConfidenceDistribution[matching.BandLow])},
	}
	fmt.Fprintln(out, renderPairs("Confidence", "Count", bandRows, true))

	if len(summary.MethodBreakdown) > 0 {
		fmt.Fprintln(out, renderPairs("Method", "Count", buildMethodRows(summary.MethodBreakdown), true))
	}
}

func buildMethodRows(breakdown map[matching.Method]int) [][2]string {
	methods := make([]matching.Method, 0, len(breakdown))
	for method := range breakdown {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool {
		if breakdown[methods[i]] != breakdown[methods[j]] {
			return breakdown[methods[i]] > breakdown[methods[j]]
		}
		return methods[i] < methods[j]
	})

	rows := make([][2]string, 0, len(methods))
	for _, method := range methods {
		rows = append(rows, [2]string{methodLabel(method), formatCount(breakdown[method])})
	}
	return rows
}

func renderMatchLine(result matching.MatchResult, colorize bool) string {
	status := "UNMATCHED"
	color := ansiYellow
	if result.IsMatched {
		status = "MATCHED"
		color = ansiGreen
	}
	line := fmt.Sprintf("  %-24s [%s] %s score=%.2f review=%s",
		result.TransactionID, status, result.Method, result.ConfidenceScore, yesNo(result.RequiresReview))
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
