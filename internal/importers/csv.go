package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// csvTable is a header-indexed CSV file. Rows are accessed by column name
// so source exports can reorder or add columns freely.
type csvTable struct {
	header map[string]int
	rows   [][]string
}

func readCSVFile(path string, required []string) (*csvTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := header[name]; !ok {
			return nil, fmt.Errorf("missing required column %q in %s", name, path)
		}
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, row)
	}

	return &csvTable{header: header, rows: rows}, nil
}

// field returns the trimmed cell value for a column, or "" when the column
// is absent or the row is short.
func (t *csvTable) field(row []string, column string) string {
	idx, ok := t.header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseAmount handles the money formats seen across bank and receipt
// exports: currency symbols, thousands separators, and accounting-style
// parentheses for negatives.
func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(value, "$", ""), ",", ""))
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", value, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

var receiptDateLayouts = []string{"2/1/2006", "2006-01-02", "1/2/2006"}

// parseFlexibleDate tries day-first, ISO, then month-first layouts.
func parseFlexibleDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range receiptDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseStripeDate handles both the export format "26/1/2025 23:18" and ISO
// timestamps; only the date portion is kept.
func parseStripeDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, "/") {
		datePart := strings.SplitN(value, " ", 2)[0]
		parsed, err := time.Parse("2/1/2006", datePart)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
		}
		return parsed, nil
	}
	datePart := strings.SplitN(value, "T", 2)[0]
	parsed, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed, nil
}
