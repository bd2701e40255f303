package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderPairs renders the two-column label/value tables most commands
// print. The value column is right-aligned for numeric output.
func renderPairs(label, value string, rows [][2]string, numeric bool) string {
	flat := make([][]string, len(rows))
	for i, row := range rows {
		flat[i] = []string{row[0], row[1]}
	}
	rightAligned := []int(nil)
	if numeric {
		rightAligned = []int{1}
	}
	return renderTable([]string{label, value}, flat, rightAligned)
}

// renderTable renders rows under headers in the rounded style. Columns
// listed in rightAligned are right-aligned; all others are left-aligned.
// Short rows are padded with empty cells.
func renderTable(headers []string, rows [][]string, rightAligned []int) string {
	if len(headers) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	right := make(map[int]bool, len(rightAligned))
	for _, col := range rightAligned {
		right[col] = true
	}
	configs := make([]table.ColumnConfig, len(headers))
	for i := range headers {
		align := text.AlignLeft
		if right[i] {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
