// Package mdtable renders and parses pipe-delimited markdown tables. Both
// directions agree with each other: a rendered table parses back to the same
// headers and rows, provided cell values are single-line.
package mdtable

import (
	"fmt"
	"strings"
)

// Table is a rectangular markdown table. Rows shorter than Headers read back
// padded with empty cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render writes the table in GitHub style: a header line, a --- separator,
// then one line per row. Pipes inside cells are escaped and newlines become
// spaces so the output always stays one row per line.
func Render(t Table) string {
	var b strings.Builder
	writeRow(&b, t.Headers)

	b.WriteString("|")
	for range t.Headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(escapeCell(cell))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\n", " ")
	return strings.ReplaceAll(cell, "|", "\\|")
}

func unescapeCell(cell string) string {
	return strings.ReplaceAll(cell, "\\|", "|")
}

// Parse finds the first table in content and decodes it. Text around the
// table is ignored, so a table embedded in prose parses fine. An input
// without a header plus separator pair is an error.
func Parse(content string) (Table, error) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), "|") {
			continue
		}
		if i+1 < len(lines) && isSeparator(lines[i+1]) {
			start = i
			break
		}
	}
	if start < 0 {
		return Table{}, fmt.Errorf("mdtable: no table found")
	}

	table := Table{Headers: splitRow(lines[start])}
	for _, line := range lines[start+2:] {
		if !strings.HasPrefix(strings.TrimSpace(line), "|") {
			break
		}
		row := splitRow(line)
		for len(row) < len(table.Headers) {
			row = append(row, "")
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// isSeparator recognizes the |---|---| divider, with or without the leading
// and trailing pipes and with alignment colons.
func isSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		return false
	}
	seen := false
	for _, ch := range trimmed {
		switch ch {
		case '|', ':', ' ', '\t':
		case '-':
			seen = true
		default:
			return false
		}
	}
	return seen
}

func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")

	var cells []string
	var current strings.Builder
	escaped := false
	for i := 0; i < len(trimmed); i++ {
		ch := trimmed[i]
		if escaped {
			current.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' && i+1 < len(trimmed) && trimmed[i+1] == '|' {
			current.WriteByte('\\')
			escaped = true
			continue
		}
		if ch == '|' {
			cells = append(cells, unescapeCell(strings.TrimSpace(current.String())))
			current.Reset()
			continue
		}
		current.WriteByte(ch)
	}
	cells = append(cells, unescapeCell(strings.TrimSpace(current.String())))
	return cells
}
