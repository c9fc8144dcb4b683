package ui

import (
	"strings"

	"leadcap/internal/lead"
	"leadcap/internal/page"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders static rows with aligned columns. A spanning row is
// printed across the full table width.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    []TableRow
}

// TableRow is one table line. Span is set for placeholder lines.
type TableRow struct {
	Cells []string
	Span  string
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([]TableRow, 0),
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(cells ...string) {
	t.Rows = append(t.Rows, TableRow{Cells: cells})
}

// AddSpanningRow adds a row whose text covers every column.
func (t *SimpleTable) AddSpanningRow(text string) {
	t.Rows = append(t.Rows, TableRow{Span: text})
}

// LeadTable builds the page table from view-model rows.
func LeadTable(title string, msgs page.Messages, rows []lead.Row) *SimpleTable {
	t := NewSimpleTable(title, msgs.Headers())
	for _, r := range rows {
		if r.Placeholder {
			t.AddSpanningRow(r.Text)
			continue
		}
		t.AddRow(r.Cells()...)
	}
	return t
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Headers) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}

	// lipgloss Width includes padding
	for i := range colWidths {
		colWidths[i] += 2
	}

	totalWidth := len(colWidths) - 1 // separators
	for _, w := range colWidths {
		totalWidth += w
	}
	for _, row := range t.Rows {
		if row.Span != "" {
			if w := lipgloss.Width(row.Span) + 2; w > totalWidth {
				totalWidth = w
			}
		}
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	spanStyle := styles.Muted.Padding(0, 1).Align(lipgloss.Center)
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range t.Rows {
		if row.Span != "" {
			sb.WriteString(spanStyle.Width(totalWidth).Render(row.Span))
			sb.WriteString("\n")
			continue
		}
		for i, cell := range row.Cells {
			if i < len(colWidths) {
				sb.WriteString(rowStyle.Width(colWidths[i]).Render(cell))
				if i < len(row.Cells)-1 && i < len(colWidths)-1 {
					sb.WriteString(sepStyle.Render("|"))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
