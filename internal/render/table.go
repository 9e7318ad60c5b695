// Package render draws plain-text tables and key/value blocks for the CLI
// commands.
package render

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// Table accumulates rows and renders them with aligned columns. Column widths
// are computed with display widths, so wide characters in target names or
// paths do not break alignment.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the table as a string. With colored set, headers are printed
// bold; cell content is never colored.
func (t *Table) Render(colored bool) string {
	widths := t.columnWidths()

	var b strings.Builder
	t.writeLine(&b, t.headers, widths, colored)
	t.writeSeparator(&b, widths)
	for _, row := range t.rows {
		t.writeLine(&b, row, widths, false)
	}
	return b.String()
}

// columnWidths returns the display width of the widest cell per column,
// headers included.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (t *Table) writeLine(b *strings.Builder, cells []string, widths []int, bold bool) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		// The last column stays unpadded to avoid trailing spaces.
		if i < len(cells)-1 {
			cell = runewidth.FillRight(cell, widths[i])
		}
		if bold {
			cell = color.Bold.Sprint(cell)
		}
		b.WriteString(cell)
	}
	b.WriteString("\n")
}

func (t *Table) writeSeparator(b *strings.Builder, widths []int) {
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteString("\n")
}

// KeyValues renders an aligned key/value block, used by the plan command to
// show the effective run configuration.
func KeyValues(pairs [][2]string) string {
	keyWidth := 0
	for _, p := range pairs {
		if w := runewidth.StringWidth(p[0]); w > keyWidth {
			keyWidth = w
		}
	}

	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s  %s\n", runewidth.FillRight(p[0]+":", keyWidth+1), p[1])
	}
	return b.String()
}
