// Package output renders turbo-ncu results: the update table, JSON documents,
// the summary line and the progress spinner.
package output

import (
	"strings"

	"github.com/ajxudir/turboncu/pkg/check"
	"github.com/ajxudir/turboncu/pkg/constants"
	"github.com/ajxudir/turboncu/pkg/utils"
)

// NoUpdatesMessage is printed when every checked dependency is current.
const NoUpdatesMessage = constants.MessageNoUpdates

const arrow = constants.IconArrow

// Column represents a single table column and its current width.
type Column struct {
	Header string
	Width  int
}

// Table aligns rows of cells using display widths, so wide runes in package
// names do not break the layout.
//
// Fields:
//   - columns: Columns in display order
//   - separator: String placed between cells (default: "  ")
type Table struct {
	columns   []Column
	separator string
}

// NewTable creates an empty table with a two-space separator.
func NewTable() *Table {
	return &Table{
		columns:   make([]Column, 0),
		separator: "  ",
	}
}

// AddColumn adds a column and returns the table. Headers name columns for
// readers of the code and are not printed.
//
// Parameters:
//   - header: Column name
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) AddColumn(header string) *Table {
	t.columns = append(t.columns, Column{Header: header})
	return t
}

// UpdateWidths widens columns to fit a row of values and returns the table.
//
// Parameters:
//   - values: One value per column
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) UpdateWidths(values ...string) *Table {
	for i, val := range values {
		if i < len(t.columns) {
			if width := utils.DisplayWidth(val); width > t.columns[i].Width {
				t.columns[i].Width = width
			}
		}
	}
	return t
}

// FormatRow pads every value but the last to its column width and joins
// them with the separator. Missing values are treated as empty strings.
//
// Parameters:
//   - values: One value per column
//
// Returns:
//   - string: Formatted row
func (t *Table) FormatRow(values ...string) string {
	parts := make([]string, 0, len(t.columns))
	for i, col := range t.columns {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		if i < len(t.columns)-1 {
			val = utils.ToWidth(val, col.Width)
		}
		parts = append(parts, val)
	}
	return strings.Join(parts, t.separator)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// FormatUpdates renders updates as aligned rows of name, declared range,
// arrow and new range, with the new range coloured by update type.
//
// Parameters:
//   - updates: Updates of one target
//
// Returns:
//   - string: Table without a trailing newline, or NoUpdatesMessage when
//     updates is empty
func FormatUpdates(updates []check.Update) string {
	if len(updates) == 0 {
		return Success.Render(NoUpdatesMessage)
	}

	table := NewTable().AddColumn("name").AddColumn("current").AddColumn("arrow").AddColumn("new")
	for _, u := range updates {
		table.UpdateWidths(u.Name, u.Current, arrow, u.NewRange)
	}

	lines := make([]string, 0, len(updates))
	for _, u := range updates {
		row := table.FormatRow(u.Name, u.Current, arrow, StyleFor(u.UpdateType).Render(u.NewRange))
		lines = append(lines, " "+row)
	}
	return strings.Join(lines, "\n")
}
