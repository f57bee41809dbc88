package table

import (
	"fmt"
	"strings"
)

// Table is an in-memory tabular dataset with ordered columns and rows.
// Every row is padded to the column count, so Cell access never goes out
// of range for a known column.
type Table struct {
	Columns []string
	Rows    [][]string
}

// RowCount returns the number of data rows.
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for idx, column := range t.Columns {
		if column == name {
			return idx
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, column), or the empty string when the
// row or column is absent.
func (t Table) Cell(row int, column string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	idx := t.ColumnIndex(column)
	if idx < 0 || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// RequireColumns validates that every named column is present.
func (t Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: column %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// IsEmptyRow reports whether every cell of the row is blank.
func IsEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// PadRow fits a row to the given length, truncating or filling with
// empty strings.
func PadRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}
