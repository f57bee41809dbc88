// Package diff implements cell-level comparison of two tables. Inputs are
// aligned to a common shape (stable column union, padded row counts) and
// every aligned cell is classified as same or different using
// string-normalized equality.
package diff

import "github.com/rpattn/fdirkit/internal/table"

// CellState classifies one aligned cell pair.
type CellState string

const (
	Same      CellState = "SAME"
	Different CellState = "DIFFERENT"
)

// Stats aggregates the comparison outcome.
type Stats struct {
	TotalCells        int     `json:"totalCells"`
	SameCells         int     `json:"sameCells"`
	DifferentCells    int     `json:"differentCells"`
	DifferencePercent float64 `json:"differencePercent"`
}

// Difference records one differing cell in the aligned grid.
type Difference struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	ValueA string `json:"valueA"`
	ValueB string `json:"valueB"`
}

// Result holds the aligned inputs, the classification matrix, and the
// derived summary. The matrix has exactly one entry per aligned (row,
// column) pair.
type Result struct {
	AlignedA    table.Table
	AlignedB    table.Table
	Matrix      [][]CellState
	Stats       Stats
	Differences []Difference
}

// Compare aligns two tables and classifies every cell. The aligned column
// set is A's columns followed by B's extras in first-seen order, so the
// output shape is deterministic; the shorter table is padded with empty
// rows at the end.
func Compare(a, b table.Table) Result {
	columns := unionColumns(a.Columns, b.Columns)
	height := a.RowCount()
	if b.RowCount() > height {
		height = b.RowCount()
	}

	alignedA := align(a, columns, height)
	alignedB := align(b, columns, height)

	matrix := make([][]CellState, height)
	var differences []Difference
	differentCells := 0

	for row := 0; row < height; row++ {
		states := make([]CellState, len(columns))
		for col, column := range columns {
			valueA := alignedA.Rows[row][col]
			valueB := alignedB.Rows[row][col]
			state := classify(valueA, valueB)
			states[col] = state
			if state == Different {
				differentCells++
				differences = append(differences, Difference{
					Row:    row,
					Column: column,
					ValueA: valueA,
					ValueB: valueB,
				})
			}
		}
		matrix[row] = states
	}

	total := height * len(columns)
	stats := Stats{
		TotalCells:     total,
		SameCells:      total - differentCells,
		DifferentCells: differentCells,
	}
	if total > 0 {
		stats.DifferencePercent = float64(differentCells) / float64(total) * 100
	}

	return Result{
		AlignedA:    alignedA,
		AlignedB:    alignedB,
		Matrix:      matrix,
		Stats:       stats,
		Differences: differences,
	}
}

// classify applies the cell equality rules: both empty is same, exactly one
// empty is different, otherwise exact string equality decides.
func classify(a, b string) CellState {
	if a == "" && b == "" {
		return Same
	}
	if a == "" || b == "" {
		return Different
	}
	if a == b {
		return Same
	}
	return Different
}

// unionColumns returns a's columns followed by b's extras, preserving
// first-seen order on both sides.
func unionColumns(a, b []string) []string {
	columns := append([]string{}, a...)
	seen := make(map[string]struct{}, len(a))
	for _, column := range a {
		seen[column] = struct{}{}
	}
	for _, column := range b {
		if _, ok := seen[column]; !ok {
			seen[column] = struct{}{}
			columns = append(columns, column)
		}
	}
	return columns
}

// align projects a table onto the target column set and row count, filling
// missing columns and rows with empty cells.
func align(t table.Table, columns []string, height int) table.Table {
	indices := make([]int, len(columns))
	for pos, column := range columns {
		indices[pos] = t.ColumnIndex(column)
	}

	rows := make([][]string, height)
	for row := 0; row < height; row++ {
		cells := make([]string, len(columns))
		if row < t.RowCount() {
			source := t.Rows[row]
			for pos, idx := range indices {
				if idx >= 0 && idx < len(source) {
					cells[pos] = source[idx]
				}
			}
		}
		rows[row] = cells
	}

	return table.Table{Columns: append([]string{}, columns...), Rows: rows}
}
