package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rpattn/fdirkit/internal/table"
)

func TestCompareIdenticalTables(t *testing.T) {
	a := table.Table{
		Columns: []string{"id", "val"},
		Rows: [][]string{
			{"1", "x"},
			{"2", "y"},
		},
	}

	res := Compare(a, a)

	if res.Stats.DifferentCells != 0 {
		t.Fatalf("expected no differences, got %d", res.Stats.DifferentCells)
	}
	if res.Stats.SameCells != 4 || res.Stats.TotalCells != 4 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	if res.Stats.DifferencePercent != 0 {
		t.Fatalf("expected 0%% difference, got %f", res.Stats.DifferencePercent)
	}
	for _, row := range res.Matrix {
		for _, state := range row {
			if state != Same {
				t.Fatalf("expected all SAME, got %v", res.Matrix)
			}
		}
	}
}

func TestCompareRowPadding(t *testing.T) {
	a := table.Table{
		Columns: []string{"id", "val"},
		Rows:    [][]string{{"1", "x"}},
	}
	b := table.Table{
		Columns: []string{"id", "val"},
		Rows: [][]string{
			{"1", "x"},
			{"2", "y"},
		},
	}

	res := Compare(a, b)

	if res.AlignedA.RowCount() != 2 || res.AlignedB.RowCount() != 2 {
		t.Fatalf("expected aligned row count 2, got %d and %d", res.AlignedA.RowCount(), res.AlignedB.RowCount())
	}
	if res.Matrix[0][0] != Same || res.Matrix[0][1] != Same {
		t.Fatalf("first row must be identical: %v", res.Matrix[0])
	}
	// Row 2 on side A is padding, so empty-vs-value cells differ.
	if res.Matrix[1][1] != Different {
		t.Fatalf("empty vs %q must be DIFFERENT", "y")
	}
	if res.AlignedA.Rows[1][0] != "" {
		t.Fatalf("expected padded empty row, got %v", res.AlignedA.Rows[1])
	}
}

func TestCompareColumnUnionIsStable(t *testing.T) {
	a := table.Table{Columns: []string{"id", "val"}, Rows: [][]string{{"1", "x"}}}
	b := table.Table{Columns: []string{"extra", "id"}, Rows: [][]string{{"e", "1"}}}

	res := Compare(a, b)

	expected := []string{"id", "val", "extra"}
	if diffCols := cmp.Diff(expected, res.AlignedA.Columns); diffCols != "" {
		t.Fatalf("unexpected column union (-want +got):\n%s", diffCols)
	}
	if diffCols := cmp.Diff(expected, res.AlignedB.Columns); diffCols != "" {
		t.Fatalf("aligned tables must share the column set (-want +got):\n%s", diffCols)
	}

	// Values follow their column regardless of original position.
	if res.AlignedB.Cell(0, "id") != "1" || res.AlignedB.Cell(0, "extra") != "e" {
		t.Fatalf("projection misaligned: %v", res.AlignedB.Rows[0])
	}
	// "val" exists only in A, "extra" only in B: both classify DIFFERENT.
	if res.Matrix[0][1] != Different || res.Matrix[0][2] != Different {
		t.Fatalf("one-sided columns must differ: %v", res.Matrix[0])
	}
	if res.Matrix[0][0] != Same {
		t.Fatalf("shared id cell must be SAME: %v", res.Matrix[0])
	}
}

func TestCompareMatrixSymmetric(t *testing.T) {
	a := table.Table{
		Columns: []string{"id", "val"},
		Rows: [][]string{
			{"1", "x"},
			{"2", ""},
		},
	}
	b := table.Table{
		Columns: []string{"id", "val", "extra"},
		Rows: [][]string{
			{"1", "y", "z"},
		},
	}

	ab := Compare(a, b)
	ba := Compare(b, a)

	if ab.Stats.DifferentCells != ba.Stats.DifferentCells {
		t.Fatalf("difference counts must match: %d vs %d", ab.Stats.DifferentCells, ba.Stats.DifferentCells)
	}
	// Column order differs between the two unions, so compare per column name.
	for row := 0; row < len(ab.Matrix); row++ {
		for _, column := range ab.AlignedA.Columns {
			stateAB := ab.Matrix[row][ab.AlignedA.ColumnIndex(column)]
			stateBA := ba.Matrix[row][ba.AlignedA.ColumnIndex(column)]
			if stateAB != stateBA {
				t.Fatalf("classification not symmetric at row %d column %s: %v vs %v", row, column, stateAB, stateBA)
			}
		}
	}
}

func TestCompareEmptyTables(t *testing.T) {
	res := Compare(table.Table{}, table.Table{})

	if res.Stats.TotalCells != 0 {
		t.Fatalf("expected zero cells, got %d", res.Stats.TotalCells)
	}
	if res.Stats.DifferencePercent != 0 {
		t.Fatalf("difference percentage must be guarded to 0, got %f", res.Stats.DifferencePercent)
	}
	if len(res.Differences) != 0 {
		t.Fatalf("expected no differences, got %v", res.Differences)
	}
}

func TestCompareBothEmptyCellsAreSame(t *testing.T) {
	a := table.Table{Columns: []string{"val"}, Rows: [][]string{{""}}}
	b := table.Table{Columns: []string{"val"}, Rows: [][]string{{""}}}

	res := Compare(a, b)
	if res.Matrix[0][0] != Same {
		t.Fatalf("empty vs empty must be SAME")
	}
}

func TestCompareDifferencesOrdering(t *testing.T) {
	a := table.Table{
		Columns: []string{"c1", "c2"},
		Rows: [][]string{
			{"a", "b"},
			{"c", "d"},
		},
	}
	b := table.Table{
		Columns: []string{"c1", "c2"},
		Rows: [][]string{
			{"a", "B"},
			{"C", "d"},
		},
	}

	res := Compare(a, b)

	expected := []Difference{
		{Row: 0, Column: "c2", ValueA: "b", ValueB: "B"},
		{Row: 1, Column: "c1", ValueA: "c", ValueB: "C"},
	}
	if diffOut := cmp.Diff(expected, res.Differences); diffOut != "" {
		t.Fatalf("unexpected differences (-want +got):\n%s", diffOut)
	}
	if res.Stats.SameCells != 2 || res.Stats.DifferencePercent != 50 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
}
