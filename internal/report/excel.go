package report

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/fdirkit/internal/combine"
	"github.com/rpattn/fdirkit/internal/diff"
	"github.com/rpattn/fdirkit/internal/table"
)

const (
	colorHeaderFill = "D9E1F2"
	colorDiffFill   = "FFDDDD"

	minColumnWidth = 15.0
	maxColumnWidth = 60.0
)

type styleSet struct {
	header int
	wrap   int
	diff   int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeaderFill}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return styleSet{}, fmt.Errorf("header style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return styleSet{}, fmt.Errorf("wrap style: %w", err)
	}
	diffStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorDiffFill}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return styleSet{}, fmt.Errorf("diff style: %w", err)
	}
	return styleSet{header: header, wrap: wrap, diff: diffStyle}, nil
}

// NamedTable pairs a sheet name with its table, for passthrough sheets.
type NamedTable struct {
	Name  string
	Table table.Table
}

// CombineWorkbook describes the multi-sheet combined output: a per-entity
// holistic layout, the source tables passed through unchanged, and the
// flattened combined view.
type CombineWorkbook struct {
	Keys     []string
	Records  map[string]combine.Record
	Children []combine.Child

	Sources     []NamedTable
	FlatHeaders []string
	FlatRows    [][]string
}

// WriteCombineWorkbook writes the combined rules workbook.
func WriteCombineWorkbook(path string, wb CombineWorkbook) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	styles, err := newStyleSet(f)
	if err != nil {
		return "", err
	}

	headers, rows := holisticGrid(wb.Keys, wb.Records, wb.Children)
	if err := writeGrid(f, "Holistic_View", headers, rows, styles); err != nil {
		return "", err
	}
	for _, source := range wb.Sources {
		if err := writeGrid(f, source.Name, source.Table.Columns, source.Table.Rows, styles); err != nil {
			return "", err
		}
	}
	if err := writeGrid(f, "Combined_Flat", wb.FlatHeaders, wb.FlatRows, styles); err != nil {
		return "", err
	}

	return finishWorkbook(f, path, "Holistic_View")
}

// WriteFlatWorkbook writes a single-sheet workbook of flat rows with
// wrapped text and sized columns.
func WriteFlatWorkbook(path, sheet string, headers []string, rows [][]string) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	styles, err := newStyleSet(f)
	if err != nil {
		return "", err
	}
	if err := writeGrid(f, sheet, headers, rows, styles); err != nil {
		return "", err
	}
	return finishWorkbook(f, path, sheet)
}

// WriteCompareWorkbook writes the comparison workbook: both aligned inputs
// in their original layout with differing cells highlighted, plus a
// differences-only summary sheet when any cell differs.
func WriteCompareWorkbook(path string, res diff.Result) (string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	styles, err := newStyleSet(f)
	if err != nil {
		return "", err
	}

	if err := writeHighlighted(f, "Original_File1", res.AlignedA, res.Matrix, styles); err != nil {
		return "", err
	}
	if err := writeHighlighted(f, "Original_File2", res.AlignedB, res.Matrix, styles); err != nil {
		return "", err
	}

	if len(res.Differences) > 0 {
		headers := []string{"Row", "Column", "File 1 Value", "File 2 Value"}
		rows := make([][]string, 0, len(res.Differences))
		for _, d := range res.Differences {
			rows = append(rows, []string{table.FormatValue(d.Row + 1), d.Column, d.ValueA, d.ValueB})
		}
		if err := writeGridStyled(f, "Differences_Summary", headers, rows, styles, styles.diff); err != nil {
			return "", err
		}
	}

	return finishWorkbook(f, path, "Original_File1")
}

// writeHighlighted writes a table and applies the diff fill to every cell
// classified different.
func writeHighlighted(f *excelize.File, sheet string, t table.Table, matrix [][]diff.CellState, styles styleSet) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, t.Columns, styles.header); err != nil {
		return err
	}
	for rowIdx, row := range t.Rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
			style := styles.wrap
			if rowIdx < len(matrix) && colIdx < len(matrix[rowIdx]) && matrix[rowIdx][colIdx] == diff.Different {
				style = styles.diff
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return fmt.Errorf("style cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return setColumnWidths(f, sheet, t.Columns, t.Rows)
}

// writeGrid writes headers and rows with the standard header/wrap styles.
func writeGrid(f *excelize.File, sheet string, headers []string, rows [][]string, styles styleSet) error {
	return writeGridStyled(f, sheet, headers, rows, styles, styles.wrap)
}

func writeGridStyled(f *excelize.File, sheet string, headers []string, rows [][]string, styles styleSet, bodyStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, headers, styles.header); err != nil {
		return err
	}
	for idx, row := range rows {
		if err := setRow(f, sheet, idx+2, row, bodyStyle); err != nil {
			return err
		}
	}
	return setColumnWidths(f, sheet, headers, rows)
}

func setRow(f *excelize.File, sheet string, rowNumber int, values []string, style int) error {
	if len(values) == 0 {
		return nil
	}
	cells := make([]any, len(values))
	for idx, value := range values {
		cells[idx] = value
	}
	anchor, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, anchor, &cells); err != nil {
		return fmt.Errorf("write row %d of %s: %w", rowNumber, sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(values), rowNumber)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, anchor, last, style); err != nil {
		return fmt.Errorf("style row %d of %s: %w", rowNumber, sheet, err)
	}
	return nil
}

// setColumnWidths sizes each column to its longest line, clamped to keep
// wrapped multi-line text readable.
func setColumnWidths(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	count := len(headers)
	for _, row := range rows {
		if len(row) > count {
			count = len(row)
		}
	}
	for col := 0; col < count; col++ {
		longest := 0
		if col < len(headers) {
			longest = longestLine(headers[col])
		}
		for _, row := range rows {
			if col < len(row) {
				if n := longestLine(row[col]); n > longest {
					longest = n
				}
			}
		}
		width := float64(longest) + 3
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set width of %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

func longestLine(value string) int {
	longest := 0
	for _, line := range strings.Split(value, "\n") {
		if len(line) > longest {
			longest = len(line)
		}
	}
	return longest
}

// holisticGrid lays out one block per entity: a title row with the display
// name and key, then the matched rows of every child side by side, paired
// positionally, with a blank separator column between children and a blank
// row between entities.
func holisticGrid(keys []string, records map[string]combine.Record, children []combine.Child) ([]string, [][]string) {
	var headers []string
	for idx, child := range children {
		if idx > 0 {
			headers = append(headers, "")
		}
		for _, label := range childLabels(child) {
			headers = append(headers, Titled(label))
		}
	}
	width := len(headers)
	if width < 2 {
		width = 2
	}

	var rows [][]string
	for _, key := range keys {
		record, ok := records[key]
		if !ok {
			continue
		}

		title := make([]string, width)
		title[0] = strings.ToUpper(record.Name)
		title[1] = record.Key
		rows = append(rows, title)

		height := 0
		for _, child := range children {
			if n := len(record.Children[child.Name]); n > height {
				height = n
			}
		}
		for i := 0; i < height; i++ {
			row := make([]string, width)
			col := 0
			for idx, child := range children {
				if idx > 0 {
					col++ // separator column
				}
				matched := record.Children[child.Name]
				for _, label := range childLabels(child) {
					if i < len(matched) {
						row[col] = matched[i][label]
					}
					col++
				}
			}
			rows = append(rows, row)
		}
		rows = append(rows, make([]string, width))
	}

	return headers, rows
}

// Titled upper-cases the first rune of a label for display headers.
func Titled(label string) string {
	runes := []rune(label)
	if len(runes) == 0 {
		return label
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// finishWorkbook drops the default sheet, activates the primary one, and
// saves with write-conflict fallback.
func finishWorkbook(f *excelize.File, path, active string) (string, error) {
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("drop default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(active)
	if err != nil {
		return "", fmt.Errorf("resolve sheet %s: %w", active, err)
	}
	f.SetActiveSheet(idx)
	return saveWithFallback(path, func(p string) error {
		return f.SaveAs(p)
	})
}
