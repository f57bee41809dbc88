package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// ReadFile loads a tabular file, dispatching on the extension. Excel files
// are read from their first sheet.
func ReadFile(path string) (Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadSheet(path, "")
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ReadSheet loads one sheet of an Excel workbook. An empty sheet name
// selects the first sheet.
func ReadSheet(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return Table{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("%w: %s has no sheets", ErrInputNotFound, path)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !containsSheet(sheets, sheet) {
		return Table{}, fmt.Errorf("%w: sheet %s in %s", ErrInputNotFound, sheet, path)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return normalize(records)
}

// ReadCSV loads a CSV file, tolerating a UTF-8 BOM and ragged records.
func ReadCSV(path string) (Table, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return Table{}, fmt.Errorf("read csv %s: %w", path, err)
	}

	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return normalize(records)
}

// normalize turns raw records into a Table: the first non-empty row is the
// header, cells are trimmed, fully empty rows are dropped, and ragged rows
// are padded to the header width.
func normalize(records [][]string) (Table, error) {
	var headers []string
	var rows [][]string

	for _, record := range records {
		trimmed := make([]string, len(record))
		for i, cell := range record {
			trimmed[i] = strings.TrimSpace(cell)
		}
		if IsEmptyRow(trimmed) {
			continue
		}
		if headers == nil {
			headers = trimmed
			continue
		}
		rows = append(rows, trimmed)
	}

	if headers == nil {
		return Table{}, errors.New("no header row detected")
	}

	for i := range rows {
		rows[i] = PadRow(rows[i], len(headers))
	}

	return Table{Columns: headers, Rows: rows}, nil
}

func containsSheet(sheets []string, name string) bool {
	for _, sheet := range sheets {
		if sheet == name {
			return true
		}
	}
	return false
}
