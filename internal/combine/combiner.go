package combine

import (
	"fmt"
	"sort"

	"github.com/rpattn/fdirkit/internal/table"
)

// KeyMode selects how join keys are resolved against the parent table.
type KeyMode string

const (
	// KeyModeParent keeps only keys present in the parent table. Duplicate
	// parent keys resolve last-write-wins; child rows with unknown keys are
	// excluded.
	KeyModeParent KeyMode = "parent"

	// KeyModeUnion combines every key seen in any child table, sorted
	// ascending. Keys missing from the parent get a generated
	// "Unknown_<key>" display name unless an alias supplies one.
	KeyModeUnion KeyMode = "union"
)

// Child describes one child table joined to the parent by key.
type Child struct {
	Name      string
	Table     table.Table
	KeyColumn string

	// ValidityColumn, when set, drops child rows whose cell in that column
	// is empty before selection.
	ValidityColumn string

	// Fields are the child columns carried into combined records, in output
	// order. Labels, when set, rename them in records and flat headers.
	Fields []string
	Labels []string
}

func (c Child) labels() []string {
	if len(c.Labels) == len(c.Fields) {
		return c.Labels
	}
	return c.Fields
}

// Row is one matched child row, keyed by output label.
type Row map[string]string

// Record is the combined view of a single entity across all child tables.
// Child row lists preserve the source order of each child table.
type Record struct {
	Name     string
	Key      string
	Children map[string][]Row
}

// Request describes a combine run.
type Request struct {
	Parent     table.Table
	NameColumn string
	KeyColumn  string
	Children   []Child
	Mode       KeyMode

	// Aliases maps keys to display names, overriding the parent mapping.
	// Applied before the Unknown_ fallback in union mode.
	Aliases map[string]string
}

// Combine joins every child table to the parent by key and returns the
// records keyed by entity key, plus the ordered key list: parent row order
// for KeyModeParent, sorted key order for KeyModeUnion.
func Combine(req Request) (map[string]Record, []string, error) {
	if err := req.Parent.RequireColumns(req.NameColumn, req.KeyColumn); err != nil {
		return nil, nil, fmt.Errorf("parent table: %w", err)
	}
	for _, child := range req.Children {
		required := append([]string{child.KeyColumn}, child.Fields...)
		if child.ValidityColumn != "" {
			required = append(required, child.ValidityColumn)
		}
		if err := child.Table.RequireColumns(required...); err != nil {
			return nil, nil, fmt.Errorf("child table %s: %w", child.Name, err)
		}
	}

	names := make(map[string]string, req.Parent.RowCount())
	parentOrder := make([]string, 0, req.Parent.RowCount())
	for idx := range req.Parent.Rows {
		key := req.Parent.Cell(idx, req.KeyColumn)
		if key == "" {
			continue
		}
		if _, seen := names[key]; !seen {
			parentOrder = append(parentOrder, key)
		}
		names[key] = req.Parent.Cell(idx, req.NameColumn)
	}
	for key, name := range req.Aliases {
		names[key] = name
	}

	keys := parentOrder
	if req.Mode == KeyModeUnion {
		keys = unionKeys(req.Children)
	}

	records := make(map[string]Record, len(keys))
	for _, key := range keys {
		name, known := names[key]
		if !known {
			name = fmt.Sprintf("Unknown_%s", key)
		}
		record := Record{
			Name:     name,
			Key:      key,
			Children: make(map[string][]Row, len(req.Children)),
		}
		for _, child := range req.Children {
			record.Children[child.Name] = matchRows(child, key)
		}
		records[key] = record
	}

	return records, keys, nil
}

// unionKeys collects every distinct non-empty key across all child tables,
// sorted ascending.
func unionKeys(children []Child) []string {
	seen := make(map[string]struct{})
	for _, child := range children {
		for idx := range child.Table.Rows {
			key := child.Table.Cell(idx, child.KeyColumn)
			if key == "" {
				continue
			}
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// matchRows selects the child rows for a key, in source order, applying the
// validity filter first.
func matchRows(child Child, key string) []Row {
	labels := child.labels()
	matched := []Row{}
	for idx := range child.Table.Rows {
		if child.ValidityColumn != "" && child.Table.Cell(idx, child.ValidityColumn) == "" {
			continue
		}
		if child.Table.Cell(idx, child.KeyColumn) != key {
			continue
		}
		row := make(Row, len(child.Fields))
		for pos, field := range child.Fields {
			row[labels[pos]] = child.Table.Cell(idx, field)
		}
		matched = append(matched, row)
	}
	return matched
}

// FlatHeaders returns the flattened column labels contributed by the
// children, in child then field order.
func FlatHeaders(children []Child) []string {
	var headers []string
	for _, child := range children {
		headers = append(headers, child.labels()...)
	}
	return headers
}

// Flatten converts one record into row-aligned flat rows: the i-th matched
// row of every child is paired positionally, padded with empty fillers when
// counts differ. An entity with no rows in any child still yields exactly
// one all-filler row.
func Flatten(rec Record, children []Child) [][]string {
	height := 1
	for _, child := range children {
		if n := len(rec.Children[child.Name]); n > height {
			height = n
		}
	}

	rows := make([][]string, 0, height)
	for i := 0; i < height; i++ {
		var flat []string
		for _, child := range children {
			matched := rec.Children[child.Name]
			for _, label := range child.labels() {
				if i < len(matched) {
					flat = append(flat, matched[i][label])
				} else {
					flat = append(flat, "")
				}
			}
		}
		rows = append(rows, flat)
	}
	return rows
}
