package combine

import "github.com/rpattn/fdirkit/internal/lookup"

// MergeResponses left-joins flat rows against the response lookup on the
// named response column, appending response text and recovery step columns.
// Rows whose code has no lookup entry get empty cells.
func MergeResponses(headers []string, rows [][]string, responseColumn string, entries map[string]lookup.Entry) ([]string, [][]string) {
	codeIdx := -1
	for idx, header := range headers {
		if header == responseColumn {
			codeIdx = idx
			break
		}
	}

	merged := append(append([]string{}, headers...), lookup.ColumnResponseText, "recovery_steps")
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		text, steps := "", ""
		if codeIdx >= 0 && codeIdx < len(row) {
			if entry, ok := entries[row[codeIdx]]; ok {
				text = entry.Text()
				steps = entry.Steps()
			}
		}
		out = append(out, append(append([]string{}, row...), text, steps))
	}
	return merged, out
}
