package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rpattn/fdirkit/internal/combine"
)

// WriteCombinedJSON writes the nested per-entity combined view: a JSON
// object keyed by entity display name, each holding the key and the matched
// rows of every child table.
func WriteCombinedJSON(path string, keys []string, records map[string]combine.Record, children []combine.Child) (string, error) {
	document := make(map[string]map[string]any, len(keys))
	for _, key := range keys {
		record, ok := records[key]
		if !ok {
			continue
		}
		entity := map[string]any{"id": record.Key}
		for _, child := range children {
			rows := record.Children[child.Name]
			if rows == nil {
				rows = []combine.Row{}
			}
			entity[child.Name] = rows
		}
		document[record.Name] = entity
	}

	payload, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode combined json: %w", err)
	}
	payload = append(payload, '\n')

	return saveWithFallback(path, func(p string) error {
		return os.WriteFile(p, payload, 0o644)
	})
}

// WriteLookupJSON writes the response lookup entries keyed by response code.
func WriteLookupJSON(path string, entries any) (string, error) {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode lookup json: %w", err)
	}
	payload = append(payload, '\n')

	return saveWithFallback(path, func(p string) error {
		return os.WriteFile(p, payload, 0o644)
	})
}
