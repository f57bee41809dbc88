package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/rpattn/fdirkit/internal/combine"
)

// WriteCombinedText writes the human-readable indented summary of the
// combined view, one section per entity in key order.
func WriteCombinedText(path string, keys []string, records map[string]combine.Record, children []combine.Child) (string, error) {
	var b strings.Builder

	b.WriteString("HOLISTIC VIEW - ALL FDIRS\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")

	for _, key := range keys {
		record, ok := records[key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n%s (ID: %s)\n", strings.ToUpper(record.Name), record.Key)
		b.WriteString(strings.Repeat("-", 50) + "\n")

		for _, child := range children {
			fmt.Fprintf(&b, "%s:\n", strings.ToUpper(child.Name))
			rows := record.Children[child.Name]
			if len(rows) == 0 {
				fmt.Fprintf(&b, "  (no %s)\n", child.Name)
				continue
			}
			labels := childLabels(child)
			for _, row := range rows {
				if len(labels) == 0 {
					continue
				}
				fmt.Fprintf(&b, "  - %s\n", row[labels[0]])
				if len(labels) > 1 {
					pairs := make([]string, 0, len(labels)-1)
					for _, label := range labels[1:] {
						pairs = append(pairs, fmt.Sprintf("%s: %s", label, row[label]))
					}
					fmt.Fprintf(&b, "    %s\n", strings.Join(pairs, ", "))
				}
			}
		}
	}

	payload := []byte(b.String())
	return saveWithFallback(path, func(p string) error {
		return os.WriteFile(p, payload, 0o644)
	})
}

func childLabels(child combine.Child) []string {
	if len(child.Labels) == len(child.Fields) {
		return child.Labels
	}
	return child.Fields
}
