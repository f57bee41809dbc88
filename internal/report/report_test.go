package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpattn/fdirkit/internal/combine"
)

func combinedFixture() ([]string, map[string]combine.Record, []combine.Child) {
	children := []combine.Child{
		{
			Name:   "monitors",
			Fields: []string{"mons", "thresholds"},
			Labels: []string{"monitor", "threshold"},
		},
		{
			Name:   "conditions",
			Fields: []string{"condition_mons", "counts", "response"},
			Labels: []string{"condition", "count", "response"},
		},
	}
	records := map[string]combine.Record{
		"fpu_batt": {
			Name: "Battery",
			Key:  "fpu_batt",
			Children: map[string][]combine.Row{
				"monitors": {
					{"monitor": "batt_v", "threshold": "< 24V"},
				},
				"conditions": {},
			},
		},
	}
	return []string{"fpu_batt"}, records, children
}

func TestWriteCombinedJSON(t *testing.T) {
	keys, records, children := combinedFixture()
	path := filepath.Join(t.TempDir(), "combined_data.json")

	written, err := WriteCombinedJSON(path, keys, records, children)
	if err != nil {
		t.Fatalf("write json: %v", err)
	}
	if written != path {
		t.Fatalf("expected primary path, got %q", written)
	}

	payload, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var document map[string]map[string]any
	if err := json.Unmarshal(payload, &document); err != nil {
		t.Fatalf("decode: %v", err)
	}

	battery, ok := document["Battery"]
	if !ok {
		t.Fatalf("entity keyed by display name missing: %v", document)
	}
	if battery["id"] != "fpu_batt" {
		t.Fatalf("unexpected id: %v", battery["id"])
	}
	monitors, ok := battery["monitors"].([]any)
	if !ok || len(monitors) != 1 {
		t.Fatalf("unexpected monitors: %v", battery["monitors"])
	}
	conditions, ok := battery["conditions"].([]any)
	if !ok || len(conditions) != 0 {
		t.Fatalf("empty child must serialize as an empty list: %v", battery["conditions"])
	}
}

func TestWriteCombinedText(t *testing.T) {
	keys, records, children := combinedFixture()
	path := filepath.Join(t.TempDir(), "combined_data.txt")

	written, err := WriteCombinedText(path, keys, records, children)
	if err != nil {
		t.Fatalf("write text: %v", err)
	}

	payload, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	text := string(payload)

	for _, want := range []string{
		"HOLISTIC VIEW - ALL FDIRS",
		"BATTERY (ID: fpu_batt)",
		"MONITORS:",
		"  - batt_v",
		"threshold: < 24V",
		"CONDITIONS:",
		"  (no conditions)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	written, err := WriteCSV(path, []string{"a", "b"}, [][]string{{"1", "with,comma"}})
	if err != nil {
		t.Fatalf("write csv: %v", err)
	}

	payload, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	got := string(payload)
	if got != "a,b\n1,\"with,comma\"\n" {
		t.Fatalf("unexpected csv content: %q", got)
	}
}

func TestTitled(t *testing.T) {
	if Titled("monitor") != "Monitor" {
		t.Fatalf("unexpected: %q", Titled("monitor"))
	}
	if Titled("") != "" {
		t.Fatalf("empty label must stay empty")
	}
}
