package lookup

import (
	"errors"
	"testing"

	"github.com/rpattn/fdirkit/internal/table"
)

func responseFixture() table.Table {
	return table.Table{
		Columns: []string{"response", "response_text", "recovery_text"},
		Rows: [][]string{
			{"R1", "Switch to backup battery", "Open breaker\nVerify bus voltage"},
			{"R2", "Reset tracker\nRe-acquire lock", `Power cycle\nWait 30s`},
			{"", "orphan text", "orphan steps"},
			{"R1", "Switch to backup battery", "Open breaker\nVerify bus voltage"},
		},
	}
}

func TestBuildLookup(t *testing.T) {
	entries, codes, err := Build(responseFixture())
	if err != nil {
		t.Fatalf("build returned error: %v", err)
	}

	if len(codes) != 2 || codes[0] != "R1" || codes[1] != "R2" {
		t.Fatalf("expected codes [R1 R2], got %v", codes)
	}

	r1 := entries["R1"]
	if r1.ResponseText != "Switch to backup battery" {
		t.Fatalf("single-line text must stay a string: %+v", r1)
	}
	if len(r1.ResponseTextLines) != 0 {
		t.Fatalf("single-line text must not produce a line array: %+v", r1)
	}
	if len(r1.RecoverySteps) != 2 || r1.RecoverySteps[1] != "Verify bus voltage" {
		t.Fatalf("unexpected recovery steps: %v", r1.RecoverySteps)
	}

	r2 := entries["R2"]
	if r2.ResponseText != "" || len(r2.ResponseTextLines) != 2 {
		t.Fatalf("multi-line text must become a line array: %+v", r2)
	}
	// Literal \n sequences in cells are treated as newlines.
	if len(r2.RecoverySteps) != 2 || r2.RecoverySteps[0] != "Power cycle" {
		t.Fatalf("unexpected recovery steps: %v", r2.RecoverySteps)
	}
}

func TestBuildLookupMissingColumn(t *testing.T) {
	tbl := table.Table{Columns: []string{"response", "response_text"}}
	_, _, err := Build(tbl)
	if !errors.Is(err, table.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}

func TestEntryJoins(t *testing.T) {
	entry := Entry{
		ResponseTextLines: []string{"line one", "line two"},
		RecoverySteps:     []string{"step one"},
	}
	if entry.Text() != "line one\nline two" {
		t.Fatalf("unexpected joined text: %q", entry.Text())
	}
	if entry.Steps() != "step one" {
		t.Fatalf("unexpected joined steps: %q", entry.Steps())
	}

	single := Entry{ResponseText: "only"}
	if single.Text() != "only" {
		t.Fatalf("unexpected single text: %q", single.Text())
	}
}
