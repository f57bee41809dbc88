// Package lookup builds the response lookup table: a mapping from response
// code to its human-readable explanation and recovery steps.
package lookup

import (
	"fmt"
	"strings"

	"github.com/rpattn/fdirkit/internal/table"
)

const (
	ColumnResponse     = "response"
	ColumnResponseText = "response_text"
	ColumnRecoveryText = "recovery_text"
)

// Entry holds the cleaned explanation for one response code. Single-line
// response text stays a string; multi-line text becomes a line array.
type Entry struct {
	ResponseText      string   `json:"response_text,omitempty"`
	ResponseTextLines []string `json:"response_text_lines,omitempty"`
	RecoverySteps     []string `json:"recovery_steps,omitempty"`
}

// Text returns the response text as a single newline-joined string.
func (e Entry) Text() string {
	if e.ResponseText != "" {
		return e.ResponseText
	}
	return strings.Join(e.ResponseTextLines, "\n")
}

// Steps returns the recovery steps as a single newline-joined string.
func (e Entry) Steps() string {
	return strings.Join(e.RecoverySteps, "\n")
}

// Build reads the response table and returns the lookup entries keyed by
// response code, plus the codes in first-seen source order. Rows with an
// empty response code are dropped; exact duplicate rows collapse to one.
func Build(tbl table.Table) (map[string]Entry, []string, error) {
	if err := tbl.RequireColumns(ColumnResponse, ColumnResponseText, ColumnRecoveryText); err != nil {
		return nil, nil, fmt.Errorf("response table: %w", err)
	}

	entries := make(map[string]Entry)
	var codes []string
	seen := make(map[string]struct{})

	for idx := range tbl.Rows {
		code := tbl.Cell(idx, ColumnResponse)
		if code == "" {
			continue
		}
		rawText := tbl.Cell(idx, ColumnResponseText)
		rawSteps := tbl.Cell(idx, ColumnRecoveryText)

		dedupe := code + "\x00" + rawText + "\x00" + rawSteps
		if _, dup := seen[dedupe]; dup {
			continue
		}
		seen[dedupe] = struct{}{}

		entry := Entry{}
		if lines := splitLines(rawText); len(lines) == 1 {
			entry.ResponseText = lines[0]
		} else if len(lines) > 1 {
			entry.ResponseTextLines = lines
		}
		entry.RecoverySteps = splitLines(rawSteps)

		if _, exists := entries[code]; !exists {
			codes = append(codes, code)
		}
		entries[code] = entry
	}

	return entries, codes, nil
}

// splitLines breaks cell text into trimmed non-empty lines. Literal "\n"
// sequences surviving from export are treated as newlines.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, `\n`, "\n")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
