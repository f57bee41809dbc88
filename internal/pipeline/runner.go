// Package pipeline orchestrates the batch runs: read input tables, apply
// the pure transformations, write the derived outputs. Each run constructs
// its state fresh and discards it at the end.
package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rpattn/fdirkit/internal/combine"
	"github.com/rpattn/fdirkit/internal/config"
	"github.com/rpattn/fdirkit/internal/diff"
	"github.com/rpattn/fdirkit/internal/lookup"
	"github.com/rpattn/fdirkit/internal/report"
	"github.com/rpattn/fdirkit/internal/table"
)

// Runner executes one batch transformation against the configured inputs.
type Runner struct {
	cfg config.Config
	log *zap.Logger
}

// New creates a runner; every run is tagged with a fresh identifier in the
// logs.
func New(cfg config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg: cfg,
		log: logger.With(zap.String("run", uuid.New().String())),
	}
}

type rulesInput struct {
	definitions table.Table
	monitors    table.Table
	conditions  table.Table
}

func (r *Runner) loadRules() (rulesInput, error) {
	var in rulesInput
	var err error

	if in.definitions, err = table.ReadSheet(r.cfg.InputPath, r.cfg.Sheets.Definitions); err != nil {
		return in, err
	}
	if in.monitors, err = table.ReadSheet(r.cfg.InputPath, r.cfg.Sheets.Monitors); err != nil {
		return in, err
	}
	if in.conditions, err = table.ReadSheet(r.cfg.InputPath, r.cfg.Sheets.Conditions); err != nil {
		return in, err
	}

	r.log.Info("loaded rules workbook",
		zap.String("path", r.cfg.InputPath),
		zap.Int("definitions", in.definitions.RowCount()),
		zap.Int("monitors", in.monitors.RowCount()),
		zap.Int("conditions", in.conditions.RowCount()))
	return in, nil
}

// children describes the monitors and conditions tables for the combiner.
// With raw labels the original column names flow through to flat outputs;
// otherwise rows carry the display labels used by the nested views.
func (r *Runner) children(in rulesInput, rawLabels bool) []combine.Child {
	cols := r.cfg.Columns
	monitors := combine.Child{
		Name:      "monitors",
		Table:     in.monitors,
		KeyColumn: cols.Key,
		Fields:    []string{cols.Monitor, cols.Threshold},
		Labels:    []string{"monitor", "threshold"},
	}
	conditions := combine.Child{
		Name:           "conditions",
		Table:          in.conditions,
		KeyColumn:      cols.Key,
		ValidityColumn: cols.Condition,
		Fields:         []string{cols.Condition, cols.Count, cols.Response},
		Labels:         []string{"condition", "count", "response"},
	}
	if rawLabels {
		monitors.Labels = nil
		conditions.Labels = nil
	}
	return []combine.Child{monitors, conditions}
}

func (r *Runner) mode(fallback combine.KeyMode) combine.KeyMode {
	switch r.cfg.Mode {
	case string(combine.KeyModeParent):
		return combine.KeyModeParent
	case string(combine.KeyModeUnion):
		return combine.KeyModeUnion
	}
	return fallback
}

// Combine produces the nested combined view of the rules workbook and
// writes the JSON, text, CSV, and multi-sheet spreadsheet outputs.
func (r *Runner) Combine() ([]string, error) {
	in, err := r.loadRules()
	if err != nil {
		return nil, err
	}
	children := r.children(in, false)

	records, keys, err := combine.Combine(combine.Request{
		Parent:     in.definitions,
		NameColumn: r.cfg.Columns.Name,
		KeyColumn:  r.cfg.Columns.Key,
		Children:   children,
		Mode:       r.mode(combine.KeyModeParent),
		Aliases:    r.cfg.Aliases,
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("combined entities", zap.Int("entities", len(keys)))

	if err := report.EnsureDir(r.cfg.OutputDir); err != nil {
		return nil, err
	}

	var written []string
	record := func(path string, err error) error {
		if err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	path, err := report.WriteCombinedJSON(r.out("combined_data.json"), keys, records, children)
	if err := record(path, err); err != nil {
		return written, err
	}
	path, err = report.WriteCombinedText(r.out("combined_data.txt"), keys, records, children)
	if err := record(path, err); err != nil {
		return written, err
	}

	flatHeaders, flatRows := r.flatten(keys, records, children, "FDIR", "ID", true)
	path, err = report.WriteCSV(r.out("combined_data.csv"), flatHeaders, flatRows)
	if err := record(path, err); err != nil {
		return written, err
	}

	path, err = report.WriteCombineWorkbook(r.out("combined_output.xlsx"), report.CombineWorkbook{
		Keys:     keys,
		Records:  records,
		Children: children,
		Sources: []report.NamedTable{
			{Name: "Definitions", Table: in.definitions},
			{Name: "Monitors", Table: in.monitors},
			{Name: "Conditions", Table: in.conditions},
		},
		FlatHeaders: flatHeaders,
		FlatRows:    flatRows,
	})
	if err := record(path, err); err != nil {
		return written, err
	}

	r.logWritten(written)
	return written, nil
}

// Flatten produces the union-mode flat view merged with the response
// lookup and writes it as a spreadsheet and CSV.
func (r *Runner) Flatten() ([]string, error) {
	in, err := r.loadRules()
	if err != nil {
		return nil, err
	}
	children := r.children(in, true)

	records, keys, err := combine.Combine(combine.Request{
		Parent:     in.definitions,
		NameColumn: r.cfg.Columns.Name,
		KeyColumn:  r.cfg.Columns.Key,
		Children:   children,
		Mode:       r.mode(combine.KeyModeUnion),
		Aliases:    r.cfg.Aliases,
	})
	if err != nil {
		return nil, err
	}

	headers, rows := r.flatten(keys, records, children, r.cfg.Columns.Name, r.cfg.Columns.Key, false)

	entries, _, err := r.loadResponses()
	if err != nil {
		r.log.Warn("continuing without response lookup", zap.Error(err))
	} else {
		headers, rows = combine.MergeResponses(headers, rows, r.cfg.Columns.Response, entries)
	}

	if err := report.EnsureDir(r.cfg.OutputDir); err != nil {
		return nil, err
	}

	var written []string
	path, err := report.WriteFlatWorkbook(r.out("combined_flat_with_responses.xlsx"), "Combined_Data", headers, rows)
	if err != nil {
		return nil, err
	}
	written = append(written, path)

	path, err = report.WriteCSV(r.out("combined_flat_with_responses.csv"), headers, rows)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	r.log.Info("flattened entities", zap.Int("entities", len(keys)), zap.Int("rows", len(rows)))
	r.logWritten(written)
	return written, nil
}

// Compare diffs two spreadsheet files cell by cell and writes the
// highlighted comparison workbook plus both aligned tables as CSV.
func (r *Runner) Compare(pathA, pathB string) ([]string, error) {
	a, err := table.ReadFile(pathA)
	if err != nil {
		return nil, err
	}
	b, err := table.ReadFile(pathB)
	if err != nil {
		return nil, err
	}

	res := diff.Compare(a, b)
	r.log.Info("compared tables",
		zap.String("fileA", pathA),
		zap.String("fileB", pathB),
		zap.Int("totalCells", res.Stats.TotalCells),
		zap.Int("differentCells", res.Stats.DifferentCells),
		zap.Float64("differencePercent", res.Stats.DifferencePercent))

	if err := report.EnsureDir(r.cfg.OutputDir); err != nil {
		return nil, err
	}

	var written []string
	path, err := report.WriteCompareWorkbook(r.out("excel_comparison.xlsx"), res)
	if err != nil {
		return nil, err
	}
	written = append(written, path)

	path, err = report.WriteCSV(r.out("comparison_file1.csv"), res.AlignedA.Columns, res.AlignedA.Rows)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	path, err = report.WriteCSV(r.out("comparison_file2.csv"), res.AlignedB.Columns, res.AlignedB.Rows)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	r.logWritten(written)
	return written, nil
}

// Lookup regenerates the response lookup table in spreadsheet, CSV, and
// JSON form.
func (r *Runner) Lookup() ([]string, error) {
	entries, codes, err := r.loadResponses()
	if err != nil {
		return nil, err
	}
	r.log.Info("built response lookup", zap.Int("responses", len(codes)))

	if err := report.EnsureDir(r.cfg.OutputDir); err != nil {
		return nil, err
	}

	headers := []string{lookup.ColumnResponse, lookup.ColumnResponseText, "recovery_steps"}
	sheetRows := make([][]string, 0, len(codes))
	csvRows := make([][]string, 0, len(codes))
	for _, code := range codes {
		entry := entries[code]
		sheetRows = append(sheetRows, []string{code, entry.Text(), entry.Steps()})
		csvRows = append(csvRows, []string{
			code,
			joinSingleLine(entry.Text()),
			joinSingleLine(entry.Steps()),
		})
	}

	var written []string
	path, err := report.WriteFlatWorkbook(r.lookupPath(), "Response Lookup", headers, sheetRows)
	if err != nil {
		return nil, err
	}
	written = append(written, path)

	path, err = report.WriteCSV(r.out("response_lookup_table.csv"), headers, csvRows)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	path, err = report.WriteLookupJSON(r.out("response_lookup.json"), entries)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	r.logWritten(written)
	return written, nil
}

func (r *Runner) loadResponses() (map[string]lookup.Entry, []string, error) {
	responses, err := table.ReadFile(r.cfg.ResponsePath)
	if err != nil {
		return nil, nil, err
	}
	return lookup.Build(responses)
}

// flatten renders records as flat rows prefixed with the entity name and
// key. Titled headers capitalize the display labels for the CSV output.
func (r *Runner) flatten(keys []string, records map[string]combine.Record, children []combine.Child, nameHeader, keyHeader string, titledHeaders bool) ([]string, [][]string) {
	headers := append([]string{nameHeader, keyHeader}, combine.FlatHeaders(children)...)
	if titledHeaders {
		for idx := 2; idx < len(headers); idx++ {
			headers[idx] = report.Titled(headers[idx])
		}
	}

	var rows [][]string
	for _, key := range keys {
		record, ok := records[key]
		if !ok {
			continue
		}
		for _, flat := range combine.Flatten(record, children) {
			rows = append(rows, append([]string{record.Name, record.Key}, flat...))
		}
	}
	return headers, rows
}

func (r *Runner) out(name string) string {
	return filepath.Join(r.cfg.OutputDir, name)
}

// lookupPath prefers the configured lookup destination, defaulting into
// the output directory.
func (r *Runner) lookupPath() string {
	if r.cfg.LookupPath != "" {
		return r.cfg.LookupPath
	}
	return r.out("response_lookup_table.xlsx")
}

func (r *Runner) logWritten(paths []string) {
	for _, path := range paths {
		r.log.Info("wrote output", zap.String("path", path))
	}
}

// joinSingleLine collapses multi-line cell text into the single-line CSV
// form, separating lines with " | ".
func joinSingleLine(value string) string {
	return strings.ReplaceAll(value, "\n", " | ")
}
