package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"viznorm/internal/models"
	"viznorm/pkg/fingerprint"
)

// Excel caps sheet names at 31 characters.
const maxSheetNameLen = 31

var invalidSheetChars = strings.NewReplacer(
	"[", " ", "]", " ", ":", " ", "*", " ", "?", " ", "/", " ", "\\", " ",
)

// ExportXLSX writes spec as a workbook with one sheet per series, plus a
// summary sheet carrying the spec fingerprint when enabled.
func (e *Exporter) ExportXLSX(spec *models.ChartSpec, path string) error {
	if err := validateSpec(spec); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// The fresh workbook starts with one default sheet; the first sheet we
	// add renames it instead of leaving it behind.
	renamedFirst := false
	addSheet := func(name string) error {
		if !renamedFirst {
			renamedFirst = true

			return f.SetSheetName(f.GetSheetName(0), name)
		}

		_, err := f.NewSheet(name)

		return err
	}

	used := map[string]bool{}

	if e.cfg.Features.SummarySheet {
		used["Summary"] = true

		if err := addSheet("Summary"); err != nil {
			return fmt.Errorf("failed to add summary sheet: %w", err)
		}

		if err := e.writeSummarySheet(f, spec); err != nil {
			return err
		}
	}

	for i, s := range spec.Series {
		name := uniqueSheetName(used, sanitizeSheetName(seriesLabel(s, i)))

		if err := addSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}

		if err := writeSeriesSheet(f, name, s); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}

	return nil
}

func (e *Exporter) writeSummarySheet(f *excelize.File, spec *models.ChartSpec) error {
	title := spec.Layout.Title
	if title == "" {
		title = e.cfg.DefaultTitle()
	}

	kind := string(spec.Series[0].Kind)
	for _, s := range spec.Series[1:] {
		if string(s.Kind) != kind {
			kind = "mixed"
			break
		}
	}

	points := 0
	for _, s := range spec.Series {
		points += s.PointCount()
	}

	rows := [][]any{
		{"Title", title},
		{"Chart kind", kind},
		{"Series", len(spec.Series)},
		{"Total points", points},
	}

	if fp, err := fingerprint.Compute(spec); err == nil {
		rows = append(rows, []any{"Fingerprint", fingerprint.Short(fp)})
	}

	return writeRows(f, "Summary", rows)
}

func writeSeriesSheet(f *excelize.File, sheet string, s models.ChartSeries) error {
	var rows [][]any

	if s.Kind == models.KindPie {
		rows = append(rows, []any{"Label", "Value"})
		for i := range s.Labels {
			rows = append(rows, []any{s.Labels[i], s.Values[i]})
		}
	} else {
		rows = append(rows, []any{"X", "Y"})
		for i := range s.Y {
			var x any
			if i < len(s.X) {
				x = s.X[i]
			}

			rows = append(rows, []any{x, s.Y[i]})
		}
	}

	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)

			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}

	return nil
}

func sanitizeSheetName(name string) string {
	clean := strings.TrimSpace(invalidSheetChars.Replace(name))
	if clean == "" {
		return "Sheet"
	}

	return truncateRunes(clean, maxSheetNameLen)
}

func uniqueSheetName(used map[string]bool, base string) string {
	name := base
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		name = truncateRunes(base, maxSheetNameLen-len(suffix)) + suffix
	}

	used[name] = true

	return name
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}
