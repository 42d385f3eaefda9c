package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"viznorm/internal/models"
)

// ExportCSV writes spec as a single flat table. Pie charts emit
// label/value pairs of the first series; cartesian charts emit the first
// series' x values with one column per series. Rows align by index, not
// by x value.
func (e *Exporter) ExportCSV(spec *models.ChartSpec, path string) error {
	if err := validateSpec(spec); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	for _, record := range csvRecords(spec) {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

func csvRecords(spec *models.ChartSpec) [][]string {
	first := spec.Series[0]

	if first.Kind == models.KindPie {
		records := [][]string{{"label", "value"}}
		for i := range first.Labels {
			records = append(records, []string{first.Labels[i], formatNumber(first.Values[i])})
		}

		return records
	}

	header := []string{"x"}

	columns := make([]models.ChartSeries, 0, len(spec.Series))
	for i, s := range spec.Series {
		if s.Kind == models.KindPie {
			continue
		}

		header = append(header, seriesLabel(s, i))
		columns = append(columns, s)
	}

	records := [][]string{header}

	for i := range first.X {
		record := []string{formatCell(first.X[i])}

		for _, s := range columns {
			if i < len(s.Y) {
				record = append(record, formatNumber(s.Y[i]))
			} else {
				record = append(record, "")
			}
		}

		records = append(records, record)
	}

	return records
}
