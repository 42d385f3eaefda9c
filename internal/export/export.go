// Package export writes normalized chart specs to JSON, CSV and XLSX
// files for use outside the chat surface.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"viznorm/internal/config"
	"viznorm/internal/models"
)

// Export errors.
var (
	ErrNilSpec           = errors.New("chart spec is nil")
	ErrNoSeries          = errors.New("chart spec has no series")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Exporter writes chart specs to the configured output directory.
type Exporter struct {
	cfg *config.Config
}

// NewExporter creates a new exporter.
func NewExporter(cfg *config.Config) *Exporter {
	return &Exporter{cfg: cfg}
}

// Export writes spec under the configured output directory and format,
// deriving the file name from name. Returns the path written.
func (e *Exporter) Export(spec *models.ChartSpec, name string) (string, error) {
	if err := validateSpec(spec); err != nil {
		return "", err
	}

	path := e.cfg.GetExportPath(name)

	var err error

	switch e.cfg.Normalizer.Export.Format {
	case config.FormatJSON:
		err = e.ExportJSON(spec, path)
	case config.FormatCSV:
		err = e.ExportCSV(spec, path)
	case config.FormatXLSX:
		err = e.ExportXLSX(spec, path)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, e.cfg.Normalizer.Export.Format)
	}

	if err != nil {
		return "", err
	}

	return path, nil
}

// ExportJSON writes the canonical spec JSON to path.
func (e *Exporter) ExportJSON(spec *models.ChartSpec, path string) error {
	if err := validateSpec(spec); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		data []byte
		err  error
	)

	if e.cfg.Normalizer.Export.PrettyPrint {
		data, err = json.MarshalIndent(spec, "", "  ")
	} else {
		data, err = json.Marshal(spec)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal spec: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

func validateSpec(spec *models.ChartSpec) error {
	if spec == nil {
		return ErrNilSpec
	}

	if len(spec.Series) == 0 {
		return ErrNoSeries
	}

	// CSV and XLSX writers pair X and Y by row index.
	for i := range spec.Series {
		if err := spec.Series[i].Validate(); err != nil {
			return fmt.Errorf("series %q: %w", seriesLabel(spec.Series[i], i), err)
		}
	}

	return nil
}

// seriesLabel names a series for headers and sheet names.
func seriesLabel(s models.ChartSeries, index int) string {
	if s.Name != "" {
		return s.Name
	}

	return fmt.Sprintf("series_%d", index+1)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatNumber(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}

	return fmt.Sprintf("%v", v)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
