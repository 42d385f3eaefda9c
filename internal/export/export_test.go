package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"viznorm/internal/config"
	"viznorm/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Normalizer.Export.OutputDir = t.TempDir()

	return cfg
}

func sampleSpec() *models.ChartSpec {
	return &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindBar, Name: "sales", X: []any{"Q1", "Q2"}, Y: []float64{100, 120}},
			{Kind: models.KindBar, Name: "profit", X: []any{"Q1", "Q2"}, Y: []float64{20, 25.5}},
		},
		Layout: models.ChartLayout{Title: "Quarterly"},
	}
}

func TestExportJSON(t *testing.T) {
	cfg := testConfig(t)
	e := NewExporter(cfg)

	path := filepath.Join(cfg.Normalizer.Export.OutputDir, "spec.json")
	if err := e.ExportJSON(sampleSpec(), path); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}

	var loaded models.ChartSpec
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Exported JSON does not parse: %v", err)
	}

	if len(loaded.Series) != 2 {
		t.Errorf("Expected 2 series, got %d", len(loaded.Series))
	}

	if loaded.Series[0].Name != "sales" {
		t.Errorf("Expected first series sales, got %s", loaded.Series[0].Name)
	}

	if loaded.Layout.Title != "Quarterly" {
		t.Errorf("Expected title preserved, got %q", loaded.Layout.Title)
	}
}

func TestExportJSON_PrettyPrint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Normalizer.Export.PrettyPrint = true
	e := NewExporter(cfg)

	path := filepath.Join(cfg.Normalizer.Export.OutputDir, "pretty.json")
	if err := e.ExportJSON(sampleSpec(), path); err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}

	if !strings.Contains(string(data), "\n  ") {
		t.Error("Expected indented output with pretty_print enabled")
	}
}

func TestExportCSV(t *testing.T) {
	cfg := testConfig(t)
	e := NewExporter(cfg)

	path := filepath.Join(cfg.Normalizer.Export.OutputDir, "spec.csv")
	if err := e.ExportCSV(sampleSpec(), path); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open exported file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Exported CSV does not parse: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "x" || header[1] != "sales" || header[2] != "profit" {
		t.Errorf("Unexpected header: %v", header)
	}

	if records[1][0] != "Q1" || records[1][1] != "100" || records[1][2] != "20" {
		t.Errorf("Unexpected first row: %v", records[1])
	}

	if records[2][2] != "25.5" {
		t.Errorf("Unexpected second row: %v", records[2])
	}
}

func TestExportCSV_Pie(t *testing.T) {
	cfg := testConfig(t)
	e := NewExporter(cfg)

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindPie, Labels: []string{"alpha", "beta"}, Values: []float64{60, 40}},
		},
	}

	path := filepath.Join(cfg.Normalizer.Export.OutputDir, "pie.csv")
	if err := e.ExportCSV(spec, path); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open exported file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Exported CSV does not parse: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(records))
	}

	if records[0][0] != "label" || records[0][1] != "value" {
		t.Errorf("Unexpected header: %v", records[0])
	}

	if records[1][0] != "alpha" || records[1][1] != "60" {
		t.Errorf("Unexpected first row: %v", records[1])
	}
}

func TestExportXLSX(t *testing.T) {
	cfg := testConfig(t)
	e := NewExporter(cfg)

	path := filepath.Join(cfg.Normalizer.Export.OutputDir, "spec.xlsx")
	if err := e.ExportXLSX(sampleSpec(), path); err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open exported workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("Expected 3 sheets, got %v", sheets)
	}

	if sheets[0] != "Summary" || sheets[1] != "sales" || sheets[2] != "profit" {
		t.Errorf("Unexpected sheet order: %v", sheets)
	}

	rows, err := f.GetRows("sales")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}

	if rows[0][0] != "X" || rows[0][1] != "Y" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}

	if rows[1][0] != "Q1" || rows[1][1] != "100" {
		t.Errorf("Unexpected data row: %v", rows[1])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("GetRows(Summary) failed: %v", err)
	}

	if len(summary) != 5 {
		t.Fatalf("Expected 5 summary rows, got %d", len(summary))
	}

	if summary[0][1] != "Quarterly" {
		t.Errorf("Expected title in summary, got %v", summary[0])
	}

	if summary[4][0] != "Fingerprint" || len(summary[4][1]) != 12 {
		t.Errorf("Expected short fingerprint row, got %v", summary[4])
	}
}

func TestExportXLSX_WithoutSummarySheet(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.SummarySheet = false
	e := NewExporter(cfg)

	path := filepath.Join(cfg.Normalizer.Export.OutputDir, "nosummary.xlsx")
	if err := e.ExportXLSX(sampleSpec(), path); err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open exported workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "sales" {
		t.Errorf("Expected series sheets only, got %v", sheets)
	}
}

func TestExportXLSX_DuplicateSeriesNames(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.SummarySheet = false
	e := NewExporter(cfg)

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindBar, Name: "sales", X: []any{"a"}, Y: []float64{1}},
			{Kind: models.KindBar, Name: "sales", X: []any{"a"}, Y: []float64{2}},
		},
	}

	path := filepath.Join(cfg.Normalizer.Export.OutputDir, "dup.xlsx")
	if err := e.ExportXLSX(spec, path); err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open exported workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "sales" || sheets[1] != "sales 2" {
		t.Errorf("Expected deduplicated sheet names, got %v", sheets)
	}
}

func TestExport_Dispatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Normalizer.Export.Format = config.FormatCSV
	e := NewExporter(cfg)

	path, err := e.Export(sampleSpec(), "quarterly")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.HasSuffix(path, "quarterly.csv") {
		t.Errorf("Unexpected export path: %s", path)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected exported file to exist: %v", err)
	}
}

func TestExport_InvalidSpec(t *testing.T) {
	cfg := testConfig(t)
	e := NewExporter(cfg)

	if _, err := e.Export(nil, "x"); !errors.Is(err, ErrNilSpec) {
		t.Errorf("Expected ErrNilSpec, got %v", err)
	}

	empty := &models.ChartSpec{}
	if _, err := e.Export(empty, "x"); !errors.Is(err, ErrNoSeries) {
		t.Errorf("Expected ErrNoSeries, got %v", err)
	}

	mismatched := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindBar, Name: "sales", X: []any{"a", "b"}, Y: []float64{1}},
		},
	}
	if _, err := e.Export(mismatched, "x"); !errors.Is(err, models.ErrSeriesLengthMismatch) {
		t.Errorf("Expected ErrSeriesLengthMismatch, got %v", err)
	}
}
