package formatter

import (
	"strings"
	"testing"

	"viznorm/internal/config"
	"viznorm/internal/models"
	"viznorm/internal/normalizer"
)

func TestFormatSpec_BarChart(t *testing.T) {
	f := NewFormatter(config.DefaultConfig())

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindBar, Name: "sales", X: []any{"Q1", "Q2"}, Y: []float64{100, 120}},
			{Kind: models.KindBar, Name: "profit", X: []any{"Q1", "Q2"}, Y: []float64{20, 25}},
		},
		Layout: models.ChartLayout{Title: "Quarterly", XAxisLabel: "Quarter"},
	}

	expected := `
Quarterly
bar chart with 2 series (4 points)
X axis: Quarter

| X   | sales | profit |
| --- | ----- | ------ |
| Q1  | 100   | 20     |
| Q2  | 120   | 25     |
`

	got := f.FormatSpec(spec)
	if strings.TrimSpace(got) != strings.TrimSpace(expected) {
		t.Errorf("FormatSpec() = \n%v\nwant \n%v", got, expected)
	}
}

func TestFormatSpec_DefaultTitle(t *testing.T) {
	f := NewFormatter(config.DefaultConfig())

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindLine, X: []any{1.0}, Y: []float64{2.0}},
		},
	}

	got := f.FormatSpec(spec)
	if !strings.HasPrefix(got, "Data Visualization\n") {
		t.Errorf("Expected default title applied at render time, got:\n%s", got)
	}
}

func TestFormatSpec_PieChart(t *testing.T) {
	f := NewFormatter(config.DefaultConfig())

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindPie, Labels: []string{"alpha", "beta"}, Values: []float64{60, 40}},
		},
	}

	expected := `
Data Visualization
pie chart with 1 series (2 points)

| Label | Value |
| ----- | ----- |
| alpha | 60    |
| beta  | 40    |
`

	got := f.FormatSpec(spec)
	if strings.TrimSpace(got) != strings.TrimSpace(expected) {
		t.Errorf("FormatSpec() = \n%v\nwant \n%v", got, expected)
	}
}

func TestFormatSpec_CJKAlignment(t *testing.T) {
	f := NewFormatter(config.DefaultConfig())

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindBar, Name: "売上", X: []any{"一月", "二月"}, Y: []float64{10, 20}},
		},
		Layout: models.ChartLayout{Title: "月次"},
	}

	// 一月 is 4 cells wide, so the X column pads ASCII rows to match.
	expected := `
月次
bar chart with 1 series (2 points)

| X    | 売上 |
| ---- | ---- |
| 一月 | 10   |
| 二月 | 20   |
`

	got := f.FormatSpec(spec)
	if strings.TrimSpace(got) != strings.TrimSpace(expected) {
		t.Errorf("FormatSpec() = \n%v\nwant \n%v", got, expected)
	}
}

func TestFormatSpec_RowLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Normalizer.Summary.MaxRows = 2
	f := NewFormatter(cfg)

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{
				Kind: models.KindBar,
				X:    []any{"a", "b", "c", "d", "e"},
				Y:    []float64{1, 2, 3, 4, 5},
			},
		},
	}

	got := f.FormatSpec(spec)
	if !strings.Contains(got, "(3 rows not shown)") {
		t.Errorf("Expected row limit footer, got:\n%s", got)
	}

	if strings.Contains(got, "| c") {
		t.Errorf("Expected rows beyond the limit omitted, got:\n%s", got)
	}
}

func TestFormatSpec_LongLabelTruncated(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Normalizer.Summary.MaxColWidth = 10
	f := NewFormatter(cfg)

	spec := &models.ChartSpec{
		Series: []models.ChartSeries{
			{Kind: models.KindBar, Name: "a very long series name", X: []any{"x"}, Y: []float64{1}},
		},
	}

	got := f.FormatSpec(spec)
	if !strings.Contains(got, "...") {
		t.Errorf("Expected long series name truncated with ellipsis, got:\n%s", got)
	}
}

func TestFormatResult_Error(t *testing.T) {
	f := NewFormatter(config.DefaultConfig())

	result := &normalizer.Result{
		Status: normalizer.StatusError,
		Err: &normalizer.Error{
			Kind:       normalizer.ErrorKindParse,
			Message:    "visualization payload is not valid JSON",
			RawPayload: "{bad json",
		},
	}

	got := f.FormatResult(result)
	if !strings.Contains(got, "Normalization failed [parse_error]") {
		t.Errorf("Expected failure banner, got:\n%s", got)
	}

	if !strings.Contains(got, "Raw payload:") {
		t.Errorf("Expected raw payload echoed, got:\n%s", got)
	}
}

func TestFormatResult_ErrorWithoutRawAttachment(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Features.AttachRawPayload = false
	f := NewFormatter(cfg)

	result := &normalizer.Result{
		Status: normalizer.StatusError,
		Err: &normalizer.Error{
			Kind:       normalizer.ErrorKindParse,
			Message:    "visualization payload is not valid JSON",
			RawPayload: "{bad json",
		},
	}

	got := f.FormatResult(result)
	if strings.Contains(got, "Raw payload:") {
		t.Errorf("Expected raw payload suppressed, got:\n%s", got)
	}
}

func TestFormatResult_NoPayload(t *testing.T) {
	f := NewFormatter(config.DefaultConfig())

	got := f.FormatResult(&normalizer.Result{Status: normalizer.StatusNoPayload})
	if got != "(no visualization payload)" {
		t.Errorf("Expected no-payload placeholder, got %q", got)
	}
}

func TestFormatResult_Ready(t *testing.T) {
	f := NewFormatter(config.DefaultConfig())
	n := normalizer.NewNormalizer()

	result := n.Normalize(`{"type": "bar", "visualization_params": {"x_data": ["a"], "y_data": [1], "title": "T"}}`, "")
	if !result.Ready() {
		t.Fatalf("Expected ready result, got %s", result.Status)
	}

	got := f.FormatResult(result)
	if !strings.HasPrefix(got, "T\n") {
		t.Errorf("Expected spec summary, got:\n%s", got)
	}
}
