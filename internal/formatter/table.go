// Package formatter renders normalization results as aligned markdown
// summaries for terminal display.
package formatter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"viznorm/internal/config"
	"viznorm/internal/models"
	"viznorm/internal/normalizer"
	"viznorm/pkg/utils"

	"github.com/mattn/go-runewidth"
)

// rawPreviewWidth caps the diagnostic raw payload echo.
const rawPreviewWidth = 100

// Formatter renders chart specs and normalization failures as text.
type Formatter struct {
	maxRows      int
	maxColWidth  int
	defaultTitle string
	attachRaw    bool
	text         *utils.TextHelper
}

// NewFormatter creates a formatter using the summary settings of cfg.
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		maxRows:      cfg.Normalizer.Summary.MaxRows,
		maxColWidth:  cfg.Normalizer.Summary.MaxColWidth,
		defaultTitle: cfg.DefaultTitle(),
		attachRaw:    cfg.Features.AttachRawPayload,
		text:         utils.NewTextHelper(),
	}
}

// FormatResult renders any normalization outcome: a spec summary when
// ready, a diagnostic banner on failure, a placeholder when the response
// carried no payload.
func (f *Formatter) FormatResult(result *normalizer.Result) string {
	if result == nil || result.Status == normalizer.StatusNoPayload {
		return "(no visualization payload)"
	}

	if result.Failed() {
		return f.formatError(result.Err)
	}

	return f.FormatSpec(result.Spec)
}

// FormatSpec renders a chart spec as a title block followed by a data
// preview table. Specs without a title get the configured default, which
// exists only in this rendered view, never in the spec itself.
func (f *Formatter) FormatSpec(spec *models.ChartSpec) string {
	if spec == nil || len(spec.Series) == 0 {
		return "(empty chart spec)"
	}

	title := spec.Layout.Title
	if title == "" {
		title = f.defaultTitle
	}

	var sb strings.Builder

	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s chart with %d series (%s)\n",
		specKind(spec), len(spec.Series), countNoun(totalPoints(spec), "point")))

	if spec.Layout.XAxisLabel != "" {
		sb.WriteString("X axis: " + spec.Layout.XAxisLabel + "\n")
	}

	if spec.Layout.YAxisLabel != "" {
		sb.WriteString("Y axis: " + spec.Layout.YAxisLabel + "\n")
	}

	header, rows, remaining := f.previewRows(spec)
	if len(rows) > 0 {
		sb.WriteString("\n")

		for _, line := range buildTable(header, rows) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		if remaining > 0 {
			sb.WriteString(fmt.Sprintf("(%s not shown)\n", countNoun(remaining, "row")))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (f *Formatter) formatError(err *normalizer.Error) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Normalization failed [%s]: %s", err.Kind, err.Message))

	if f.attachRaw && err.RawPayload != nil {
		if encoded, marshalErr := json.Marshal(err.RawPayload); marshalErr == nil {
			sb.WriteString("\nRaw payload: ")
			sb.WriteString(f.text.TruncateToWidth(string(encoded), rawPreviewWidth))
		}
	}

	return sb.String()
}

// previewRows assembles the preview table contents. Pie charts preview as
// label/value pairs of the first series; cartesian charts preview the
// first series' x values with one value column per series.
func (f *Formatter) previewRows(spec *models.ChartSpec) ([]string, [][]string, int) {
	first := spec.Series[0]

	if first.Kind == models.KindPie {
		header := []string{"Label", "Value"}

		count := min(len(first.Labels), f.maxRows)

		rows := make([][]string, 0, count)
		for i := 0; i < count; i++ {
			rows = append(rows, []string{
				f.cell(first.Labels[i]),
				formatNumber(first.Values[i]),
			})
		}

		return header, rows, len(first.Labels) - count
	}

	columns := make([]models.ChartSeries, 0, len(spec.Series))
	header := []string{"X"}

	for i, s := range spec.Series {
		if s.Kind == models.KindPie {
			continue
		}

		name := s.Name
		if name == "" {
			name = fmt.Sprintf("series %d", i+1)
		}

		header = append(header, f.cell(name))
		columns = append(columns, s)
	}

	if len(columns) == 0 {
		return nil, nil, 0
	}

	count := min(len(first.X), f.maxRows)

	rows := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		row := []string{f.cell(formatValue(first.X[i]))}

		for _, s := range columns {
			if i < len(s.Y) {
				row = append(row, formatNumber(s.Y[i]))
			} else {
				row = append(row, "")
			}
		}

		rows = append(rows, row)
	}

	return header, rows, len(first.X) - count
}

func (f *Formatter) cell(value string) string {
	return f.text.TruncateToWidth(f.text.NormalizeWhitespace(value), f.maxColWidth)
}

// buildTable renders rows as a pipe-aligned markdown table. Column widths
// follow the widest cell by display width so CJK labels keep the pipes
// aligned.
func buildTable(header []string, rows [][]string) []string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	measure(header)
	for _, row := range rows {
		measure(row)
	}

	// Minimum width so the separator keeps at least three dashes.
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	writeRow := func(row []string) string {
		var sb strings.Builder

		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(" ")
			sb.WriteString(content)

			if padding := colWidths[j] - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		return sb.String()
	}

	result := make([]string, 0, len(rows)+2)
	result = append(result, writeRow(header))

	var sep strings.Builder

	sep.WriteString("|")
	for j := 0; j < colCount; j++ {
		sep.WriteString(" ")
		sep.WriteString(strings.Repeat("-", colWidths[j]))
		sep.WriteString(" |")
	}

	result = append(result, sep.String())

	for _, row := range rows {
		result = append(result, writeRow(row))
	}

	return result
}

func specKind(spec *models.ChartSpec) string {
	kind := spec.Series[0].Kind
	for _, s := range spec.Series[1:] {
		if s.Kind != kind {
			return "mixed"
		}
	}

	return string(kind)
}

func totalPoints(spec *models.ChartSpec) int {
	total := 0
	for _, s := range spec.Series {
		total += s.PointCount()
	}

	return total
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}

	return fmt.Sprintf("%d %ss", n, noun)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatValue(v any) string {
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
