// Package models defines the canonical chart description produced by the
// normalizer and the chat envelope that visualization payloads arrive on.
package models

import "errors"

// Series invariant errors.
var (
	ErrUnknownChartKind     = errors.New("unknown chart kind")
	ErrSeriesLengthMismatch = errors.New("series value sequences have mismatched lengths")
)

// ChartKind identifies the renderable trace family of a series.
type ChartKind string

// Canonical chart kinds.
const (
	KindBar     ChartKind = "bar"
	KindLine    ChartKind = "line"
	KindScatter ChartKind = "scatter"
	KindPie     ChartKind = "pie"
)

// IsValid reports whether k is one of the canonical kinds.
func (k ChartKind) IsValid() bool {
	switch k {
	case KindBar, KindLine, KindScatter, KindPie:
		return true
	}

	return false
}

// ChartSeries is one drawable trace. Cartesian kinds use X/Y, pie uses
// Labels/Values. For cartesian kinds len(X) == len(Y); for pie
// len(Labels) == len(Values).
type ChartSeries struct {
	Kind   ChartKind `json:"kind"`
	Name   string    `json:"name,omitempty"`
	X      []any     `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Color  string    `json:"color,omitempty"`
}

// PointCount returns the number of drawable points in the series.
func (s *ChartSeries) PointCount() int {
	if s.Kind == KindPie {
		return len(s.Values)
	}

	return len(s.Y)
}

// Validate checks the paired-length invariant for the series kind.
func (s *ChartSeries) Validate() error {
	if !s.Kind.IsValid() {
		return ErrUnknownChartKind
	}

	if s.Kind == KindPie {
		if len(s.Labels) != len(s.Values) {
			return ErrSeriesLengthMismatch
		}

		return nil
	}

	if len(s.X) != len(s.Y) {
		return ErrSeriesLengthMismatch
	}

	return nil
}

// ChartLayout carries presentation hints. All fields are optional; an
// empty title stays empty in the canonical spec and is only defaulted by
// render-time surfaces.
type ChartLayout struct {
	Title      string `json:"title,omitempty"`
	XAxisLabel string `json:"xAxisLabel,omitempty"`
	YAxisLabel string `json:"yAxisLabel,omitempty"`
}

// ChartSpec is the canonical chart description. Series order is draw order
// and legend order. Raw carries rendering-library-specific overrides from
// the source payload, forwarded unvalidated.
type ChartSpec struct {
	Series []ChartSeries  `json:"series"`
	Layout ChartLayout    `json:"layout"`
	Raw    map[string]any `json:"raw,omitempty"`
}

// SeriesCount returns the number of series in the spec.
func (c *ChartSpec) SeriesCount() int {
	return len(c.Series)
}

// RenderDocument returns the spec in the data/layout/config triple shape
// consumed by Plotly-style rendering libraries.
func (c *ChartSpec) RenderDocument() map[string]any {
	doc := map[string]any{
		"data":   c.Series,
		"layout": c.Layout,
	}

	if len(c.Raw) > 0 {
		doc["config"] = c.Raw
	}

	return doc
}
