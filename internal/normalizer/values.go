package normalizer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// toFloat coerces a decoded JSON value into a float64. Numeric strings are
// accepted because several backend versions stringify their numbers.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}

		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	}

	return 0, false
}

// toDisplayString renders a scalar value as a label. Container values have
// no label form and collapse to the empty string.
func toDisplayString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	}

	return ""
}

// toAnySlice returns v as a decoded JSON array, or nil.
func toAnySlice(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}

	return nil
}

// getMap returns the map value under key, or nil. Safe on a nil map.
func getMap(m map[string]any, key string) map[string]any {
	if inner, ok := m[key].(map[string]any); ok {
		return inner
	}

	return nil
}

// getString returns the first non-empty string value found under keys.
// Safe on a nil map.
func getString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}

	return ""
}

// firstField returns the first non-nil value found under keys.
func firstField(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}

	return nil
}

// pairXY aligns category values with numeric y values. Pairs whose y side
// does not coerce to a number are dropped and the longer side is
// truncated, so the emitted slices always have equal length and are never
// nil.
func pairXY(xs, ys []any) ([]any, []float64) {
	n := min(len(xs), len(ys))
	x := make([]any, 0, n)
	y := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		f, ok := toFloat(ys[i])
		if !ok {
			continue
		}

		x = append(x, xs[i])
		y = append(y, f)
	}

	return x, y
}

// pairLabelsValues aligns pie wedge labels with numeric values under the
// same dropping and truncation rules as pairXY.
func pairLabelsValues(ls, vs []any) ([]string, []float64) {
	n := min(len(ls), len(vs))
	labels := make([]string, 0, n)
	values := make([]float64, 0, n)

	for i := 0; i < n; i++ {
		f, ok := toFloat(vs[i])
		if !ok {
			continue
		}

		labels = append(labels, toDisplayString(ls[i]))
		values = append(values, f)
	}

	return labels, values
}

// indexSequence produces ordinal stand-in values for traces that supply
// one side of a pair only.
func indexSequence(n int) []any {
	seq := make([]any, n)
	for i := 0; i < n; i++ {
		seq[i] = float64(i)
	}

	return seq
}
