package normalizer

import (
	"encoding/json"
	"sort"
	"strings"

	"viznorm/internal/models"
)

// buildInput carries everything a shape builder may consult.
type buildInput struct {
	// payload is the decoded payload value, a map or an array.
	payload any
	// sourceText is the original JSON text when the payload arrived
	// encoded, empty otherwise. Record lifting uses it to recover key
	// order, which decoded maps do not preserve.
	sourceText string
	// responseText is the chat text accompanying the payload, consulted
	// only when no chart type is declared.
	responseText string
}

// builderOutput is the intermediate product handed to the assembler.
type builderOutput struct {
	series []models.ChartSeries
	layout models.ChartLayout
	raw    map[string]any
}

// fieldConverterKeys are the parameter fields consumed by the shared
// params-bag/ad-hoc converter. Everything else on the object is forwarded
// as passthrough.
var fieldConverterKeys = []string{
	"chart_type", "type",
	"title", "x_label", "xlabel", "x_axis_label", "y_label", "ylabel", "y_axis_label",
	"x_data", "y_data", "labels", "values",
	"name", "series_name", "series_names", "color",
}

func buildForShape(shape Shape, in buildInput) builderOutput {
	switch shape {
	case ShapeNestedDataLayout:
		return buildNestedDataLayout(in)
	case ShapeDirectArray:
		return buildDirectArray(in)
	case ShapeLegacyFig:
		return buildLegacyFig(in)
	case ShapeParamsBag:
		return buildParamsBag(in)
	case ShapeAdHocFields:
		return buildAdHocFields(in)
	}

	return builderOutput{}
}

// buildNestedDataLayout handles payloads whose data field is itself a
// data/layout/config bundle. Layout hints on the outer object fill in
// whatever the inner bundle leaves empty.
func buildNestedDataLayout(in buildInput) builderOutput {
	outer, _ := in.payload.(map[string]any)
	inner := getMap(outer, "data")

	declared := getString(outer, "type")
	if declared == "" {
		declared = getString(inner, "type")
	}

	kind := resolveKind(declared, in.responseText)

	out := builderOutput{
		series: convertDataValue(inner["data"], kind, in.sourceText),
		layout: mergeLayout(layoutFromMap(getMap(inner, "layout")), layoutFromMap(getMap(outer, "layout"))),
	}

	raw := map[string]any{}
	mergeConfigValue(raw, inner["config"])
	mergeConfigValue(raw, outer["config"])
	addExtraFields(raw, inner, "data", "layout", "config", "type")
	addExtraFields(raw, outer, "data", "layout", "config", "type")
	out.raw = compactRaw(raw)

	return out
}

// buildDirectArray handles both a payload carrying a directly usable data
// field and a payload that is itself a bare array.
func buildDirectArray(in buildInput) builderOutput {
	if arr, ok := in.payload.([]any); ok {
		kind := resolveKind("", in.responseText)

		return builderOutput{series: convertDataArray(arr, kind, in.sourceText)}
	}

	m, _ := in.payload.(map[string]any)
	kind := resolveKind(getString(m, "type"), in.responseText)

	out := builderOutput{
		series: convertDataValue(m["data"], kind, in.sourceText),
		layout: layoutFromMap(getMap(m, "layout")),
	}

	raw := map[string]any{}
	mergeConfigValue(raw, m["config"])
	addExtraFields(raw, m, "data", "layout", "config", "type")
	out.raw = compactRaw(raw)

	return out
}

// buildLegacyFig handles the {type, fig} wrapper. Series and layout are
// lifted from the fig bundle, and the fig itself rides along in the
// passthrough so a native-capable renderer can bypass the canonical form.
func buildLegacyFig(in buildInput) builderOutput {
	m, _ := in.payload.(map[string]any)
	fig := getMap(m, "fig")
	kind := resolveKind(getString(m, "type"), in.responseText)

	out := builderOutput{
		series: convertDataValue(fig["data"], kind, in.sourceText),
		layout: layoutFromMap(getMap(fig, "layout")),
	}

	raw := map[string]any{}
	if fig != nil {
		raw["fig"] = fig
	}
	addExtraFields(raw, m, "type", "fig")
	out.raw = compactRaw(raw)

	return out
}

// buildParamsBag handles payloads that tuck their fields under a
// visualization_params object, with the chart type declared on either
// level.
func buildParamsBag(in buildInput) builderOutput {
	m, _ := in.payload.(map[string]any)
	bag := getMap(m, "visualization_params")

	declared := getString(m, "type")
	if declared == "" {
		declared = getString(bag, "chart_type", "type")
	}

	kind := resolveKind(declared, in.responseText)

	out := builderOutput{}
	if bag != nil {
		out.series = buildSeriesFromFields(bag, kind)
	}
	out.layout = mergeLayout(layoutFromFields(bag), layoutFromFields(m))

	raw := map[string]any{}
	addExtraFields(raw, bag, fieldConverterKeys...)
	addExtraFields(raw, m, "visualization_params", "type", "title", "x_label", "xlabel", "x_axis_label", "y_label", "ylabel", "y_axis_label")
	out.raw = compactRaw(raw)

	return out
}

// buildAdHocFields handles payloads that put the same parameter fields
// directly on the top-level object.
func buildAdHocFields(in buildInput) builderOutput {
	m, _ := in.payload.(map[string]any)
	kind := resolveKind(getString(m, "type"), in.responseText)

	out := builderOutput{
		series: buildSeriesFromFields(m, kind),
		layout: layoutFromFields(m),
	}

	raw := map[string]any{}
	addExtraFields(raw, m, fieldConverterKeys...)
	out.raw = compactRaw(raw)

	return out
}

// convertDataValue turns a data field's value into series. Arrays take the
// element-wise path; a lone object is treated as a single trace.
func convertDataValue(v any, kind models.ChartKind, sourceText string) []models.ChartSeries {
	switch data := v.(type) {
	case []any:
		return convertDataArray(data, kind, sourceText)
	case map[string]any:
		return []models.ChartSeries{seriesFromTrace(data, kind)}
	}

	return nil
}

// convertDataArray distinguishes the three array forms a data field takes:
// trace objects, plain records, and bare numbers.
func convertDataArray(arr []any, kind models.ChartKind, sourceText string) []models.ChartSeries {
	if len(arr) == 0 {
		return nil
	}

	if first, ok := arr[0].(map[string]any); ok {
		if hasAnyField(first, "x", "y", "labels", "values", "type") {
			series := make([]models.ChartSeries, 0, len(arr))
			for _, el := range arr {
				if em, ok := el.(map[string]any); ok {
					series = append(series, seriesFromTrace(em, kind))
				}
			}

			return series
		}

		return liftRecords(arr, kind, sourceText)
	}

	return seriesFromValueArray(arr, kind)
}

// seriesFromTrace converts one rendering-library style trace object.
// Traces that carry only y values get ordinal x values, matching how the
// rendering libraries draw them.
func seriesFromTrace(el map[string]any, fallback models.ChartKind) models.ChartSeries {
	kind := fallback
	if t := getString(el, "type"); t != "" {
		kind = kindForType(t)
	}

	s := models.ChartSeries{
		Kind:  kind,
		Name:  getString(el, "name"),
		Color: traceColor(el),
	}

	if kind == models.KindPie {
		ls := toAnySlice(el["labels"])
		vs := toAnySlice(el["values"])
		if ls == nil && vs != nil {
			ls = indexSequence(len(vs))
		}

		s.Labels, s.Values = pairLabelsValues(ls, vs)

		return s
	}

	xs := toAnySlice(el["x"])
	ys := toAnySlice(el["y"])
	if xs == nil && ys != nil {
		xs = indexSequence(len(ys))
	}

	s.X, s.Y = pairXY(xs, ys)

	return s
}

// seriesFromValueArray converts a bare array of numbers into one series
// over ordinal x values.
func seriesFromValueArray(arr []any, kind models.ChartKind) []models.ChartSeries {
	if _, ok := toFloat(arr[0]); !ok {
		return nil
	}

	s := models.ChartSeries{Kind: kind}
	if kind == models.KindPie {
		s.Labels, s.Values = pairLabelsValues(indexSequence(len(arr)), arr)
	} else {
		s.X, s.Y = pairXY(indexSequence(len(arr)), arr)
	}

	return []models.ChartSeries{s}
}

// liftRecords converts an array of records like {name, sales, profit} into
// per-column series: each non-name key of the first record becomes one
// series with x taken from the name field across records. First-record key
// order fixes series and legend order; for pie the first value column
// becomes the wedge set.
func liftRecords(arr []any, kind models.ChartKind, sourceText string) []models.ChartSeries {
	first, ok := arr[0].(map[string]any)
	if !ok {
		return nil
	}

	keys := recordSeriesKeys(first, sourceText)
	if len(keys) == 0 {
		return nil
	}

	if kind == models.KindPie {
		return []models.ChartSeries{recordsToPie(arr, keys[0])}
	}

	series := make([]models.ChartSeries, 0, len(keys))
	for _, key := range keys {
		s := models.ChartSeries{Kind: kind, Name: key, X: []any{}, Y: []float64{}}

		for i, el := range arr {
			rec, ok := el.(map[string]any)
			if !ok {
				continue
			}

			f, ok := toFloat(rec[key])
			if !ok {
				continue
			}

			s.X = append(s.X, recordLabel(rec, i))
			s.Y = append(s.Y, f)
		}

		series = append(series, s)
	}

	return series
}

func recordsToPie(arr []any, key string) models.ChartSeries {
	s := models.ChartSeries{Kind: models.KindPie, Name: key, Labels: []string{}, Values: []float64{}}

	for i, el := range arr {
		rec, ok := el.(map[string]any)
		if !ok {
			continue
		}

		f, ok := toFloat(rec[key])
		if !ok {
			continue
		}

		s.Labels = append(s.Labels, toDisplayString(recordLabel(rec, i)))
		s.Values = append(s.Values, f)
	}

	return s
}

// recordLabel returns the record's name value, or its position when the
// record has none.
func recordLabel(rec map[string]any, index int) any {
	if v, ok := rec["name"]; ok && v != nil {
		return v
	}

	return float64(index)
}

// recordSeriesKeys resolves the value columns of a record set in a
// deterministic order: the first record's source key order when the
// payload text is available and still matches, sorted order otherwise.
func recordSeriesKeys(first map[string]any, sourceText string) []string {
	ordered := firstArrayObjectKeys(sourceText)
	if !keySetMatches(ordered, first) {
		ordered = sortedKeys(first)
	}

	keys := make([]string, 0, len(ordered))
	for _, key := range ordered {
		if key != "name" {
			keys = append(keys, key)
		}
	}

	return keys
}

func keySetMatches(keys []string, m map[string]any) bool {
	if len(keys) != len(m) {
		return false
	}

	for _, key := range keys {
		if _, ok := m[key]; !ok {
			return false
		}
	}

	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

// firstArrayObjectKeys token-scans JSON text for the first object that
// appears as an array element and returns its top-level keys in source
// order. Returns nil when no such object exists.
func firstArrayObjectKeys(text string) []string {
	if text == "" {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(text))

	var stack []json.Delim

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}

		d, ok := tok.(json.Delim)
		if !ok {
			continue
		}

		switch d {
		case '[':
			stack = append(stack, d)
		case '{':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				return objectKeys(dec)
			}
			stack = append(stack, d)
		case ']', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// objectKeys collects the keys of the object whose opening brace was just
// consumed, skipping over the values.
func objectKeys(dec *json.Decoder) []string {
	var keys []string

	for {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return keys
		}

		key, ok := tok.(string)
		if !ok {
			return keys
		}

		keys = append(keys, key)
		skipValue(dec)
	}
}

func skipValue(dec *json.Decoder) {
	tok, err := dec.Token()
	if err != nil {
		return
	}

	d, ok := tok.(json.Delim)
	if !ok || (d != '[' && d != '{') {
		return
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return
		}

		if dd, ok := tok.(json.Delim); ok {
			switch dd {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
}

// buildSeriesFromFields is the shared converter behind the params-bag and
// ad-hoc shapes. Cartesian kinds read x_data/y_data and pie reads
// labels/values, with each form accepted as a stand-in for the other when
// the primary fields are missing. Missing numeric fields become empty
// slices so the paired-length invariant holds.
func buildSeriesFromFields(fields map[string]any, kind models.ChartKind) []models.ChartSeries {
	if kind == models.KindPie {
		ls := toAnySlice(firstField(fields, "labels", "x_data"))
		vs := toAnySlice(firstField(fields, "values", "y_data"))

		s := models.ChartSeries{
			Kind:  models.KindPie,
			Name:  getString(fields, "name", "series_name"),
			Color: getString(fields, "color"),
		}
		s.Labels, s.Values = pairLabelsValues(ls, vs)

		return []models.ChartSeries{s}
	}

	xs := toAnySlice(firstField(fields, "x_data", "labels"))
	ys := toAnySlice(firstField(fields, "y_data", "values"))

	if multi := splitSeriesGroups(ys); multi != nil {
		names := toAnySlice(fields["series_names"])
		series := make([]models.ChartSeries, 0, len(multi))

		for i, group := range multi {
			s := models.ChartSeries{Kind: kind}
			if i < len(names) {
				s.Name = toDisplayString(names[i])
			}
			s.X, s.Y = pairXY(xs, group)
			series = append(series, s)
		}

		return series
	}

	s := models.ChartSeries{
		Kind:  kind,
		Name:  getString(fields, "name", "series_name"),
		Color: getString(fields, "color"),
	}
	s.X, s.Y = pairXY(xs, ys)

	return []models.ChartSeries{s}
}

// splitSeriesGroups detects the array-of-arrays y_data form carrying one
// series per inner array.
func splitSeriesGroups(ys []any) [][]any {
	if len(ys) == 0 {
		return nil
	}

	if _, ok := ys[0].([]any); !ok {
		return nil
	}

	groups := make([][]any, 0, len(ys))
	for _, el := range ys {
		groups = append(groups, toAnySlice(el))
	}

	return groups
}

func traceColor(el map[string]any) string {
	if c := getString(el, "color"); c != "" {
		return c
	}

	return getString(getMap(el, "marker"), "color")
}

// mergeConfigValue folds a config field into the passthrough map: object
// configs merge key-wise, anything else keeps the config slot.
func mergeConfigValue(raw map[string]any, config any) {
	if config == nil {
		return
	}

	if m, ok := config.(map[string]any); ok {
		for k, v := range m {
			raw[k] = v
		}

		return
	}

	raw["config"] = config
}

// addExtraFields copies the source fields a shape's converter did not
// consume into the passthrough map, so backend-supplied rendering options
// are not silently dropped.
func addExtraFields(raw, source map[string]any, consumed ...string) {
	for k, v := range source {
		if isConsumedField(consumed, k) {
			continue
		}

		raw[k] = v
	}
}

func isConsumedField(consumed []string, key string) bool {
	for _, c := range consumed {
		if c == key {
			return true
		}
	}

	return false
}

func compactRaw(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	return raw
}
