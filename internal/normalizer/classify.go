package normalizer

// Shape tags the structural form of a decoded visualization payload.
type Shape string

// Known payload shapes, one tag per backend emission style.
const (
	ShapeNestedDataLayout Shape = "nested_data_layout"
	ShapeDirectArray      Shape = "direct_array"
	ShapeLegacyFig        Shape = "legacy_fig"
	ShapeParamsBag        Shape = "params_bag"
	ShapeAdHocFields      Shape = "ad_hoc_fields"
	ShapeUnrecognized     Shape = "unrecognized"
)

// ClassifyShape matches a decoded payload against the known shapes.
//
// The checks run in a fixed precedence and the first match wins. The order
// is a compatibility contract: an ambiguous payload that satisfies several
// shapes must keep resolving to the same one, so reordering these checks is
// a behavior change even where it looks cosmetic. The `data`-keyed shapes
// are checked first because they are structurally narrowest, then the
// legacy fig wrapper, the params bag, and the loose top-level field form.
func ClassifyShape(obj any) Shape {
	if m, ok := obj.(map[string]any); ok {
		return classifyObject(m)
	}

	if _, ok := obj.([]any); ok {
		return ShapeDirectArray
	}

	return ShapeUnrecognized
}

func classifyObject(m map[string]any) Shape {
	if d := m["data"]; d != nil {
		if inner, ok := d.(map[string]any); ok && inner["data"] != nil {
			return ShapeNestedDataLayout
		}

		switch d.(type) {
		case map[string]any, []any:
			return ShapeDirectArray
		}
	}

	if hasField(m, "type") && hasField(m, "fig") {
		return ShapeLegacyFig
	}

	if hasField(m, "visualization_params") {
		return ShapeParamsBag
	}

	if hasField(m, "type") && hasAnyField(m, "x_data", "y_data", "labels", "values") {
		return ShapeAdHocFields
	}

	return ShapeUnrecognized
}

// hasField treats a JSON null value as absent, matching how the backend's
// own emitters probe these payloads.
func hasField(m map[string]any, key string) bool {
	v, ok := m[key]

	return ok && v != nil
}

func hasAnyField(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		if hasField(m, key) {
			return true
		}
	}

	return false
}
