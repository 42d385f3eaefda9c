package normalizer

import "viznorm/internal/models"

// layoutFromMap extracts presentation hints from a rendering-library style
// layout object. Titles appear both as plain strings and as {text: ...}
// objects depending on the backend version, and axis labels appear either
// nested under xaxis/yaxis or as flat underscore keys.
func layoutFromMap(layout map[string]any) models.ChartLayout {
	if layout == nil {
		return models.ChartLayout{}
	}

	l := models.ChartLayout{Title: titleText(layout["title"])}

	l.XAxisLabel = titleText(getMap(layout, "xaxis")["title"])
	if l.XAxisLabel == "" {
		l.XAxisLabel = getString(layout, "xaxis_title", "x_label", "xlabel")
	}

	l.YAxisLabel = titleText(getMap(layout, "yaxis")["title"])
	if l.YAxisLabel == "" {
		l.YAxisLabel = getString(layout, "yaxis_title", "y_label", "ylabel")
	}

	return l
}

// layoutFromFields extracts presentation hints from a flat parameter
// object such as a params bag or an ad-hoc payload.
func layoutFromFields(fields map[string]any) models.ChartLayout {
	return models.ChartLayout{
		Title:      getString(fields, "title"),
		XAxisLabel: getString(fields, "x_label", "xlabel", "x_axis_label"),
		YAxisLabel: getString(fields, "y_label", "ylabel", "y_axis_label"),
	}
}

// mergeLayout fills empty fields of primary from fallback.
func mergeLayout(primary, fallback models.ChartLayout) models.ChartLayout {
	if primary.Title == "" {
		primary.Title = fallback.Title
	}

	if primary.XAxisLabel == "" {
		primary.XAxisLabel = fallback.XAxisLabel
	}

	if primary.YAxisLabel == "" {
		primary.YAxisLabel = fallback.YAxisLabel
	}

	return primary
}

func titleText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return getString(t, "text")
	}

	return ""
}
