package normalizer

import (
	"regexp"
	"strings"

	"viznorm/internal/models"
)

// chartTypePattern recognizes phrases like "bar chart", "Line graph" or
// "scatter plot" in free-form response text. The first match by scan
// position wins.
var chartTypePattern = regexp.MustCompile(`(?i)\b(bar|line|scatter|pie|histogram|box)\s+(chart|graph|plot)`)

// kindAliases folds declared or inferred type names onto the canonical
// chart kinds. Names without an entry fall back to bar.
var kindAliases = map[string]models.ChartKind{
	"bar":       models.KindBar,
	"column":    models.KindBar,
	"histogram": models.KindBar,
	"box":       models.KindBar,
	"line":      models.KindLine,
	"area":      models.KindLine,
	"scatter":   models.KindScatter,
	"pie":       models.KindPie,
	"doughnut":  models.KindPie,
	"donut":     models.KindPie,
}

// inferTypeFromText scans accompanying response text for an explicit chart
// wording. It reports the matched type name, not yet folded to a canonical
// kind.
func inferTypeFromText(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	match := chartTypePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	return strings.ToLower(match[1]), true
}

// kindForType resolves a type name to a canonical kind.
func kindForType(name string) models.ChartKind {
	if kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return kind
	}

	return models.KindBar
}

// resolveKind picks the chart kind for a payload: a declared type always
// wins, then the text heuristic, then the bar default. Inference is a
// best-effort guess and never fails.
func resolveKind(declared, text string) models.ChartKind {
	if strings.TrimSpace(declared) != "" {
		return kindForType(declared)
	}

	if name, ok := inferTypeFromText(text); ok {
		return kindForType(name)
	}

	return models.KindBar
}
