// Package validator provides structural validation for visualization
// payloads. The normalizer itself stays lenient at runtime; this validator
// is the strict surface payload producers run against their output.
package validator

import (
	"encoding/json"
	"fmt"
	"sort"

	"viznorm/internal/config"
	"viznorm/internal/normalizer"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	Shape        string
	PayloadBytes int
	SchemaErrors int
}

// PayloadValidator checks raw visualization payloads against per-shape
// JSON schemas. In strict mode schema violations fail validation; in
// lenient mode they degrade to warnings, matching what the normalizer
// would tolerate at runtime.
type PayloadValidator struct {
	cfg     *config.Config
	schemas map[normalizer.Shape]*gojsonschema.Schema
	fields  map[normalizer.Shape][]string
}

// NewPayloadValidator creates a new validator with compiled shape schemas.
func NewPayloadValidator(cfg *config.Config) (*PayloadValidator, error) {
	v := &PayloadValidator{
		cfg:     cfg,
		schemas: make(map[normalizer.Shape]*gojsonschema.Schema),
		fields:  make(map[normalizer.Shape][]string),
	}

	for shape, doc := range shapeSchemas() {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("invalid %s schema: %w", shape, err)
		}

		v.schemas[shape] = schema
		v.fields[shape] = propertyNames(doc)
	}

	return v, nil
}

// Validate checks a raw payload. String and byte payloads are decoded
// first; values that fail to decode are invalid regardless of mode.
func (v *PayloadValidator) Validate(raw any) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
		Stats:    ValidationStats{},
	}

	if raw == nil {
		result.Warnings = append(result.Warnings, "payload is absent; nothing to validate")

		return result
	}

	decoded, text, ok := v.decode(raw, result)
	if !ok {
		return result
	}

	v.checkSize(len(text), result)

	if decoded == nil {
		result.Warnings = append(result.Warnings, "payload is JSON null; treated as absent")

		return result
	}

	shape := normalizer.ClassifyShape(decoded)
	result.Stats.Shape = string(shape)

	if shape == normalizer.ShapeUnrecognized {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "(root)",
			Message: "payload matches no known visualization shape",
		})

		return result
	}

	v.checkSchema(shape, decoded, result)
	v.checkPassthroughFields(shape, decoded, result)

	return result
}

// decode returns the payload as a decoded value plus its source text when
// it arrived encoded. A false return means a parse failure was recorded.
func (v *PayloadValidator) decode(raw any, result *ValidationResult) (any, string, bool) {
	var text string

	switch s := raw.(type) {
	case string:
		text = s
	case []byte:
		text = string(s)
	case json.RawMessage:
		text = string(s)
	default:
		return raw, "", true
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "(root)",
			Message: fmt.Sprintf("payload is not valid JSON: %v", err),
		})

		return nil, text, false
	}

	result.Stats.PayloadBytes = len(text)

	return decoded, text, true
}

func (v *PayloadValidator) checkSize(size int, result *ValidationResult) {
	limit := v.cfg.Normalizer.Validation.MaxPayloadBytes
	if limit <= 0 || size <= limit {
		return
	}

	msg := fmt.Sprintf("payload is %d bytes, limit is %d", size, limit)

	if v.cfg.Normalizer.Validation.Strict {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{Field: "(root)", Message: msg})
	} else {
		result.Warnings = append(result.Warnings, msg)
	}
}

func (v *PayloadValidator) checkSchema(shape normalizer.Shape, decoded any, result *ValidationResult) {
	schema, ok := v.schemas[shape]
	if !ok {
		return
	}

	schemaResult, err := schema.Validate(gojsonschema.NewGoLoader(decoded))
	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Field:   "(root)",
			Message: fmt.Sprintf("schema validation failed: %v", err),
		})

		return
	}

	if schemaResult.Valid() {
		return
	}

	result.Stats.SchemaErrors = len(schemaResult.Errors())

	for _, desc := range schemaResult.Errors() {
		if v.cfg.Normalizer.Validation.Strict {
			result.IsValid = false
			result.Errors = append(result.Errors, ValidationError{
				Field:   desc.Field(),
				Value:   fmt.Sprintf("%v", desc.Value()),
				Message: desc.Description(),
			})
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
	}
}

// checkPassthroughFields warns about top-level fields the converters do
// not read. They are not errors: the normalizer forwards them untouched
// as rendering passthrough.
func (v *PayloadValidator) checkPassthroughFields(shape normalizer.Shape, decoded any, result *ValidationResult) {
	if shape != normalizer.ShapeParamsBag && shape != normalizer.ShapeAdHocFields {
		return
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return
	}

	known := make(map[string]bool, len(v.fields[shape]))
	for _, f := range v.fields[shape] {
		known[f] = true
	}

	var unknown []string
	for key := range obj {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}

	sort.Strings(unknown)

	for _, key := range unknown {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("field %q is not read by any converter and will be forwarded as passthrough config", key))
	}
}

// shapeSchemas returns the JSON schema document for each recognized shape.
func shapeSchemas() map[normalizer.Shape]map[string]any {
	layoutSchema := map[string]any{"type": "object"}

	paramFields := map[string]any{
		"chart_type":   map[string]any{"type": "string"},
		"type":         map[string]any{"type": "string"},
		"x_data":       map[string]any{"type": "array"},
		"y_data":       map[string]any{"type": "array"},
		"labels":       map[string]any{"type": "array"},
		"values":       map[string]any{"type": "array"},
		"series_names": map[string]any{"type": "array"},
		"series_name":  map[string]any{"type": "string"},
		"name":         map[string]any{"type": "string"},
		"color":        map[string]any{"type": "string"},
		"title":        map[string]any{"type": "string"},
		"x_label":      map[string]any{"type": "string"},
		"xlabel":       map[string]any{"type": "string"},
		"x_axis_label": map[string]any{"type": "string"},
		"y_label":      map[string]any{"type": "string"},
		"ylabel":       map[string]any{"type": "string"},
		"y_axis_label": map[string]any{"type": "string"},
	}

	adHocFields := map[string]any{}
	for k, s := range paramFields {
		adHocFields[k] = s
	}
	adHocFields["visualization_params"] = map[string]any{"type": "object"}

	return map[normalizer.Shape]map[string]any{
		normalizer.ShapeNestedDataLayout: {
			"type":     "object",
			"required": []any{"data"},
			"properties": map[string]any{
				"data": map[string]any{
					"type":     "object",
					"required": []any{"data"},
					"properties": map[string]any{
						"data":   map[string]any{"type": []any{"array", "object"}},
						"layout": layoutSchema,
						"config": map[string]any{"type": "object"},
						"type":   map[string]any{"type": "string"},
					},
				},
				"layout": layoutSchema,
				"config": map[string]any{"type": "object"},
				"type":   map[string]any{"type": "string"},
			},
		},
		normalizer.ShapeDirectArray: {
			"anyOf": []any{
				map[string]any{"type": "array"},
				map[string]any{
					"type":     "object",
					"required": []any{"data"},
					"properties": map[string]any{
						"data":   map[string]any{"type": []any{"array", "object"}},
						"layout": layoutSchema,
						"config": map[string]any{"type": "object"},
						"type":   map[string]any{"type": "string"},
					},
				},
			},
		},
		normalizer.ShapeLegacyFig: {
			"type":     "object",
			"required": []any{"type", "fig"},
			"properties": map[string]any{
				"type": map[string]any{"type": "string"},
				"fig": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"data":   map[string]any{"type": "array"},
						"layout": layoutSchema,
					},
				},
			},
		},
		normalizer.ShapeParamsBag: {
			"type":     "object",
			"required": []any{"visualization_params"},
			"properties": map[string]any{
				"type": map[string]any{"type": "string"},
				"visualization_params": map[string]any{
					"type":       "object",
					"properties": paramFields,
				},
				"title":        map[string]any{"type": "string"},
				"x_label":      map[string]any{"type": "string"},
				"xlabel":       map[string]any{"type": "string"},
				"x_axis_label": map[string]any{"type": "string"},
				"y_label":      map[string]any{"type": "string"},
				"ylabel":       map[string]any{"type": "string"},
				"y_axis_label": map[string]any{"type": "string"},
			},
		},
		normalizer.ShapeAdHocFields: {
			"type":       "object",
			"required":   []any{"type"},
			"properties": adHocFields,
		},
	}
}

// propertyNames lists the top-level property names of a schema document.
func propertyNames(doc map[string]any) []string {
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	shape := r.Stats.Shape
	if shape == "" {
		shape = "-"
	}

	return fmt.Sprintf(
		"%s | Shape: %s | Errors: %d | Warnings: %d",
		status,
		shape,
		len(r.Errors),
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors() {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Println("❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Field != "" && err.Field != "(root)" {
			fmt.Printf("  [%s]: %s\n", err.Field, err.Message)
		} else {
			fmt.Printf("  %s\n", err.Message)
		}

		if err.Value != "" {
			fmt.Printf("    Found: %q\n", err.Value)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings() {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Println("⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Printf("  %s\n", warn)
	}
}
