// Package normalizer turns the loosely shaped visualization payloads
// emitted by analytics backends into canonical chart specs. The input is
// adversarial: the same backend emits half a dozen structurally different
// payload forms, sometimes JSON-encoded as a string, sometimes without a
// declared chart type. Normalization is pure, performs no I/O, and always
// resolves to a Result value rather than failing.
package normalizer

import (
	"encoding/json"

	"viznorm/internal/models"
)

// Normalizer converts raw visualization payloads into canonical chart
// specs. It holds no state; a single instance is safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a new normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize runs the full pipeline on one payload: parse, classify, build
// series, assemble. responseText is the chat text that accompanied the
// payload; it is only consulted to infer a chart kind when the payload
// declares none, and may be empty. The input is never mutated and every
// call returns a fresh Result.
func (n *Normalizer) Normalize(raw any, responseText string) *Result {
	if raw == nil {
		return noPayloadResult()
	}

	obj, perr := parsePayload(raw)
	if perr != nil {
		return errorResult(perr)
	}

	// A payload encoding JSON null decodes to nil and means no payload,
	// same as nil input.
	if obj == nil {
		return noPayloadResult()
	}

	shape := ClassifyShape(obj)
	if shape == ShapeUnrecognized {
		return errorResult(newError(ErrorKindUnrecognizedShape, obj, "payload matches no known visualization shape"))
	}

	in := buildInput{
		payload:      obj,
		sourceText:   payloadText(raw),
		responseText: responseText,
	}

	spec, aerr := assemble(buildForShape(shape, in), obj)
	if aerr != nil {
		return errorResult(aerr)
	}

	return readyResult(spec)
}

// NormalizeResponse normalizes the visualization attached to a chat
// response, using the response content as inference text.
func (n *Normalizer) NormalizeResponse(resp *models.ChatResponse) *Result {
	if resp == nil {
		return noPayloadResult()
	}

	return n.Normalize(resp.Visualization, resp.Content)
}

func payloadText(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case json.RawMessage:
		return string(v)
	}

	return ""
}
