package normalizer

import "encoding/json"

// parsePayload resolves the raw payload reference into a decoded JSON
// value. String-typed inputs are decoded; already-decoded values pass
// through untouched. The caller has already ruled out a nil payload.
func parsePayload(raw any) (any, *Error) {
	switch v := raw.(type) {
	case string:
		return decodePayloadText(v)
	case []byte:
		return decodePayloadText(string(v))
	case json.RawMessage:
		return decodePayloadText(string(v))
	default:
		return raw, nil
	}
}

func decodePayloadText(text string) (any, *Error) {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, newError(ErrorKindParse, text, "visualization payload is not valid JSON: %v", err)
	}

	return decoded, nil
}
