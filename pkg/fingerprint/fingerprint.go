// Package fingerprint derives stable content identities for visualization
// payloads. The hosting view keys its state transitions on payload identity
// change, so two encodings of the same payload must fingerprint alike.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ShortLength is the number of hex characters in a shortened fingerprint.
const ShortLength = 12

// ErrUnencodable reports a value with no JSON form.
var ErrUnencodable = errors.New("value cannot be encoded as JSON")

// Compute returns the hex SHA-256 fingerprint of a payload's canonical JSON
// form. String and byte payloads holding valid JSON are decoded first, so a
// payload fingerprints the same whether it arrives encoded or decoded, and
// object key order never affects the result.
func Compute(v any) (string, error) {
	canonical, err := json.Marshal(normalize(v))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnencodable, err)
	}

	sum := sha256.Sum256(canonical)

	return hex.EncodeToString(sum[:]), nil
}

// Short shortens a fingerprint for display. Fingerprints shorter than
// ShortLength are returned unchanged.
func Short(fp string) string {
	if len(fp) <= ShortLength {
		return fp
	}

	return fp[:ShortLength]
}

// Equal reports whether two payloads share a fingerprint. Unencodable
// values are never equal to anything.
func Equal(a, b any) bool {
	fa, err := Compute(a)
	if err != nil {
		return false
	}

	fb, err := Compute(b)
	if err != nil {
		return false
	}

	return fa == fb
}

// normalize decodes text forms carrying JSON so they hash by content.
// Non-JSON strings hash as the string value itself.
func normalize(v any) any {
	var text []byte

	switch s := v.(type) {
	case string:
		text = []byte(s)
	case []byte:
		text = s
	case json.RawMessage:
		text = s
	default:
		return v
	}

	var decoded any
	if err := json.Unmarshal(text, &decoded); err != nil {
		return string(text)
	}

	return decoded
}
