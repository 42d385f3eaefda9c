package normalizer

import (
	"fmt"

	"viznorm/internal/models"
)

// ErrorKind classifies a normalization failure.
type ErrorKind string

// Error kinds. All are recoverable: a failed payload degrades to a
// diagnostic banner, never to a broken chat session.
const (
	ErrorKindParse             ErrorKind = "parse_error"
	ErrorKindUnrecognizedShape ErrorKind = "unrecognized_shape"
	ErrorKindEmptyData         ErrorKind = "empty_data"
)

// Error is the failure value produced by normalization. RawPayload keeps
// the offending input for diagnostic display only; it is never re-parsed.
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	RawPayload any       `json:"rawPayload,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, rawPayload any, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		RawPayload: rawPayload,
	}
}

// Status describes the outcome of one normalization call.
type Status string

// Outcome statuses.
const (
	StatusNoPayload Status = "no_payload"
	StatusReady     Status = "ready"
	StatusError     Status = "error"
)

// Result is the outcome returned to callers: a chart spec, a distinguished
// no-payload sentinel, or a typed error. Exactly one of Spec and Err is set
// when Status is ready or error respectively.
type Result struct {
	Status Status            `json:"status"`
	Spec   *models.ChartSpec `json:"spec,omitempty"`
	Err    *Error            `json:"error,omitempty"`
}

// Ready reports whether the result carries a drawable spec.
func (r *Result) Ready() bool {
	return r.Status == StatusReady && r.Spec != nil
}

// Failed reports whether the result carries an error of any kind.
func (r *Result) Failed() bool {
	return r.Status == StatusError && r.Err != nil
}

// Empty reports whether the payload was recognized but produced no
// drawable series.
func (r *Result) Empty() bool {
	return r.Failed() && r.Err.Kind == ErrorKindEmptyData
}

func noPayloadResult() *Result {
	return &Result{Status: StatusNoPayload}
}

func readyResult(spec *models.ChartSpec) *Result {
	return &Result{Status: StatusReady, Spec: spec}
}

func errorResult(err *Error) *Result {
	return &Result{Status: StatusError, Err: err}
}
