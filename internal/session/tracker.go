// Package session tracks the visualization lifecycle of a chat view.
//
// The normalizer itself is pure; the view holding a chart is what moves
// through states as payloads arrive. A Tracker owns that state for one
// view: transitions fire only when the payload identity changes, and a
// failed or empty payload is terminal, it is never retried.
package session

import (
	"fmt"
	"time"

	"viznorm/internal/models"
	"viznorm/internal/normalizer"
	"viznorm/pkg/fingerprint"
)

// State names the phases a chart view moves through.
type State string

// View states. Parsing is transient: it is entered and left within one
// Observe call, but recorded so the transition log shows the full path.
const (
	StateNoPayload State = "no_payload"
	StateParsing   State = "parsing"
	StateReady     State = "ready"
	StateError     State = "error"
	StateEmpty     State = "empty"
)

// Transition records one state change with its payload identity.
type Transition struct {
	Timestamp   time.Time
	Fingerprint string
	From        State
	To          State
}

// Tracker drives one chat view's chart state from arriving payloads.
// One tracker serves one view; it is not safe for concurrent use.
type Tracker struct {
	norm        *normalizer.Normalizer
	state       State
	fingerprint string
	result      *normalizer.Result
	transitions []Transition
	stats       TrackerStats
}

// TrackerStats counts what the tracker has seen and done.
type TrackerStats struct {
	Observed   int
	Normalized int
	CacheHits  int
	Ready      int
	Failed     int
	Empty      int
}

// String returns a string representation of tracker stats.
func (s TrackerStats) String() string {
	return fmt.Sprintf(
		"Observed: %d | Normalized: %d | Cache hits: %d | Ready: %d | Error: %d | Empty: %d",
		s.Observed,
		s.Normalized,
		s.CacheHits,
		s.Ready,
		s.Failed,
		s.Empty,
	)
}

// NewTracker creates a tracker in the no-payload state.
func NewTracker() *Tracker {
	return &Tracker{
		norm:  normalizer.NewNormalizer(),
		state: StateNoPayload,
	}
}

// Observe hands the tracker the view's current raw payload. A payload
// with the same fingerprint as the last one returns the cached result
// without renormalizing, which is what makes error and empty outcomes
// terminal per payload.
func (t *Tracker) Observe(raw any, responseText string) *normalizer.Result {
	t.stats.Observed++

	if raw == nil {
		if t.state != StateNoPayload {
			t.shift(StateNoPayload, "")
		}

		t.fingerprint = ""
		t.result = t.norm.Normalize(nil, responseText)

		return t.result
	}

	fp := payloadFingerprint(raw)
	if fp != "" && fp == t.fingerprint && t.result != nil {
		t.stats.CacheHits++

		return t.result
	}

	t.fingerprint = fp
	t.shift(StateParsing, fp)

	result := t.norm.Normalize(raw, responseText)
	t.result = result
	t.stats.Normalized++

	next := stateForResult(result)
	t.shift(next, fp)

	switch next {
	case StateReady:
		t.stats.Ready++
	case StateError:
		t.stats.Failed++
	case StateEmpty:
		t.stats.Empty++
	}

	return result
}

// ObserveResponse observes the visualization attached to a chat response,
// using the response text for type inference.
func (t *Tracker) ObserveResponse(resp *models.ChatResponse) *normalizer.Result {
	if resp == nil {
		return t.Observe(nil, "")
	}

	return t.Observe(resp.Visualization, resp.Content)
}

// State returns the current view state.
func (t *Tracker) State() State {
	return t.state
}

// Result returns the most recent normalization result, nil before the
// first payload.
func (t *Tracker) Result() *normalizer.Result {
	return t.result
}

// Fingerprint returns the identity of the current payload, empty when
// there is none.
func (t *Tracker) Fingerprint() string {
	return t.fingerprint
}

// Transitions returns the state change log.
func (t *Tracker) Transitions() []Transition {
	return t.transitions
}

// Stats returns tracker counters.
func (t *Tracker) Stats() TrackerStats {
	return t.stats
}

// Reset returns the tracker to its initial state.
func (t *Tracker) Reset() {
	t.state = StateNoPayload
	t.fingerprint = ""
	t.result = nil
	t.transitions = nil
	t.stats = TrackerStats{}
}

func (t *Tracker) shift(to State, fp string) {
	t.transitions = append(t.transitions, Transition{
		Timestamp:   time.Now(),
		Fingerprint: fp,
		From:        t.state,
		To:          to,
	})

	t.state = to
}

func stateForResult(result *normalizer.Result) State {
	switch {
	case result.Ready():
		return StateReady
	case result.Empty():
		return StateEmpty
	case result.Failed():
		return StateError
	}

	return StateNoPayload
}

// payloadFingerprint returns the payload identity, or empty for values
// with no JSON form, which are then renormalized every time.
func payloadFingerprint(raw any) string {
	fp, err := fingerprint.Compute(raw)
	if err != nil {
		return ""
	}

	return fp
}
