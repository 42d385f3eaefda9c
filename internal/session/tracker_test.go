package session

import (
	"testing"

	"viznorm/internal/models"
)

const barPayload = `{"type": "bar", "visualization_params": {"x_data": ["a"], "y_data": [1]}}`

func TestTracker_InitialState(t *testing.T) {
	tr := NewTracker()

	if tr.State() != StateNoPayload {
		t.Errorf("Expected initial no_payload state, got %s", tr.State())
	}

	if tr.Result() != nil {
		t.Error("Expected nil result before first payload")
	}
}

func TestTracker_ReadyTransition(t *testing.T) {
	tr := NewTracker()

	result := tr.Observe(barPayload, "")

	if !result.Ready() {
		t.Fatalf("Expected ready result, got %s", result.Status)
	}

	if tr.State() != StateReady {
		t.Errorf("Expected ready state, got %s", tr.State())
	}

	if tr.Fingerprint() == "" {
		t.Error("Expected payload fingerprint recorded")
	}

	// The transition log shows the full path through parsing.
	transitions := tr.Transitions()
	if len(transitions) != 2 {
		t.Fatalf("Expected 2 transitions, got %d", len(transitions))
	}

	if transitions[0].From != StateNoPayload || transitions[0].To != StateParsing {
		t.Errorf("Unexpected first transition: %s -> %s", transitions[0].From, transitions[0].To)
	}

	if transitions[1].From != StateParsing || transitions[1].To != StateReady {
		t.Errorf("Unexpected second transition: %s -> %s", transitions[1].From, transitions[1].To)
	}
}

func TestTracker_SamePayloadIsCached(t *testing.T) {
	tr := NewTracker()

	first := tr.Observe(barPayload, "")
	second := tr.Observe(barPayload, "")

	if first != second {
		t.Error("Expected identical cached result for unchanged payload")
	}

	stats := tr.Stats()
	if stats.Normalized != 1 {
		t.Errorf("Expected 1 normalization, got %d", stats.Normalized)
	}

	if stats.CacheHits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", stats.CacheHits)
	}
}

func TestTracker_ErrorIsTerminalPerPayload(t *testing.T) {
	tr := NewTracker()

	first := tr.Observe("{bad json", "")
	if !first.Failed() {
		t.Fatalf("Expected error result, got %s", first.Status)
	}

	if tr.State() != StateError {
		t.Errorf("Expected error state, got %s", tr.State())
	}

	// The same failing payload is never retried.
	second := tr.Observe("{bad json", "")
	if second != first {
		t.Error("Expected cached error result, not a retry")
	}

	if tr.Stats().Normalized != 1 {
		t.Errorf("Expected no renormalization, got %d", tr.Stats().Normalized)
	}
}

func TestTracker_NewPayloadAfterError(t *testing.T) {
	tr := NewTracker()

	tr.Observe("{bad json", "")

	result := tr.Observe(barPayload, "")
	if !result.Ready() {
		t.Fatalf("Expected new payload to normalize, got %s", result.Status)
	}

	if tr.State() != StateReady {
		t.Errorf("Expected ready state after new payload, got %s", tr.State())
	}
}

func TestTracker_EmptyState(t *testing.T) {
	tr := NewTracker()

	result := tr.Observe(`{"type": "bar", "visualization_params": {}}`, "")

	if !result.Empty() {
		t.Fatalf("Expected empty result, got %s", result.Status)
	}

	if tr.State() != StateEmpty {
		t.Errorf("Expected empty state, got %s", tr.State())
	}
}

func TestTracker_NilPayloadClearsView(t *testing.T) {
	tr := NewTracker()

	tr.Observe(barPayload, "")
	result := tr.Observe(nil, "")

	if result.Status != "no_payload" {
		t.Errorf("Expected no_payload result, got %s", result.Status)
	}

	if tr.State() != StateNoPayload {
		t.Errorf("Expected no_payload state, got %s", tr.State())
	}

	if tr.Fingerprint() != "" {
		t.Error("Expected fingerprint cleared")
	}
}

func TestTracker_EquivalentEncodingsShareIdentity(t *testing.T) {
	tr := NewTracker()

	tr.Observe(`{"a": 1, "data": [{"name": "A", "v": 1}]}`, "")

	// Same payload with reordered keys is the same identity.
	tr.Observe(`{"data": [{"name": "A", "v": 1}], "a": 1}`, "")

	if tr.Stats().Normalized != 1 {
		t.Errorf("Expected reordered payload to hit cache, normalized %d times", tr.Stats().Normalized)
	}
}

func TestTracker_ObserveResponse(t *testing.T) {
	tr := NewTracker()

	resp := models.NewChatResponse(models.RoleAssistant, "Here is a line chart.",
		map[string]any{"data": []any{map[string]any{"y": []any{1.0, 2.0}}}})

	result := tr.ObserveResponse(resp)
	if !result.Ready() {
		t.Fatalf("Expected ready result, got %s", result.Status)
	}

	if result.Spec.Series[0].Kind != models.KindLine {
		t.Errorf("Expected response text to drive inference, got %s", result.Spec.Series[0].Kind)
	}
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()

	tr.Observe(barPayload, "")
	tr.Reset()

	if tr.State() != StateNoPayload {
		t.Errorf("Expected no_payload after reset, got %s", tr.State())
	}

	if tr.Result() != nil || tr.Fingerprint() != "" || len(tr.Transitions()) != 0 {
		t.Error("Expected cleared tracker state after reset")
	}

	if tr.Stats().Observed != 0 {
		t.Error("Expected cleared stats after reset")
	}
}

func TestTrackerStats_String(t *testing.T) {
	tr := NewTracker()
	tr.Observe(barPayload, "")

	str := tr.Stats().String()
	if str == "" {
		t.Error("Expected non-empty stats string")
	}
}
