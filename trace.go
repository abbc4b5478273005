package permstore

import (
	"encoding/json"
)

const (
	sourceEntry    = "entry"
	sourceField    = "field"
	sourceProducer = "producer"
	sourceFallback = "fallback"
	sourceRoot     = "root"
)

// Trace captures how a path resolved: one step per segment consulted,
// including producer invocations and nearest-container fallbacks.
type Trace struct {
	Path  string       `json:"path"`
	Steps []Provenance `json:"steps"`
}

// Provenance details one resolution step.
type Provenance struct {
	Key       string `json:"key,omitempty"`
	Container string `json:"container"`
	Source    string `json:"source"`
	Kind      string `json:"kind,omitempty"`
	Found     bool   `json:"found"`
}

// record is nil-safe so resolution code can trace unconditionally.
func (t *Trace) record(step Provenance) {
	if t == nil {
		return
	}
	t.Steps = append(t.Steps, step)
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously generated via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
