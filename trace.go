package opts

import (
	"encoding/json"
)

// Trace records every table consulted while resolving one option, strongest
// first, ending with the registry default when one is declared.
type Trace struct {
	Option string       `json:"option"`
	Scope  string       `json:"scope"`
	Target string       `json:"target,omitempty"`
	Layers []Provenance `json:"layers"`
}

// Provenance details what one table held for a traced option.
type Provenance struct {
	Scope   string `json:"scope"`
	Global  bool   `json:"global,omitempty"`
	Target  string `json:"target,omitempty"`
	Raw     string `json:"raw,omitempty"`
	Value   any    `json:"value,omitempty"`
	Found   bool   `json:"found"`
	Default bool   `json:"default,omitempty"`
}

// Effective returns the first layer that held a value.
func (t Trace) Effective() (Provenance, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer, true
		}
	}
	return Provenance{}, false
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
