package schema

import (
	"github.com/goliatone/go-tmux-options/layering"
)

// FieldDescriptor describes one declared option in a serializable form.
type FieldDescriptor struct {
	Name       string   `json:"name" yaml:"name"`
	Field      string   `json:"field" yaml:"field"`
	Scope      string   `json:"scope" yaml:"scope"`
	Type       string   `json:"type" yaml:"type"`
	Default    *string  `json:"default,omitempty" yaml:"default,omitempty"`
	Holding    []string `json:"holding,omitempty" yaml:"holding,omitempty"`
	MinVersion string   `json:"min_version,omitempty" yaml:"min_version,omitempty"`
}

// Describe returns descriptors for the fields of scope's record in
// declaration order. ScopeUnknown describes every field.
func (r *Registry) Describe(scope layering.OptionScope) []FieldDescriptor {
	fields := r.Fields()
	if scope != layering.ScopeUnknown {
		fields = r.FieldsFor(scope)
	}
	out := make([]FieldDescriptor, 0, len(fields))
	for _, field := range fields {
		out = append(out, describeField(field))
	}
	return out
}

func describeField(field Field) FieldDescriptor {
	desc := FieldDescriptor{
		Name:       field.Name,
		Field:      field.FieldName,
		Scope:      field.Scope.String(),
		Type:       field.Type.String(),
		MinVersion: field.MinVersion,
	}
	if field.HasDefault {
		def := field.Default
		desc.Default = &def
	}
	holding := field.HoldingScopes()
	if len(holding) > 1 {
		desc.Holding = make([]string, 0, len(holding))
		for _, scope := range holding {
			desc.Holding = append(desc.Holding, scope.String())
		}
	}
	return desc
}
