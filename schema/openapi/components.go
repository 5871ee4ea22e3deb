package openapi

import (
	"github.com/goliatone/go-tmux-options/internal/coerce"
	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

// componentNames maps each scope to the record it is published as.
var componentNames = map[layering.OptionScope]string{
	layering.ScopeServer:  "ServerOptions",
	layering.ScopeSession: "SessionOptions",
	layering.ScopeWindow:  "WindowOptions",
	layering.ScopePane:    "PaneOptions",
}

const rootComponent = "Options"

func componentRef(name string) string {
	return "#/components/schemas/" + name
}

// recordSchema describes one scope record: every field optional, keyed by
// its record field name.
func recordSchema(scope layering.OptionScope, fields []schema.Field) map[string]any {
	properties := make(map[string]any, len(fields))
	for _, field := range fields {
		properties[field.FieldName] = fieldSchema(field)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
		"x-tmux-scope":         scope.String(),
	}
}

func fieldSchema(field schema.Field) map[string]any {
	out := typeSchema(field.Type)
	out["x-tmux-option"] = field.Name
	if field.MinVersion != "" {
		out["x-tmux-min-version"] = field.MinVersion
	}
	if holding := field.HoldingScopes(); len(holding) > 1 {
		names := make([]string, 0, len(holding))
		for _, scope := range holding {
			names = append(names, scope.String())
		}
		out["x-tmux-holding"] = names
	}
	if field.HasDefault {
		if value, err := coerce.Value(field.Default, field.Type); err == nil {
			if style, ok := value.(schema.Style); ok {
				value = string(style)
			}
			out["default"] = value
		}
	}
	return out
}

func typeSchema(typ schema.Type) map[string]any {
	switch typ.Kind {
	case schema.KindInteger:
		return map[string]any{"type": "integer"}
	case schema.KindFlag:
		return map[string]any{"type": "boolean"}
	case schema.KindEnum:
		values := make([]any, 0, len(typ.Values))
		for _, v := range typ.Values {
			values = append(values, v)
		}
		return map[string]any{"type": "string", "enum": values}
	case schema.KindStyle:
		return map[string]any{"type": "string", "format": "tmux-style"}
	case schema.KindArray:
		elem := schema.String()
		if typ.Elem != nil {
			elem = *typ.Elem
		}
		items := typeSchema(elem)
		items["type"] = []any{items["type"], "null"}
		return map[string]any{"type": "array", "items": items}
	default:
		return map[string]any{"type": "string"}
	}
}
