package opts

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

// Snapshot is one resolved listing, kept for rule evaluation. It is a copy:
// later changes to the multiplexer are not reflected.
type Snapshot struct {
	Scope  layering.OptionScope
	Target Target
	Global bool
	Values map[string]any

	registry *schema.Registry
}

// Snapshot lists t's effective options, inherited values included.
func (e *Engine) Snapshot(ctx context.Context, t Target, opts ...CallOption) (Snapshot, error) {
	opts = append(append([]CallOption(nil), opts...), WithInherited())
	call := applyCallOptions(opts)
	values, err := e.ShowAll(ctx, t, opts...)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Scope:    call.scopeFor(t),
		Target:   t,
		Global:   call.global,
		Values:   values,
		registry: e.registry,
	}, nil
}

// NewSnapshot wraps values obtained elsewhere.
func NewSnapshot(registry *schema.Registry, t Target, values map[string]any) Snapshot {
	return Snapshot{Scope: t.Scope, Target: t, Values: maps.Clone(values), registry: registry}
}

// Env returns the expression environment: declared options keyed by record
// field name (buffer_limit), user options under "user" with the @ dropped and
// hyphens turned into underscores, and every value by option name under
// "options".
func (s Snapshot) Env() map[string]any {
	env := map[string]any{}
	user := map[string]any{}
	options := make(map[string]any, len(s.Values))
	for name, value := range s.Values {
		value = envValue(value)
		options[name] = value
		if schema.IsCustom(name) {
			user[userKey(name)] = value
			continue
		}
		if s.registry == nil {
			continue
		}
		if field, ok := s.registry.Lookup(name); ok {
			env[field.FieldName] = value
		}
	}
	env["user"] = user
	env["options"] = options
	return env
}

// RuleContext returns a context carrying Env and the snapshot's scope.
func (s Snapshot) RuleContext() RuleContext {
	return RuleContext{
		Snapshot: s.Env(),
		Scope:    s.Scope.String(),
		Target:   s.Target.For(s.Scope),
	}
}

func userKey(name string) string {
	return strings.ReplaceAll(strings.TrimPrefix(name, "@"), "-", "_")
}

func envValue(value any) any {
	switch v := value.(type) {
	case schema.Style:
		return string(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = envValue(elem)
		}
		return out
	default:
		return value
	}
}
