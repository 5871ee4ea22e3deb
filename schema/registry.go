package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-tmux-options/layering"
)

var (
	// ErrDuplicateOption indicates two fields share an option name.
	ErrDuplicateOption = errors.New("schema: option names must be unique")
	// ErrDuplicateField indicates two fields share a record field name, which
	// would break the name <-> field bijection.
	ErrDuplicateField = errors.New("schema: field names must be unique")
	// ErrInvalidField indicates a field declaration is incomplete.
	ErrInvalidField = errors.New("schema: invalid field declaration")
)

// Field declares one known option.
type Field struct {
	// Name is the hyphenated option name, e.g. "buffer-limit".
	Name string
	// FieldName is the record field name, e.g. "buffer_limit".
	FieldName string
	Type      Type
	// Default is the raw built-in default; meaningful only when HasDefault.
	Default    string
	HasDefault bool
	// Scope is the record the option belongs to.
	Scope layering.OptionScope
	// Holding lists every scope that can carry an explicit value. Empty means
	// only Scope.
	Holding []layering.OptionScope
	// MinVersion is the first multiplexer version that knows the option.
	MinVersion string
}

// Holds reports whether an explicit value may be set at scope.
func (f Field) Holds(scope layering.OptionScope) bool {
	if len(f.Holding) == 0 {
		return scope == f.Scope
	}
	return slices.Contains(f.Holding, scope)
}

// HoldingScopes returns the scopes able to carry an explicit value.
func (f Field) HoldingScopes() []layering.OptionScope {
	if len(f.Holding) == 0 {
		return []layering.OptionScope{f.Scope}
	}
	return append([]layering.OptionScope(nil), f.Holding...)
}

// Registry is the immutable table of known options per scope. Build it once
// with NewRegistry and share it by reference.
type Registry struct {
	fields      []Field
	byName      map[string]int
	byFieldName map[string]int
	scopeMin    map[layering.OptionScope]string
}

// RegistryOption configures registry construction.
type RegistryOption func(*Registry)

// WithScopeMinVersion declares the first version that supports addressing
// scope at all (e.g. per-pane options).
func WithScopeMinVersion(scope layering.OptionScope, version string) RegistryOption {
	return func(r *Registry) {
		r.scopeMin[scope] = version
	}
}

// NewRegistry validates and indexes fields. Declaration order is preserved.
func NewRegistry(fields []Field, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		fields:      make([]Field, 0, len(fields)),
		byName:      make(map[string]int, len(fields)),
		byFieldName: make(map[string]int, len(fields)),
		scopeMin:    map[layering.OptionScope]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	for _, field := range fields {
		if field.Name == "" || field.FieldName == "" {
			return nil, fmt.Errorf("%w: %q/%q", ErrInvalidField, field.Name, field.FieldName)
		}
		if IsCustom(field.Name) {
			return nil, fmt.Errorf("%w: custom name %q cannot be declared", ErrInvalidField, field.Name)
		}
		if !field.Scope.Valid() {
			return nil, fmt.Errorf("%w: %q has no scope", ErrInvalidField, field.Name)
		}
		if field.Type.Kind == KindUnknown {
			return nil, fmt.Errorf("%w: %q has no type", ErrInvalidField, field.Name)
		}
		if field.Type.Kind == KindEnum && len(field.Type.Values) == 0 {
			return nil, fmt.Errorf("%w: enum %q has no values", ErrInvalidField, field.Name)
		}
		if _, ok := r.byName[field.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOption, field.Name)
		}
		if _, ok := r.byFieldName[field.FieldName]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, field.FieldName)
		}
		if !field.Holds(field.Scope) {
			field.Holding = append([]layering.OptionScope{field.Scope}, field.Holding...)
		}
		field.Holding = append([]layering.OptionScope(nil), field.Holding...)
		idx := len(r.fields)
		r.fields = append(r.fields, field)
		r.byName[field.Name] = idx
		r.byFieldName[field.FieldName] = idx
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on invalid declarations.
func MustRegistry(fields []Field, opts ...RegistryOption) *Registry {
	r, err := NewRegistry(fields, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// FieldsFor returns the fields belonging to scope's record, in declaration
// order.
func (r *Registry) FieldsFor(scope layering.OptionScope) []Field {
	if r == nil {
		return nil
	}
	var out []Field
	for _, field := range r.fields {
		if field.Scope == scope {
			out = append(out, field)
		}
	}
	return out
}

// Fields returns every declared field.
func (r *Registry) Fields() []Field {
	if r == nil {
		return nil
	}
	return append([]Field(nil), r.fields...)
}

// Lookup finds a known option by name; an array index suffix is ignored.
func (r *Registry) Lookup(name string) (Field, bool) {
	if r == nil {
		return Field{}, false
	}
	base, _, _ := SplitIndex(name)
	idx, ok := r.byName[base]
	if !ok {
		return Field{}, false
	}
	return r.fields[idx], true
}

// LookupField finds a known option by its record field name.
func (r *Registry) LookupField(fieldName string) (Field, bool) {
	if r == nil {
		return Field{}, false
	}
	idx, ok := r.byFieldName[fieldName]
	if !ok {
		return Field{}, false
	}
	return r.fields[idx], true
}

// Route resolves the scope that actually carries name when addressed at scope:
// scope itself when the option may be held there, otherwise the nearest
// ancestor that can hold it. Custom options are held everywhere. ok is false
// for unknown names and for requests broader than every holding scope.
func (r *Registry) Route(name string, scope layering.OptionScope) (layering.OptionScope, bool) {
	return r.RouteWhere(name, scope, nil)
}

// RouteWhere is Route restricted to scopes accepted by usable, typically the
// tables a given multiplexer version can address. A nil usable accepts all.
func (r *Registry) RouteWhere(name string, scope layering.OptionScope, usable func(layering.OptionScope) bool) (layering.OptionScope, bool) {
	if !scope.Valid() {
		return layering.ScopeUnknown, false
	}
	holds := func(layering.OptionScope) bool { return true }
	if !IsCustom(name) {
		field, ok := r.Lookup(name)
		if !ok {
			return layering.ScopeUnknown, false
		}
		holds = field.Holds
	}
	for _, candidate := range layering.Ancestors(scope).Ordered() {
		if holds(candidate) && (usable == nil || usable(candidate)) {
			return candidate, true
		}
	}
	return layering.ScopeUnknown, false
}

// IsKnown reports whether name is a declared option addressable at scope.
// Custom options are not "known"; callers check IsCustom separately.
func (r *Registry) IsKnown(scope layering.OptionScope, name string) bool {
	if IsCustom(name) {
		return false
	}
	_, ok := r.Route(name, scope)
	return ok
}

// MinVersionFor returns the minimum multiplexer version required to address
// name at scope: the later of the option's own minimum and the scope's.
// An empty string means no constraint.
func (r *Registry) MinVersionFor(name string, scope layering.OptionScope) string {
	if r == nil {
		return ""
	}
	scopeMin := r.scopeMin[scope]
	if IsCustom(name) {
		return scopeMin
	}
	field, ok := r.Lookup(name)
	if !ok {
		return scopeMin
	}
	if field.MinVersion == "" {
		return scopeMin
	}
	if scopeMin == "" {
		return field.MinVersion
	}
	if compareVersions(field.MinVersion, scopeMin) >= 0 {
		return field.MinVersion
	}
	return scopeMin
}

// ScopeMinVersion returns the minimum version able to address scope at all.
func (r *Registry) ScopeMinVersion(scope layering.OptionScope) string {
	if r == nil {
		return ""
	}
	return r.scopeMin[scope]
}

// Len returns the number of declared fields.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}
