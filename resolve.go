package opts

import (
	"context"
	"fmt"

	"github.com/goliatone/go-tmux-options/internal/coerce"
	"github.com/goliatone/go-tmux-options/internal/parse"
	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

// ShowAll lists one option table and returns its values keyed by option name
// (array elements collected under the base name). Explicit entries win over
// inherited ones; inherited entries are only kept with WithInherited. Names
// the registry does not declare are returned as plain strings.
//
// A malformed line or a value that does not fit its declared type aborts the
// whole listing.
func (e *Engine) ShowAll(ctx context.Context, t Target, opts ...CallOption) (map[string]any, error) {
	call := applyCallOptions(opts)
	scope := call.scopeFor(t)
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScope, scope)
	}
	v, err := e.Version(ctx)
	if err != nil {
		return nil, err
	}
	log := e.log(ctx).With("op", "show-all", "scope", scope.String(), "target", t.String())

	effective := scope
	if !e.scopeSupported(effective, v) {
		if effective != layering.ScopePane {
			err := &OptionError{Kind: KindUnsupportedScope, Scope: scope, Target: t.For(scope), Version: v.String()}
			if call.ignoreErrors {
				log.Debug("listing ignored", "err", err)
				return map[string]any{}, nil
			}
			return nil, err
		}
		// Before per-pane options a pane reads its window's table.
		effective = layering.ScopeWindow
		log.Debug("pane scope unsupported, listing window table", "version", v.String())
	}

	table, global := tableFor(effective, call.global)
	req := ListRequest{
		Scope:     table,
		Global:    global,
		Inherited: call.inherited && v.Supports(CapShowInherited),
		Hooks:     call.hooks && v.Supports(CapShowHooks),
		Quiet:     call.ignoreErrors && v.Supports(CapQuietShow),
	}
	if !global {
		req.Target = t.For(table)
	}
	log.Debug("listing options", "global", req.Global, "inherited", req.Inherited, "hooks", req.Hooks)

	raw, err := e.source.ListOptions(ctx, req)
	if err != nil {
		return nil, classifySourceError(err, table, req.Target, "")
	}
	entries, err := parse.Listing(raw)
	if err != nil {
		return nil, err
	}
	return e.mergeEntries(entries, table, call.inherited)
}

// Show returns the typed value of one option. Without WithInherited only the
// addressed table is consulted; with it the ancestor chain is walked down to
// the registry default. An absent value is OptionError(NotFound).
//
// WithIgnoreErrors turns a failed lookup into (nil, nil), but only on tmux
// versions whose show-options supports -q. Older versions still fail.
func (e *Engine) Show(ctx context.Context, t Target, name string, opts ...CallOption) (any, error) {
	call := applyCallOptions(opts)
	scope := call.scopeFor(t)
	v, err := e.Version(ctx)
	if err != nil {
		return nil, err
	}
	log := e.log(ctx).With("op", "show", "scope", scope.String(), "target", t.String(), "option", name)

	value, err := e.show(ctx, t, scope, name, call, v)
	if err != nil && call.ignoreErrors && silenceable(err) {
		if v.Supports(CapQuietShow) {
			log.Debug("option lookup ignored", "err", err)
			return nil, nil
		}
		log.Debug("cannot ignore lookup failure on this tmux version", "version", v.String())
	}
	return value, err
}

func (e *Engine) show(ctx context.Context, t Target, scope layering.OptionScope, name string, call callConfig, v Version) (any, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScope, scope)
	}
	field, err := e.lookup(scope, name, v)
	if err != nil {
		return nil, err
	}
	routed, ok := e.route(name, scope, v)
	if !ok {
		return nil, &OptionError{Kind: KindUnsupportedScope, Scope: scope, Target: t.For(scope), Name: name, Version: v.String()}
	}
	quiet := call.ignoreErrors && v.Supports(CapQuietShow)

	if !call.inherited {
		table, global := tableFor(routed, call.global)
		entries, err := e.fetch(ctx, t, name, step{scope: table, global: global}, quiet)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, notFound(routed, t, name)
		}
		return valueOf(field, name, routed, entries)
	}

	for _, st := range e.chain(field, routed, call.global, v) {
		entries, err := e.fetch(ctx, t, name, st, quiet)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			return valueOf(field, name, st.scope, entries)
		}
	}
	if value, ok, err := defaultOf(field, name, routed); ok || err != nil {
		return value, err
	}
	return nil, notFound(routed, t, name)
}

// Trace walks the full fallback chain for name and reports what every step
// held, ending with the registry default.
func (e *Engine) Trace(ctx context.Context, t Target, name string, opts ...CallOption) (Trace, error) {
	call := applyCallOptions(opts)
	scope := call.scopeFor(t)
	if !scope.Valid() {
		return Trace{}, fmt.Errorf("%w: %d", ErrInvalidScope, scope)
	}
	v, err := e.Version(ctx)
	if err != nil {
		return Trace{}, err
	}
	field, err := e.lookup(scope, name, v)
	if err != nil {
		return Trace{}, err
	}
	routed, ok := e.route(name, scope, v)
	if !ok {
		return Trace{}, &OptionError{Kind: KindUnsupportedScope, Scope: scope, Target: t.For(scope), Name: name, Version: v.String()}
	}

	trace := Trace{Option: name, Scope: scope.String(), Target: t.String()}
	quiet := call.ignoreErrors && v.Supports(CapQuietShow)
	for _, st := range e.chain(field, routed, call.global, v) {
		layer := Provenance{Scope: st.scope.String(), Global: st.global, Target: targetForStep(t, st)}
		entries, err := e.fetch(ctx, t, name, st, quiet)
		if err != nil {
			return Trace{}, err
		}
		if len(entries) > 0 {
			value, err := valueOf(field, name, st.scope, entries)
			if err != nil {
				return Trace{}, err
			}
			layer.Found = true
			layer.Value = value
			layer.Raw = entries[0].Value
		}
		trace.Layers = append(trace.Layers, layer)
	}
	if value, ok, err := defaultOf(field, name, routed); err != nil {
		return Trace{}, err
	} else if ok {
		trace.Layers = append(trace.Layers, Provenance{Scope: "default", Found: true, Default: true, Value: value, Raw: field.Default})
	}
	return trace, nil
}

// lookup returns the declared field for name, or a string field held at every
// scope for user options.
func (e *Engine) lookup(scope layering.OptionScope, name string, v Version) (schema.Field, error) {
	if schema.IsCustom(name) {
		if !v.Supports(CapUserOptions) {
			return schema.Field{}, &OptionError{Kind: KindUnknownOption, Scope: scope, Name: name, Version: v.String()}
		}
		return customField(name), nil
	}
	field, ok := e.registry.Lookup(name)
	if !ok {
		return schema.Field{}, &OptionError{Kind: KindUnknownOption, Scope: scope, Name: name}
	}
	if !v.AtLeast(field.MinVersion) {
		return schema.Field{}, &OptionError{
			Kind:    KindUnknownOption,
			Scope:   scope,
			Name:    name,
			Version: v.String(),
			Err:     fmt.Errorf("requires tmux %s", field.MinVersion),
		}
	}
	if _, _, indexed := schema.SplitIndex(name); indexed && field.Type.Kind != schema.KindArray {
		return schema.Field{}, &OptionError{Kind: KindInvalidOption, Scope: scope, Name: name, Err: fmt.Errorf("%s is not an array option", field.Name)}
	}
	return field, nil
}

func customField(name string) schema.Field {
	return schema.Field{
		Name:      name,
		FieldName: name,
		Type:      schema.String(),
		Scope:     layering.ScopeServer,
		Holding:   append([]layering.OptionScope(nil), layering.Scopes...),
	}
}

// route returns the nearest scope at or above scope whose table carries name
// on v. Names the registry rejects at scope fail before any version check.
func (e *Engine) route(name string, scope layering.OptionScope, v Version) (layering.OptionScope, bool) {
	if !schema.IsCustom(name) && !e.registry.IsKnown(scope, name) {
		return layering.ScopeUnknown, false
	}
	return e.registry.RouteWhere(name, scope, func(candidate layering.OptionScope) bool {
		return e.addressable(name, candidate, v)
	})
}

type step struct {
	scope  layering.OptionScope
	global bool
}

// chain lists the tables consulted for field starting at scope:
// pane, window, global window, session, global session, server.
func (e *Engine) chain(field schema.Field, scope layering.OptionScope, globalOnly bool, v Version) []step {
	var steps []step
	for _, s := range layering.Ancestors(scope).Ordered() {
		if !field.Holds(s) || !e.addressable(field.Name, s, v) {
			continue
		}
		if s == layering.ScopeServer {
			steps = append(steps, step{scope: s})
			continue
		}
		if !globalOnly {
			steps = append(steps, step{scope: s})
		}
		if s.HasGlobalTable() {
			steps = append(steps, step{scope: s, global: true})
		}
	}
	return steps
}

// tableFor maps a scope and the global flag onto the table tmux addresses.
// The server has a single table; a pane's global table is the global window
// table.
func tableFor(scope layering.OptionScope, global bool) (layering.OptionScope, bool) {
	if !global || scope == layering.ScopeServer {
		return scope, false
	}
	if scope == layering.ScopePane {
		return layering.ScopeWindow, true
	}
	return scope, true
}

func targetForStep(t Target, st step) string {
	if st.global || st.scope == layering.ScopeServer {
		return ""
	}
	return t.For(st.scope)
}

// fetch reads name from one table and keeps the explicit entries for it.
func (e *Engine) fetch(ctx context.Context, t Target, name string, st step, quiet bool) ([]parse.Entry, error) {
	req := GetRequest{
		Scope:  st.scope,
		Target: targetForStep(t, st),
		Name:   name,
		Global: st.global,
		Quiet:  quiet,
	}
	raw, err := e.source.GetOption(ctx, req)
	if err != nil {
		return nil, classifySourceError(err, st.scope, req.Target, name)
	}
	entries, err := parse.Listing(raw)
	if err != nil {
		return nil, err
	}
	base, index, indexed := splitName(name)
	out := entries[:0]
	for _, entry := range entries {
		if entry.Inherited || entry.Base != base {
			continue
		}
		if indexed && (!entry.Indexed || entry.Index != index) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func splitName(name string) (string, int, bool) {
	if schema.IsCustom(name) {
		return name, -1, false
	}
	return schema.SplitIndex(name)
}

// valueOf coerces the entries reported for one option.
func valueOf(field schema.Field, name string, scope layering.OptionScope, entries []parse.Entry) (any, error) {
	_, _, indexed := splitName(name)
	if field.Type.Kind == schema.KindArray {
		elem := schema.String()
		if field.Type.Elem != nil {
			elem = *field.Type.Elem
		}
		if indexed {
			entry := entries[len(entries)-1]
			var (
				value any
				err   error
			)
			if entry.Bare {
				value, err = coerce.Bare(elem)
			} else {
				value, err = coerce.Value(entry.Value, elem)
			}
			return value, coerce.Locate(err, scope, name)
		}
		value, err := collectArray(entries, field.Type)
		return value, coerce.Locate(err, scope, name)
	}
	entry := entries[len(entries)-1]
	var (
		value any
		err   error
	)
	if entry.Bare {
		value, err = coerce.Bare(field.Type)
	} else {
		value, err = coerce.Value(entry.Value, field.Type)
	}
	if err != nil {
		return nil, coerce.Locate(err, scope, name)
	}
	return value, nil
}

func collectArray(entries []parse.Entry, typ schema.Type) ([]any, error) {
	elements := map[int]string{}
	next := 0
	for _, entry := range entries {
		switch {
		case entry.Indexed:
			elements[entry.Index] = entry.Value
			if entry.Index >= next {
				next = entry.Index + 1
			}
		case entry.Bare:
		default:
			elements[next] = entry.Value
			next++
		}
	}
	return coerce.Array(elements, typ)
}

// defaultOf returns the registry default for a whole option. ok is false when
// none is declared.
func defaultOf(field schema.Field, name string, scope layering.OptionScope) (any, bool, error) {
	if !field.HasDefault || schema.IsCustom(name) {
		return nil, false, nil
	}
	if _, _, indexed := splitName(name); indexed {
		return nil, false, nil
	}
	value, err := coerce.Value(field.Default, field.Type)
	if err != nil {
		return nil, false, coerce.Locate(err, scope, name)
	}
	return value, true, nil
}

func notFound(scope layering.OptionScope, t Target, name string) error {
	return &OptionError{Kind: KindNotFound, Scope: scope, Target: t.For(scope), Name: name}
}

// mergeEntries groups listing lines by option and coerces them. Explicit
// values shadow inherited ones for the same name.
func (e *Engine) mergeEntries(entries []parse.Entry, scope layering.OptionScope, keepInherited bool) (map[string]any, error) {
	explicit := map[string][]parse.Entry{}
	inherited := map[string][]parse.Entry{}
	for _, entry := range entries {
		if entry.Inherited {
			if keepInherited {
				inherited[entry.Base] = append(inherited[entry.Base], entry)
			}
			continue
		}
		explicit[entry.Base] = append(explicit[entry.Base], entry)
	}

	explicitValues, err := e.coerceGroups(explicit, scope)
	if err != nil {
		return nil, err
	}
	inheritedValues, err := e.coerceGroups(inherited, scope)
	if err != nil {
		return nil, err
	}
	return layering.MergeLayers(explicitValues, inheritedValues), nil
}

func (e *Engine) coerceGroups(groups map[string][]parse.Entry, scope layering.OptionScope) (map[string]any, error) {
	out := make(map[string]any, len(groups))
	for base, group := range groups {
		field := e.listingField(base, group)
		value, err := valueOf(field, base, scope, group)
		if err != nil {
			return nil, err
		}
		out[base] = value
	}
	return out, nil
}

// listingField types a listed name: declared fields use their type, anything
// else (user options, hooks, options newer than the registry) is a string or
// an array of strings.
func (e *Engine) listingField(base string, group []parse.Entry) schema.Field {
	if !schema.IsCustom(base) {
		if field, ok := e.registry.Lookup(base); ok {
			return field
		}
	}
	for _, entry := range group {
		if entry.Indexed {
			return schema.Field{Name: base, Type: schema.Array(schema.String(), ",")}
		}
	}
	return schema.Field{Name: base, Type: schema.String()}
}
