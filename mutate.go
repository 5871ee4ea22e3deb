package opts

import (
	"context"
	"fmt"

	"github.com/goliatone/go-tmux-options/internal/coerce"
	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/pkg/activity"
	"github.com/goliatone/go-tmux-options/schema"
)

// Set writes value to name at the target's scope (or the scope selected with
// WithTargetScope), routed to the nearest scope that holds the option. The
// value is formatted against the declared type before anything is sent.
//
// Addressing the target's own scope on a multiplexer version that cannot hold
// it fails even with WithIgnoreErrors; an unsupported WithTargetScope can be
// ignored. A type mismatch is never ignored.
func (e *Engine) Set(ctx context.Context, t Target, name string, value any, opts ...CallOption) error {
	call := applyCallOptions(opts)
	v, err := e.Version(ctx)
	if err != nil {
		return err
	}
	log := e.log(ctx)

	field, routed, err := e.prepareMutation(t, name, call, v)
	if err != nil {
		return e.ignore(ctx, "set", call, err)
	}

	raw, err := formatValue(value, field, name, routed)
	if err != nil {
		return err
	}

	table, global := tableFor(routed, call.global)
	req := ApplyRequest{
		Scope:  table,
		Name:   name,
		Value:  raw,
		Global: global,
		Append: call.appendValue,
		Quiet:  call.ignoreErrors && v.Supports(CapQuietSet),
	}
	if !global && table != layering.ScopeServer {
		req.Target = t.For(table)
	}
	if err := e.source.ApplyOption(ctx, req); err != nil {
		return e.ignore(ctx, "set", call, classifySourceError(err, table, req.Target, name))
	}

	log.Info("option set",
		"scope", table.String(),
		"target", req.Target,
		"option", name,
		"value", raw,
		"global", global,
		"append", req.Append,
	)
	e.emitMutation(ctx, activity.VerbOptionUpdated, table, req.Target, name, global, value)
	return nil
}

// Unset removes name's explicit value at the routed scope so it inherits
// again. Unsetting a server option restores its default. Removing a value
// that was never set is not an error.
func (e *Engine) Unset(ctx context.Context, t Target, name string, opts ...CallOption) error {
	call := applyCallOptions(opts)
	v, err := e.Version(ctx)
	if err != nil {
		return err
	}

	_, routed, err := e.prepareMutation(t, name, call, v)
	if err != nil {
		return e.ignore(ctx, "unset", call, err)
	}

	table, global := tableFor(routed, call.global)
	req := UnsetRequest{
		Scope:  table,
		Name:   name,
		Global: global,
		Quiet:  call.ignoreErrors && v.Supports(CapQuietSet),
	}
	if !global && table != layering.ScopeServer {
		req.Target = t.For(table)
	}
	if err := e.source.UnsetOption(ctx, req); err != nil {
		return e.ignore(ctx, "unset", call, classifySourceError(err, table, req.Target, name))
	}

	e.log(ctx).Info("option unset",
		"scope", table.String(),
		"target", req.Target,
		"option", name,
		"global", global,
	)
	e.emitMutation(ctx, activity.VerbOptionDeleted, table, req.Target, name, global, nil)
	return nil
}

// prepareMutation validates the addressed scope and name and returns the
// field with the scope the write lands on.
func (e *Engine) prepareMutation(t Target, name string, call callConfig, v Version) (schema.Field, layering.OptionScope, error) {
	scope := call.scopeFor(t)
	if !scope.Valid() {
		return schema.Field{}, layering.ScopeUnknown, fmt.Errorf("%w: %d", ErrInvalidScope, scope)
	}
	if scope == t.Scope && !e.scopeSupported(scope, v) {
		return schema.Field{}, layering.ScopeUnknown, &fatalError{&OptionError{
			Kind:    KindUnsupportedScope,
			Scope:   scope,
			Target:  t.For(scope),
			Name:    name,
			Version: v.String(),
		}}
	}
	if scope != t.Scope && !e.scopeSupported(scope, v) {
		return schema.Field{}, layering.ScopeUnknown, &OptionError{
			Kind:    KindUnsupportedScope,
			Scope:   scope,
			Target:  t.For(scope),
			Name:    name,
			Version: v.String(),
		}
	}
	field, err := e.lookup(scope, name, v)
	if err != nil {
		return schema.Field{}, layering.ScopeUnknown, err
	}
	routed, ok := e.route(name, scope, v)
	if !ok {
		return schema.Field{}, layering.ScopeUnknown, &OptionError{
			Kind:    KindUnsupportedScope,
			Scope:   scope,
			Target:  t.For(scope),
			Name:    name,
			Version: v.String(),
		}
	}
	return field, routed, nil
}

// fatalError wraps a failure WithIgnoreErrors must not hide.
type fatalError struct {
	err error
}

func (f *fatalError) Error() string { return f.err.Error() }
func (f *fatalError) Unwrap() error { return f.err }

// ignore applies WithIgnoreErrors to a mutation failure.
func (e *Engine) ignore(ctx context.Context, op string, call callConfig, err error) error {
	if fatal, ok := err.(*fatalError); ok {
		return fatal.err
	}
	if call.ignoreErrors && silenceable(err) {
		e.log(ctx).Debug("option "+op+" ignored", "err", err)
		return nil
	}
	return err
}

func formatValue(value any, field schema.Field, name string, scope layering.OptionScope) (string, error) {
	var (
		raw string
		err error
	)
	if _, _, indexed := splitName(name); indexed {
		raw, err = coerce.FormatElement(value, field.Type)
	} else {
		raw, err = coerce.Format(value, field.Type)
	}
	if err != nil {
		return "", &OptionError{
			Kind:  KindTypeMismatch,
			Scope: scope,
			Name:  name,
			Raw:   fmt.Sprint(value),
			Err:   coerce.Locate(err, scope, name),
		}
	}
	return raw, nil
}

func (e *Engine) emitMutation(ctx context.Context, verb string, scope layering.OptionScope, target, name string, global bool, value any) {
	if e.emitter == nil || !e.emitter.Enabled() {
		return
	}
	input := activity.OptionEventInput{
		Scope:    scope.String(),
		Target:   target,
		Name:     name,
		Global:   global,
		NewValue: value,
	}
	var (
		event activity.Event
		err   error
	)
	if verb == activity.VerbOptionDeleted {
		event, err = activity.BuildOptionUnsetEvent(input)
	} else {
		event, err = activity.BuildOptionSetEvent(input)
	}
	if err == nil {
		err = e.emitter.Emit(ctx, event)
	}
	if err != nil {
		e.log(ctx).Warn("activity emit failed", "verb", verb, "option", name, "err", err)
	}
}
