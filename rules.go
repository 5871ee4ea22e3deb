package opts

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext carries inputs needed when evaluating an expression. Snapshot is
// usually Snapshot.Env(); Scope and Target name the object it was read from.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Scope    string
	Target   string
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule is an expression compiled once and run against many contexts.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption is reserved for evaluator specific compile settings.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

// engineNamer is implemented by the bundled evaluators.
type engineNamer interface {
	engineName() string
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(engineNamer); ok {
		return named.engineName()
	}
	return "custom"
}

// reservedBindings are bound by every evaluator; snapshot entries with the
// same name are dropped.
var reservedBindings = []string{"now", "args", "metadata", "scope", "call"}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) scopeLabel() string {
	if ctx.Scope != "" {
		return ctx.Scope
	}
	return "unknown"
}

func (ctx RuleContext) scopeBinding() map[string]any {
	if ctx.Scope == "" {
		return nil
	}
	binding := map[string]any{"name": ctx.Scope}
	if ctx.Target != "" {
		binding["target"] = ctx.Target
	}
	return binding
}

// bindings returns every variable an expression sees, except call. ctx must
// already carry defaults.
func (ctx RuleContext) bindings() map[string]any {
	env := map[string]any{}
	if snapshot, ok := ctx.Snapshot.(map[string]any); ok {
		for key, value := range snapshot {
			if !slices.Contains(reservedBindings, key) {
				env[key] = value
			}
		}
	}
	scope := ctx.scopeBinding()
	if scope == nil {
		scope = map[string]any{}
	}
	env["now"] = *ctx.Now
	env["args"] = ctx.Args
	env["metadata"] = ctx.Metadata
	env["scope"] = scope
	return env
}

// programKey keys compiled programs in a shared ProgramCache. Evaluators that
// declare variables at compile time pass their names.
func programKey(engine, expression string, variables ...string) string {
	if len(variables) == 0 {
		return engine + "\x00" + expression
	}
	return engine + "\x00" + expression + "\x00" + strings.Join(variables, ",")
}

func bindingNames(env map[string]any) []string {
	return slices.Sorted(maps.Keys(env))
}
