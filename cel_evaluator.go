package opts

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache stores compiled programs in cache.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry makes registered functions reachable through
// call(name, args...).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.functions = registry.Clone()
	}
}

// celEvaluator runs rules with cel-go. CEL type checks against declared
// variables, so programs are cached per expression and variable set.
type celEvaluator struct {
	cache     ProgramCache
	functions *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) engineName() string { return "cel" }

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	ctx = ctx.withDefaults()
	env := ctx.bindings()
	program, err := e.program(expression, bindingNames(env))
	if err != nil {
		return nil, ruleError("cel", expression, ctx, err)
	}
	return e.run(program, expression, ctx, env)
}

// Compile defers type checking until the first context supplies the
// variable set.
func (e *celEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, ruleError("cel", expression, RuleContext{}, ErrEmptyExpression)
	}
	return &celRule{evaluator: e, expression: expression}, nil
}

func (e *celEvaluator) run(program celgo.Program, expression string, ctx RuleContext, env map[string]any) (any, error) {
	out, _, err := program.Eval(env)
	if err != nil {
		return nil, ruleError("cel", expression, ctx, err)
	}
	return out.Value(), nil
}

func (e *celEvaluator) program(expression string, variables []string) (celgo.Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	key := programKey("cel", expression, variables...)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.environment(variables)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *celEvaluator) environment(variables []string) (*celgo.Env, error) {
	declarations := make([]celgo.EnvOption, 0, len(variables)+1)
	for _, name := range variables {
		switch name {
		case "now":
			declarations = append(declarations, celgo.Variable(name, celgo.TimestampType))
		default:
			declarations = append(declarations, celgo.Variable(name, celgo.DynType))
		}
	}
	if e.functions != nil {
		declarations = append(declarations, celgo.Function("call", e.callOverloads()...))
	}
	return celgo.NewEnv(declarations...)
}

// maxCallArgs bounds call(name, args...). CEL overloads have fixed arity, so
// one overload is declared per argument count.
const maxCallArgs = 4

func (e *celEvaluator) callOverloads() []celgo.FunctionOpt {
	binding := e.callBinding()
	overloads := make([]celgo.FunctionOpt, 0, maxCallArgs+1)
	args := []*celgo.Type{celgo.StringType}
	for n := 0; n <= maxCallArgs; n++ {
		overloads = append(overloads, celgo.Overload(
			fmt.Sprintf("call_string_dyn%d", n),
			append([]*celgo.Type(nil), args...),
			celgo.DynType,
			celgo.FunctionBinding(binding),
		))
		args = append(args, celgo.DynType)
	}
	return overloads
}

// callBinding dispatches call(name, args...) to the function registry.
func (e *celEvaluator) callBinding() func(...ref.Val) ref.Val {
	return func(values ...ref.Val) ref.Val {
		if len(values) == 0 {
			return types.NewErr("call requires a function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("call name must be a string, got %s", values[0].Type().TypeName())
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := e.functions.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err)
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

type celRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celRule) Evaluate(ctx RuleContext) (any, error) {
	return r.evaluator.Evaluate(ctx, r.expression)
}
