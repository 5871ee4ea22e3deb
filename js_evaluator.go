//go:build js_eval

package opts

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsEvaluator runs rules with goja. Each evaluation gets a fresh runtime;
// compiled programs are shared.
type jsEvaluator struct {
	settings jsSettings
}

// NewJSEvaluator constructs an Evaluator backed by goja.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	return &jsEvaluator{settings: newJSSettings(opts)}
}

func (e *jsEvaluator) engineName() string { return "js" }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, ruleError("js", expression, ctx, err)
	}
	return e.run(program, expression, ctx)
}

func (e *jsEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	program, err := e.program(expression)
	if err != nil {
		return nil, ruleError("js", expression, RuleContext{}, err)
	}
	return &jsRule{evaluator: e, program: program, expression: expression}, nil
}

func (e *jsEvaluator) program(expression string) (*goja.Program, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	cache := e.settings.cache
	key := programKey("js", expression)
	if cache != nil {
		if cached, ok := cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	// Wrapped so a bare expression is the program's completion value.
	program, err := goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(program *goja.Program, expression string, ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	vm := goja.New()
	for name, value := range ctx.bindings() {
		if err := vm.Set(name, value); err != nil {
			return nil, ruleError("js", expression, ctx, err)
		}
	}
	if functions := e.settings.functions; functions != nil {
		_ = vm.Set("call", func(name string, args ...any) (any, error) {
			return functions.Call(name, args...)
		})
		for _, name := range functions.Names() {
			_ = vm.Set(name, func(args ...any) (any, error) {
				return functions.Call(name, args...)
			})
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, ruleError("js", expression, ctx, err)
	}
	return value.Export(), nil
}

type jsRule struct {
	evaluator  *jsEvaluator
	program    *goja.Program
	expression string
}

func (r *jsRule) Evaluate(ctx RuleContext) (any, error) {
	return r.evaluator.run(r.program, r.expression, ctx)
}
