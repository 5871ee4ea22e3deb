package opts

import (
	"context"
	"errors"
	"time"
)

var ErrNoEvaluator = errors.New("opts: evaluator not configured")

// Evaluate runs expr against the environment of snap.
func (e *Engine) Evaluate(ctx context.Context, snap Snapshot, expr string) (Response[any], error) {
	return e.EvaluateWith(ctx, snap.RuleContext(), expr)
}

// EvaluateWith runs expr against rc as given. Failures are returned as
// *EvaluationError.
func (e *Engine) EvaluateWith(ctx context.Context, rc RuleContext, expr string) (Response[any], error) {
	if expr == "" {
		return Response[any]{}, ErrEmptyExpression
	}
	evaluator, err := e.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	rc = rc.withDefaults()
	engine := evaluatorEngineName(evaluator)

	start := time.Now()
	value, err := evaluator.Evaluate(rc, expr)
	err = ruleError(engine, expr, rc, err)
	e.evaluatorLogger(ctx).LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Scope:    rc.scopeLabel(),
		Target:   rc.Target,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return Response[any]{}, err
	}
	return Response[any]{Value: value}, nil
}

// resolveEvaluator returns the configured evaluator, or an expr evaluator
// built from the engine's program cache and functions.
func (e *Engine) resolveEvaluator() (Evaluator, error) {
	e.evalOnce.Do(func() {
		if e.cfg.evaluator != nil {
			e.evaluator = e.cfg.evaluator
			return
		}
		e.evaluator = NewExprEvaluator(
			ExprWithProgramCache(e.cfg.programCache),
			ExprWithFunctionRegistry(e.cfg.functions),
		)
	})
	if e.evaluator == nil {
		return nil, ErrNoEvaluator
	}
	return e.evaluator, nil
}
