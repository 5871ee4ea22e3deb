package opts

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression rejects an empty rule.
var ErrEmptyExpression = errors.New("opts: expression must not be empty")

// EvaluationError reports a rule that failed to compile or run, with the
// engine and the object it was evaluated against.
type EvaluationError struct {
	Engine string
	Expr   string
	Scope  string
	Target string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := e.Scope
	if where == "" {
		where = "unknown"
	}
	if e.Target != "" {
		where += " " + e.Target
	}
	return fmt.Sprintf("opts: %s rule %q on %s: %v", e.Engine, e.Expr, where, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ruleError attaches rule metadata to err. An EvaluationError already in the
// chain only has its blank fields filled.
func ruleError(engine, expr string, ctx RuleContext, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Scope == "" {
			evalErr.Scope = ctx.Scope
		}
		if evalErr.Target == "" {
			evalErr.Target = ctx.Target
		}
		return err
	}
	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Scope:  ctx.Scope,
		Target: ctx.Target,
		Err:    err,
	}
}
