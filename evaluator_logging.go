package opts

import (
	"context"
	"time"

	"pkt.systems/pslog"
)

// EvaluatorLogEvent describes an evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Scope    string
	Target   string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// PSLogEvaluatorLogger writes evaluation events to a pslog logger: debug on
// success, warn on failure.
func PSLogEvaluatorLogger(logger pslog.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		fields := []any{
			"engine", event.Engine,
			"expr", event.Expr,
			"scope", event.Scope,
			"target", event.Target,
			"duration", event.Duration,
		}
		if event.Err != nil {
			logger.Warn("rule evaluation failed", append(fields, "err", event.Err)...)
			return
		}
		logger.Debug("rule evaluated", fields...)
	})
}

// WithEvaluatorLogger attaches an evaluator logger to the engine. Without it
// evaluations go to the engine logger.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *engineConfig) {
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}

func (e *Engine) evaluatorLogger(ctx context.Context) EvaluatorLogger {
	if e.cfg.evalLogger != nil {
		return e.cfg.evalLogger
	}
	return PSLogEvaluatorLogger(e.log(ctx))
}
