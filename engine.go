package opts

import (
	"context"
	"fmt"
	"sync"

	"pkt.systems/pslog"

	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/pkg/activity"
	"github.com/goliatone/go-tmux-options/schema"
)

// Engine resolves and mutates options through a Source. It keeps no copy of
// option values: every call re-reads the multiplexer. An Engine is safe for
// concurrent use; the multiplexer itself offers no read-modify-write atomicity.
type Engine struct {
	source   Source
	registry *schema.Registry
	cfg      engineConfig
	emitter  *activity.Emitter

	evalOnce  sync.Once
	evaluator Evaluator
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	registry      *schema.Registry
	logger        pslog.Logger
	version       *Version
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	evalLogger    EvaluatorLogger
	activityHooks activity.Hooks
	channel       string
}

func applyOptions(opts []Option) engineConfig {
	cfg := engineConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithRegistry replaces the builtin option registry.
func WithRegistry(registry *schema.Registry) Option {
	return func(cfg *engineConfig) {
		cfg.registry = registry
	}
}

// WithLogger pins the engine logger. Without it the logger is taken from the
// call context.
func WithLogger(logger pslog.Logger) Option {
	return func(cfg *engineConfig) {
		cfg.logger = logger
	}
}

// WithToolVersion pins the multiplexer version instead of asking the source
// on every call.
func WithToolVersion(v Version) Option {
	return func(cfg *engineConfig) {
		pinned := v
		cfg.version = &pinned
	}
}

// WithEvaluator configures the rule evaluator used by Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *engineConfig) {
		cfg.evaluator = e
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *engineConfig) {
		cfg.channel = channel
	}
}

// New builds an engine over source.
func New(source Source, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	cfg := applyOptions(opts)
	registry := cfg.registry
	if registry == nil {
		registry = schema.Builtin()
	}
	channel := cfg.channel
	if channel == "" {
		channel = "tmux"
	}
	return &Engine{
		source:   source,
		registry: registry,
		cfg:      cfg,
		emitter:  activity.NewEmitter(cfg.activityHooks, activity.Config{Enabled: true, Channel: channel}),
	}, nil
}

// MustNew is New that panics on error.
func MustNew(source Source, opts ...Option) *Engine {
	e, err := New(source, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Registry returns the registry the engine validates against.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Version reports the multiplexer version, asking the source unless pinned.
func (e *Engine) Version(ctx context.Context) (Version, error) {
	if e.cfg.version != nil {
		return *e.cfg.version, nil
	}
	raw, err := e.source.Version(ctx)
	if err != nil {
		return Version{}, fmt.Errorf("opts: read tmux version: %w", err)
	}
	return ParseVersion(raw)
}

func (e *Engine) log(ctx context.Context) pslog.Logger {
	if e.cfg.logger != nil {
		return e.cfg.logger
	}
	return pslog.Ctx(ctx)
}

// scopeSupported reports whether scope's table can be addressed on v.
func (e *Engine) scopeSupported(scope layering.OptionScope, v Version) bool {
	if !scope.Valid() {
		return false
	}
	if scope == layering.ScopePane && !v.Supports(CapPaneScope) {
		return false
	}
	return v.AtLeast(e.registry.ScopeMinVersion(scope))
}

// addressable reports whether name can be read or written in scope's table
// on v.
func (e *Engine) addressable(name string, scope layering.OptionScope, v Version) bool {
	return e.scopeSupported(scope, v) && v.AtLeast(e.registry.MinVersionFor(name, scope))
}

// CallOption adjusts a single engine call.
type CallOption func(*callConfig)

type callConfig struct {
	scope        layering.OptionScope
	global       bool
	inherited    bool
	hooks        bool
	ignoreErrors bool
	appendValue  bool
}

func applyCallOptions(opts []CallOption) callConfig {
	cfg := callConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func (c callConfig) scopeFor(t Target) layering.OptionScope {
	if c.scope.Valid() {
		return c.scope
	}
	return t.Scope
}

// WithGlobal addresses the global (default) table of a scope.
func WithGlobal() CallOption {
	return func(cfg *callConfig) { cfg.global = true }
}

// WithInherited includes values inherited from ancestor scopes.
func WithInherited() CallOption {
	return func(cfg *callConfig) { cfg.inherited = true }
}

// WithHooks includes hooks in listings.
func WithHooks() CallOption {
	return func(cfg *callConfig) { cfg.hooks = true }
}

// WithIgnoreErrors demotes NotFound-class and unsupported scope failures to
// silent no-ops where the multiplexer version allows it.
func WithIgnoreErrors() CallOption {
	return func(cfg *callConfig) { cfg.ignoreErrors = true }
}

// WithTargetScope addresses scope instead of the target's own level.
func WithTargetScope(scope layering.OptionScope) CallOption {
	return func(cfg *callConfig) { cfg.scope = scope }
}

// WithAppend appends to string and array options instead of replacing them.
func WithAppend() CallOption {
	return func(cfg *callConfig) { cfg.appendValue = true }
}
