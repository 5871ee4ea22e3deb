package opts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/pkg/activity"
	"github.com/goliatone/go-tmux-options/schema"
)

// staticSource answers every request with nothing; enough for engine
// features that never reach the multiplexer.
type staticSource struct{}

func (staticSource) ListOptions(context.Context, ListRequest) (string, error) { return "", nil }
func (staticSource) GetOption(context.Context, GetRequest) (string, error)    { return "", nil }
func (staticSource) ApplyOption(context.Context, ApplyRequest) error          { return nil }
func (staticSource) UnsetOption(context.Context, UnsetRequest) error          { return nil }
func (staticSource) Version(context.Context) (string, error)                  { return "tmux 3.3a", nil }

type capturingEvaluator struct {
	contexts []RuleContext
}

func (c *capturingEvaluator) Evaluate(ctx RuleContext, _ string) (any, error) {
	c.contexts = append(c.contexts, ctx)
	return true, nil
}

func (c *capturingEvaluator) Compile(string, ...CompileOption) (CompiledRule, error) {
	return nil, errors.New("not implemented")
}

type countingCache struct {
	programs map[string]any
	hits     int
	misses   int
}

func (c *countingCache) Get(key string) (any, bool) {
	program, ok := c.programs[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return program, ok
}

func (c *countingCache) Set(key string, value any) {
	if c.programs == nil {
		c.programs = map[string]any{}
	}
	c.programs[key] = value
}

var evaluatorFactories = []struct {
	name string
	new  func(cache ProgramCache, registry *FunctionRegistry) Evaluator
}{
	{
		name: "expr",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry))
		},
	},
	{
		name: "cel",
		new: func(cache ProgramCache, registry *FunctionRegistry) Evaluator {
			return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(registry))
		},
	},
}

func sessionSnapshot() Snapshot {
	return NewSnapshot(schema.Builtin(), SessionTarget("$0"), map[string]any{
		"buffer-limit":        50,
		"status":              "on",
		"mouse":               true,
		"window-active-style": schema.Style("fg=red"),
		"@theme-name":         "dark",
	})
}

func TestSnapshotEnv(t *testing.T) {
	env := sessionSnapshot().Env()

	if env["buffer_limit"] != 50 || env["mouse"] != true {
		t.Fatalf("expected options keyed by field name, got %v", env)
	}
	if env["window_active_style"] != "fg=red" {
		t.Fatalf("expected styles flattened to strings, got %T", env["window_active_style"])
	}
	user, ok := env["user"].(map[string]any)
	if !ok || user["theme_name"] != "dark" {
		t.Fatalf("expected user options under user, got %v", env["user"])
	}
	options, ok := env["options"].(map[string]any)
	if !ok || options["buffer-limit"] != 50 || options["@theme-name"] != "dark" {
		t.Fatalf("expected raw names under options, got %v", env["options"])
	}
	if _, leaked := env["@theme-name"]; leaked {
		t.Fatalf("user options must not appear at the top level")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	values := map[string]any{"buffer-limit": 50}
	snap := NewSnapshot(schema.Builtin(), ServerTarget(), values)
	values["buffer-limit"] = 10
	if snap.Values["buffer-limit"] != 50 {
		t.Fatalf("snapshot must not alias the caller's map")
	}
}

func TestEvaluateSnapshotAcrossEvaluators(t *testing.T) {
	rules := map[string]any{
		"buffer_limit >= 50 && mouse":     true,
		"user.theme_name == 'dark'":       true,
		"scope.name == 'session'":         true,
		"scope.target == '$0'":            true,
		"status == 'off' || !mouse":       false,
		"window_active_style == 'fg=red'": true,
	}
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			engine := MustNew(staticSource{}, WithEvaluator(factory.new(nil, nil)))
			for rule, want := range rules {
				resp, err := engine.Evaluate(context.Background(), sessionSnapshot(), rule)
				if err != nil {
					t.Fatalf("%s: %v", rule, err)
				}
				if resp.Value != want {
					t.Fatalf("%s: expected %v, got %v", rule, want, resp.Value)
				}
			}
		})
	}
}

func TestEvaluateDefaultsToExpr(t *testing.T) {
	engine := MustNew(staticSource{})
	resp, err := engine.Evaluate(context.Background(), sessionSnapshot(), "buffer_limit * 2")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if resp.Value != 100 {
		t.Fatalf("expected 100, got %v", resp.Value)
	}
	if _, err := engine.Evaluate(context.Background(), sessionSnapshot(), ""); err == nil {
		t.Fatalf("expected empty expression to fail")
	}
}

func TestRuleContextDefaultsNow(t *testing.T) {
	capture := &capturingEvaluator{}
	engine := MustNew(staticSource{}, WithEvaluator(capture))

	if _, err := engine.Evaluate(context.Background(), sessionSnapshot(), "1 == 1"); err != nil {
		t.Fatalf("unexpected error from Evaluate: %v", err)
	}
	if len(capture.contexts) != 1 {
		t.Fatalf("expected evaluator to receive one context, got %d", len(capture.contexts))
	}
	got := capture.contexts[0]
	if got.Now == nil || got.Now.IsZero() {
		t.Fatalf("expected Evaluate to default RuleContext.Now")
	}
	if got.Scope != "session" || got.Target != "$0" {
		t.Fatalf("expected snapshot scope on the context, got %q %q", got.Scope, got.Target)
	}

	pinned := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if _, err := engine.EvaluateWith(context.Background(), RuleContext{Now: &pinned}, "flag"); err != nil {
		t.Fatalf("unexpected error from EvaluateWith: %v", err)
	}
	if !capture.contexts[1].Now.Equal(pinned) || capture.contexts[1].Args == nil {
		t.Fatalf("expected pinned time and default maps, got %+v", capture.contexts[1])
	}
}

func TestEvaluatorProgramCache(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			cache := &countingCache{}
			engine := MustNew(staticSource{}, WithEvaluator(factory.new(cache, nil)))
			for i := 0; i < 3; i++ {
				if _, err := engine.Evaluate(context.Background(), sessionSnapshot(), "buffer_limit > 10"); err != nil {
					t.Fatalf("iteration %d: %v", i, err)
				}
			}
			if cache.misses != 1 || cache.hits != 2 {
				t.Fatalf("expected 1 miss and 2 hits, got %d and %d", cache.misses, cache.hits)
			}
		})
	}
}

func TestCustomFunctions(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("prefixed", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, errors.New("prefixed expects 2 args")
		}
		s, _ := args[0].(string)
		prefix, _ := args[1].(string)
		return strings.HasPrefix(s, prefix), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	engine := MustNew(staticSource{}, WithFunctionRegistry(registry))
	for _, rule := range []string{
		`prefixed(window_active_style, "fg=")`,
		`call("prefixed", window_active_style, "fg=")`,
	} {
		resp, err := engine.Evaluate(context.Background(), sessionSnapshot(), rule)
		if err != nil {
			t.Fatalf("%s: %v", rule, err)
		}
		if resp.Value != true {
			t.Fatalf("%s: expected true, got %v", rule, resp.Value)
		}
	}
}

func TestEvaluationErrorsCarryScope(t *testing.T) {
	engine := MustNew(staticSource{})
	_, err := engine.Evaluate(context.Background(), sessionSnapshot(), "buffer_limit +")
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T %v", err, err)
	}
	if evalErr.Engine != "expr" || evalErr.Scope != "session" {
		t.Fatalf("unexpected error metadata: %+v", evalErr)
	}
}

func TestEvaluatorLoggerReceivesEvents(t *testing.T) {
	var events []EvaluatorLogEvent
	engine := MustNew(staticSource{}, WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		events = append(events, event)
	})))
	if _, err := engine.Evaluate(context.Background(), sessionSnapshot(), "mouse"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(events) != 1 || events[0].Engine != "expr" || events[0].Expr != "mouse" || events[0].Err != nil {
		t.Fatalf("unexpected log events: %+v", events)
	}
}

func TestWithActivityHooksClonesAndFiltersNil(t *testing.T) {
	hook := activity.HookFunc(func(context.Context, activity.Event) error { return nil })

	engine := MustNew(staticSource{}, WithActivityHooks(activity.Hooks{nil, hook}))
	hooks := engine.ActivityHooks()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	hooks[0] = nil
	again := engine.ActivityHooks()
	if len(again) != 1 || again[0] == nil {
		t.Fatalf("expected cloned hooks unaffected by mutation, got %+v", again)
	}
}

func TestActivityHooksDefaultNil(t *testing.T) {
	if hooks := MustNew(staticSource{}).ActivityHooks(); hooks != nil {
		t.Fatalf("expected nil hooks by default, got %+v", hooks)
	}
}

func TestActivityChannelOverride(t *testing.T) {
	capture := &activity.CaptureHook{}
	engine := MustNew(staticSource{},
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityChannel("dotfiles"),
	)
	if err := engine.Set(context.Background(), ServerTarget(), "escape-time", 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(capture.Events) != 1 || capture.Events[0].Channel != "dotfiles" {
		t.Fatalf("expected channel override, got %+v", capture.Events)
	}
	if capture.Events[0].ObjectID != "server/escape-time" {
		t.Fatalf("unexpected object id %q", capture.Events[0].ObjectID)
	}
}

func TestScopeBinding(t *testing.T) {
	rc := NewSnapshot(schema.Builtin(), PaneTarget("$0", "@1", "%2"), nil).RuleContext()
	binding := rc.scopeBinding()
	if binding["name"] != layering.ScopePane.String() || binding["target"] != "%2" {
		t.Fatalf("unexpected binding %v", binding)
	}
	if (RuleContext{}).scopeBinding() != nil {
		t.Fatalf("expected no binding without a scope")
	}
}

func TestFunctionRegistryRejectsBadNames(t *testing.T) {
	registry := NewFunctionRegistry()
	noop := func(...any) (any, error) { return nil, nil }
	if err := registry.Register("Clamp", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	for _, name := range []string{"", "clamp", "scope", "call"} {
		if err := registry.Register(name, noop); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
	if err := registry.Register("other", nil); err == nil {
		t.Fatalf("expected nil function to be rejected")
	}
	if names := registry.Names(); len(names) != 1 || names[0] != "clamp" {
		t.Fatalf("unexpected names %v", names)
	}
	if _, err := registry.Call("CLAMP"); err != nil {
		t.Fatalf("expected case insensitive call: %v", err)
	}
	if _, err := (*FunctionRegistry)(nil).Call("clamp"); err == nil {
		t.Fatalf("expected nil registry call to fail")
	}
}

func TestCompiledRulesRunAgainstManySnapshots(t *testing.T) {
	for _, factory := range evaluatorFactories {
		t.Run(factory.name, func(t *testing.T) {
			rule, err := factory.new(NewProgramCache(), nil).Compile("buffer_limit * 2")
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			for _, limit := range []int{10, 25} {
				snap := NewSnapshot(schema.Builtin(), ServerTarget(), map[string]any{"buffer-limit": limit})
				got, err := rule.Evaluate(snap.RuleContext())
				if err != nil {
					t.Fatalf("evaluate: %v", err)
				}
				if toInt(got) != limit*2 {
					t.Fatalf("expected %d, got %v", limit*2, got)
				}
			}
		})
	}
}

func TestEmptyExpression(t *testing.T) {
	engine := MustNew(staticSource{})
	if _, err := engine.Evaluate(context.Background(), sessionSnapshot(), ""); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	for _, factory := range evaluatorFactories {
		if _, err := factory.new(nil, nil).Evaluate(RuleContext{}, ""); !errors.Is(err, ErrEmptyExpression) {
			t.Fatalf("%s: expected ErrEmptyExpression, got %v", factory.name, err)
		}
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return -1
	}
}

func TestCELCallArities(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("count", func(args ...any) (any, error) {
		return len(args), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	evaluator := NewCELEvaluator(CELWithFunctionRegistry(registry))
	ctx := sessionSnapshot().RuleContext()

	for rule, want := range map[string]int{
		`call("count")`:                          0,
		`call("count", buffer_limit)`:            1,
		`call("count", 1, "two", mouse, 4)`:      4,
		`call("COUNT", status, user.theme_name)`: 2,
	} {
		got, err := evaluator.Evaluate(ctx, rule)
		if err != nil {
			t.Fatalf("%s: %v", rule, err)
		}
		if toInt(got) != want {
			t.Fatalf("%s: expected %d, got %v", rule, want, got)
		}
	}

	if _, err := evaluator.Evaluate(ctx, `call("count", 1, 2, 3, 4, 5)`); err == nil {
		t.Fatalf("expected too many call arguments to fail")
	}
	if _, err := evaluator.Evaluate(ctx, `call("missing")`); err == nil {
		t.Fatalf("expected unknown function to fail")
	}
}
