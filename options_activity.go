package opts

import (
	"slices"

	"github.com/goliatone/go-tmux-options/pkg/activity"
)

// WithActivityHooks attaches hooks notified after every successful Set and
// Unset. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	kept := compactHooks(hooks)
	return func(cfg *engineConfig) {
		cfg.activityHooks = kept
	}
}

// ActivityHooks returns a copy of the configured hooks, or nil when none are set.
func (e *Engine) ActivityHooks() activity.Hooks {
	if e == nil {
		return nil
	}
	return compactHooks(e.cfg.activityHooks)
}

func compactHooks(hooks activity.Hooks) activity.Hooks {
	out := slices.DeleteFunc(slices.Clone(hooks), func(h activity.ActivityHook) bool { return h == nil })
	if len(out) == 0 {
		return nil
	}
	return out
}
