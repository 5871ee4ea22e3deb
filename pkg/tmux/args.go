package tmux

import (
	opts "github.com/goliatone/go-tmux-options"
	"github.com/goliatone/go-tmux-options/layering"
)

// scopeFlag selects the option table. Session options need no flag.
func scopeFlag(scope layering.OptionScope) string {
	switch scope {
	case layering.ScopeServer:
		return "-s"
	case layering.ScopeWindow:
		return "-w"
	case layering.ScopePane:
		return "-p"
	default:
		return ""
	}
}

type flags struct {
	scope     layering.OptionScope
	target    string
	global    bool
	inherited bool
	hooks     bool
	quiet     bool
	appendTo  bool
	unset     bool
}

func (f flags) args() []string {
	var out []string
	if f.global {
		out = append(out, "-g")
	}
	if f.inherited {
		out = append(out, "-A")
	}
	if f.hooks {
		out = append(out, "-H")
	}
	if f.quiet {
		out = append(out, "-q")
	}
	if f.appendTo {
		out = append(out, "-a")
	}
	if f.unset {
		out = append(out, "-u")
	}
	if flag := scopeFlag(f.scope); flag != "" {
		out = append(out, flag)
	}
	if f.target != "" && !f.global && f.scope != layering.ScopeServer {
		out = append(out, "-t", f.target)
	}
	return out
}

// ListArgs builds the show-options vector for a table listing.
func ListArgs(req opts.ListRequest) []string {
	f := flags{
		scope:     req.Scope,
		target:    req.Target,
		global:    req.Global,
		inherited: req.Inherited,
		hooks:     req.Hooks,
		quiet:     req.Quiet,
	}
	return append([]string{"show-options"}, f.args()...)
}

// GetArgs builds the show-options vector for a single name.
func GetArgs(req opts.GetRequest) []string {
	f := flags{scope: req.Scope, target: req.Target, global: req.Global, quiet: req.Quiet}
	args := append([]string{"show-options"}, f.args()...)
	return append(args, req.Name)
}

// ApplyArgs builds the set-option vector for a write.
func ApplyArgs(req opts.ApplyRequest) []string {
	f := flags{
		scope:    req.Scope,
		target:   req.Target,
		global:   req.Global,
		quiet:    req.Quiet,
		appendTo: req.Append,
	}
	args := append([]string{"set-option"}, f.args()...)
	return append(args, req.Name, req.Value)
}

// UnsetArgs builds the set-option -u vector.
func UnsetArgs(req opts.UnsetRequest) []string {
	f := flags{scope: req.Scope, target: req.Target, global: req.Global, quiet: req.Quiet, unset: true}
	args := append([]string{"set-option"}, f.args()...)
	return append(args, req.Name)
}
