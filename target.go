package opts

import (
	"strings"

	"github.com/goliatone/go-tmux-options/layering"
)

// Target addresses one object in the hierarchy. Scope is the object's own
// level; the ids of its ancestors are optional and used when a request is
// routed to a broader table.
type Target struct {
	Scope   layering.OptionScope
	Session string
	Window  string
	Pane    string
}

func ServerTarget() Target {
	return Target{Scope: layering.ScopeServer}
}

func SessionTarget(session string) Target {
	return Target{Scope: layering.ScopeSession, Session: session}
}

func WindowTarget(session, window string) Target {
	return Target{Scope: layering.ScopeWindow, Session: session, Window: window}
}

func PaneTarget(session, window, pane string) Target {
	return Target{Scope: layering.ScopePane, Session: session, Window: window, Pane: pane}
}

// For returns the id to pass with a request against scope's table: the id at
// that level when known, otherwise a narrower id (which the multiplexer
// resolves upwards), otherwise a broader one (resolved to its active child).
func (t Target) For(scope layering.OptionScope) string {
	ids := map[layering.OptionScope]string{
		layering.ScopeSession: t.Session,
		layering.ScopeWindow:  t.Window,
		layering.ScopePane:    t.Pane,
	}
	if scope == layering.ScopeServer || !scope.Valid() {
		return ""
	}
	if id := ids[scope]; id != "" {
		return id
	}
	for s := scope + 1; s <= layering.ScopePane; s++ {
		if id := ids[s]; id != "" {
			return id
		}
	}
	for s := scope.Parent(); s > layering.ScopeServer; s = s.Parent() {
		if id := ids[s]; id != "" {
			return id
		}
	}
	return ""
}

func (t Target) String() string {
	parts := make([]string, 0, 3)
	for _, id := range []string{t.Session, t.Window, t.Pane} {
		if id != "" {
			parts = append(parts, id)
		}
	}
	if len(parts) == 0 {
		return t.Scope.String()
	}
	return t.Scope.String() + ":" + strings.Join(parts, "/")
}
