package layering

import (
	"slices"
	"strings"
)

// OptionScope identifies one level of the server > session > window > pane
// hierarchy. Higher values are narrower and override broader ones.
type OptionScope int

const (
	// ScopeUnknown guards against misconfiguration so call sites can detect
	// missing scope information.
	ScopeUnknown OptionScope = iota
	// ScopeServer is the broadest level; server options have no parent.
	ScopeServer
	// ScopeSession holds per-session options (and the global session table).
	ScopeSession
	// ScopeWindow holds per-window options (and the global window table).
	ScopeWindow
	// ScopePane is the narrowest level.
	ScopePane
)

// Scopes lists every valid scope from broadest to narrowest.
var Scopes = []OptionScope{ScopeServer, ScopeSession, ScopeWindow, ScopePane}

func (s OptionScope) String() string {
	switch s {
	case ScopeServer:
		return "server"
	case ScopeSession:
		return "session"
	case ScopeWindow:
		return "window"
	case ScopePane:
		return "pane"
	default:
		return "unknown"
	}
}

// ParseOptionScope converts a string representation into the corresponding
// OptionScope. Returns ScopeUnknown for unrecognised values.
func ParseOptionScope(value string) OptionScope {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "server", "s":
		return ScopeServer
	case "session":
		return ScopeSession
	case "window", "w":
		return ScopeWindow
	case "pane", "p":
		return ScopePane
	default:
		return ScopeUnknown
	}
}

// Valid reports whether s is one of the four hierarchy levels.
func (s OptionScope) Valid() bool {
	return s >= ScopeServer && s <= ScopePane
}

// Parent returns the next broader scope, or ScopeUnknown for the server.
func (s OptionScope) Parent() OptionScope {
	if s <= ScopeServer || !s.Valid() {
		return ScopeUnknown
	}
	return s - 1
}

// Contains reports whether other is s itself or nested inside s.
func (s OptionScope) Contains(other OptionScope) bool {
	return s.Valid() && other.Valid() && other >= s
}

// HasGlobalTable reports whether the multiplexer keeps a separate global
// (default) table for s in addition to the per-instance tables.
func (s OptionScope) HasGlobalTable() bool {
	return s == ScopeSession || s == ScopeWindow
}

// ScopeChain describes the ordered fallback sequence from strongest
// (narrowest) to weakest (broadest).
type ScopeChain struct {
	ordered []OptionScope
}

// NewScopeChain constructs a chain and deduplicates scopes. The resulting order
// always places narrower scopes before broader ones.
func NewScopeChain(scopes ...OptionScope) ScopeChain {
	filtered := make([]OptionScope, 0, len(scopes))
	for _, scope := range scopes {
		if !scope.Valid() || slices.Contains(filtered, scope) {
			continue
		}
		filtered = append(filtered, scope)
	}
	slices.SortFunc(filtered, func(a, b OptionScope) int {
		return int(b) - int(a)
	})
	return ScopeChain{ordered: filtered}
}

// Ancestors returns the chain starting at s and walking up to the server.
func Ancestors(s OptionScope) ScopeChain {
	var scopes []OptionScope
	for cur := s; cur.Valid(); cur = cur.Parent() {
		scopes = append(scopes, cur)
	}
	return ScopeChain{ordered: scopes}
}

// Ordered returns the layering sequence from strongest (index 0) to weakest.
func (c ScopeChain) Ordered() []OptionScope {
	out := make([]OptionScope, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of scopes in the chain.
func (c ScopeChain) Len() int {
	return len(c.ordered)
}

// Strongest returns the first scope in the chain (ScopeUnknown if empty).
func (c ScopeChain) Strongest() OptionScope {
	if len(c.ordered) == 0 {
		return ScopeUnknown
	}
	return c.ordered[0]
}

// Weakest returns the final scope in the chain (ScopeUnknown if empty).
func (c ScopeChain) Weakest() OptionScope {
	if len(c.ordered) == 0 {
		return ScopeUnknown
	}
	return c.ordered[len(c.ordered)-1]
}

// Filter keeps the scopes for which keep returns true, preserving order.
func (c ScopeChain) Filter(keep func(OptionScope) bool) ScopeChain {
	out := make([]OptionScope, 0, len(c.ordered))
	for _, scope := range c.ordered {
		if keep(scope) {
			out = append(out, scope)
		}
	}
	return ScopeChain{ordered: out}
}
