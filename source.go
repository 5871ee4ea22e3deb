package opts

import (
	"context"

	"github.com/goliatone/go-tmux-options/layering"
)

// Source is the raw option collaborator: it speaks the multiplexer's
// line-oriented option format and never interprets values. Each call is one
// blocking round trip; timeouts belong to the implementation.
type Source interface {
	// ListOptions returns newline-delimited "name value" lines for one table.
	ListOptions(ctx context.Context, req ListRequest) (string, error)
	// GetOption returns the listing lines for a single name, or "" when the
	// table holds no explicit value.
	GetOption(ctx context.Context, req GetRequest) (string, error)
	ApplyOption(ctx context.Context, req ApplyRequest) error
	UnsetOption(ctx context.Context, req UnsetRequest) error
	// Version returns the raw version string (e.g. "tmux 3.3a").
	Version(ctx context.Context) (string, error)
}

// ListRequest selects one option table. Inherited and Hooks map to
// show-options -A and -H.
type ListRequest struct {
	Scope     layering.OptionScope
	Target    string
	Global    bool
	Inherited bool
	Hooks     bool
	Quiet     bool
}

type GetRequest struct {
	Scope  layering.OptionScope
	Target string
	Name   string
	Global bool
	Quiet  bool
}

type ApplyRequest struct {
	Scope  layering.OptionScope
	Target string
	Name   string
	Value  string
	Global bool
	Append bool
	Quiet  bool
}

type UnsetRequest struct {
	Scope  layering.OptionScope
	Target string
	Name   string
	Global bool
	Quiet  bool
}
