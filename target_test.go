package opts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-tmux-options/layering"
)

func TestTargetFor(t *testing.T) {
	pane := PaneTarget("$1", "@2", "%3")
	require.Equal(t, "", pane.For(layering.ScopeServer))
	require.Equal(t, "$1", pane.For(layering.ScopeSession))
	require.Equal(t, "@2", pane.For(layering.ScopeWindow))
	require.Equal(t, "%3", pane.For(layering.ScopePane))

	// narrower ids resolve upwards
	bare := Target{Scope: layering.ScopePane, Pane: "%3"}
	require.Equal(t, "%3", bare.For(layering.ScopeWindow))
	require.Equal(t, "%3", bare.For(layering.ScopeSession))

	// broader ids resolve to the active child
	session := SessionTarget("$1")
	require.Equal(t, "$1", session.For(layering.ScopeWindow))
	require.Equal(t, "$1", session.For(layering.ScopePane))

	require.Equal(t, "", ServerTarget().For(layering.ScopeWindow))
	require.Equal(t, "", pane.For(layering.ScopeUnknown))
}

func TestTargetString(t *testing.T) {
	require.Equal(t, "server", ServerTarget().String())
	require.Equal(t, "session:$1", SessionTarget("$1").String())
	require.Equal(t, "window:$1/@2", WindowTarget("$1", "@2").String())
	require.Equal(t, "pane:$1/@2/%3", PaneTarget("$1", "@2", "%3").String())
}
