package memsource

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	opts "github.com/goliatone/go-tmux-options"
	"github.com/goliatone/go-tmux-options/internal/parse"
	"github.com/goliatone/go-tmux-options/layering"
)

func TestNewPopulatesGlobalDefaults(t *testing.T) {
	src := MustNew()

	value, ok := src.Lookup(layering.ScopeServer, false, "", "buffer-limit")
	require.True(t, ok)
	require.Equal(t, "50", value)

	value, ok = src.Lookup(layering.ScopeSession, true, "", "status")
	require.True(t, ok)
	require.Equal(t, "on", value)

	// pane options default in the global window table
	value, ok = src.Lookup(layering.ScopeWindow, true, "", "remain-on-exit")
	require.True(t, ok)
	require.Equal(t, "off", value)

	_, ok = src.Lookup(layering.ScopeServer, false, "", "terminal-overrides")
	require.False(t, ok, "arrays carry no default")
}

func TestNewSkipsOptionsNewerThanVersion(t *testing.T) {
	src := MustNew(WithVersion("tmux 2.8"))
	_, ok := src.Lookup(layering.ScopeSession, true, "", "default-size")
	require.False(t, ok)

	src = MustNew(WithVersion("tmux 2.9"))
	_, ok = src.Lookup(layering.ScopeSession, true, "", "default-size")
	require.True(t, ok)
}

func TestNewRejectsBadVersion(t *testing.T) {
	_, err := New(WithVersion("tmux ?"))
	require.ErrorIs(t, err, opts.ErrInvalidVersion)
}

func TestTopologyIDs(t *testing.T) {
	src := MustNew()
	sess := src.NewSession()
	require.Equal(t, "$0", sess.Session)

	win, err := src.NewWindow(sess.Session)
	require.NoError(t, err)
	require.Equal(t, "@1", win.Window)

	p, err := src.SplitWindow(win)
	require.NoError(t, err)
	require.Equal(t, opts.PaneTarget("$0", "@1", "%2"), p)

	_, err = src.NewWindow("$9")
	require.Error(t, err)
}

func TestListRendersQuotedLines(t *testing.T) {
	src := MustNew()
	ctx := context.Background()

	out, err := src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeServer})
	require.NoError(t, err)
	require.Contains(t, out, "buffer-limit 50\n")
	require.Contains(t, out, "backspace C-?\n")

	entries, err := parse.Listing(out)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	out, err = src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeSession, Global: true})
	require.NoError(t, err)
	entries, err = parse.Listing(out)
	require.NoError(t, err)
	for _, entry := range entries {
		if entry.Name == "status-right" {
			require.Equal(t, `"#{=21:pane_title}" %H:%M %d-%b-%y`, entry.Value)
		}
	}
}

func TestListInheritedMarksAncestorValues(t *testing.T) {
	src := MustNew()
	ctx := context.Background()
	sess := src.NewSession()

	require.NoError(t, src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeSession, Target: sess.Session, Name: "status", Value: "off"}))

	out, err := src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeSession, Target: sess.Session, Inherited: true})
	require.NoError(t, err)
	require.Contains(t, out, "status off\n")
	require.NotContains(t, out, "status* on")
	require.Contains(t, out, "mouse* off\n")

	out, err = src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeSession, Target: sess.Session})
	require.NoError(t, err)
	require.Equal(t, "status off\n", out)
}

func TestListRejectsFlagsBeforeThree(t *testing.T) {
	src := MustNew(WithVersion("2.9"))
	ctx := context.Background()
	src.NewSession()

	cases := []opts.ListRequest{
		{Scope: layering.ScopePane},
		{Scope: layering.ScopeWindow, Inherited: true},
		{Scope: layering.ScopeWindow, Hooks: true},
		{Scope: layering.ScopeWindow, Quiet: true},
	}
	for _, req := range cases {
		_, err := src.ListOptions(ctx, req)
		require.ErrorIs(t, err, opts.ErrUnsupportedScope, "%+v", req)
	}
}

func TestListHooks(t *testing.T) {
	src := MustNew()
	ctx := context.Background()
	sess := src.NewSession()
	require.NoError(t, src.SetHook(sess, layering.ScopeSession, false, "after-new-window", "display-message hi"))

	out, err := src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeSession, Target: sess.Session})
	require.NoError(t, err)
	require.Empty(t, out)

	out, err = src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeSession, Target: sess.Session, Hooks: true})
	require.NoError(t, err)
	require.Equal(t, "after-new-window[0] \"display-message hi\"\n", out)
}

func TestApplyArrays(t *testing.T) {
	src := MustNew()
	ctx := context.Background()

	require.NoError(t, src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "terminal-overrides", Value: "xterm*:Tc,screen*:RGB"}))
	require.NoError(t, src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "terminal-overrides", Value: "tmux*:RGB", Append: true}))
	require.NoError(t, src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "terminal-overrides[5]", Value: "foo:bar"}))

	out, err := src.GetOption(ctx, opts.GetRequest{Scope: layering.ScopeServer, Name: "terminal-overrides"})
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"terminal-overrides[0] xterm*:Tc",
		"terminal-overrides[1] screen*:RGB",
		"terminal-overrides[2] tmux*:RGB",
		"terminal-overrides[5] foo:bar",
	}, "\n")+"\n", out)

	out, err = src.GetOption(ctx, opts.GetRequest{Scope: layering.ScopeServer, Name: "terminal-overrides[1]"})
	require.NoError(t, err)
	require.Equal(t, "terminal-overrides[1] screen*:RGB\n", out)
}

func TestApplyValidatesNamesAndValues(t *testing.T) {
	src := MustNew()
	ctx := context.Background()
	src.NewSession()

	err := src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "test", Value: "invalid"})
	require.ErrorIs(t, err, opts.ErrUnknownOption)

	err = src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "test", Value: "invalid", Quiet: true})
	require.NoError(t, err)

	err = src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeSession, Name: "buffer-limit", Value: "10"})
	require.ErrorIs(t, err, opts.ErrInvalidOption)

	err = src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "buffer-limit", Value: "many"})
	require.ErrorIs(t, err, errInvalidValue)

	err = src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "buffer-limit[0]", Value: "1"})
	require.ErrorIs(t, err, opts.ErrInvalidOption)
}

func TestUserOptionsNeedVersion(t *testing.T) {
	src := MustNew(WithVersion("tmux 2.2"))
	ctx := context.Background()
	sess := src.NewSession()

	err := src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeSession, Target: sess.Session, Name: "@custom-option", Value: "test"})
	require.ErrorIs(t, err, opts.ErrUnknownOption)
}

func TestUnsetRestoresDefaultsInGlobalTables(t *testing.T) {
	src := MustNew()
	ctx := context.Background()
	sess := src.NewSession()

	require.NoError(t, src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeServer, Name: "buffer-limit", Value: "150"}))
	require.NoError(t, src.UnsetOption(ctx, opts.UnsetRequest{Scope: layering.ScopeServer, Name: "buffer-limit"}))
	value, _ := src.Lookup(layering.ScopeServer, false, "", "buffer-limit")
	require.Equal(t, "50", value)

	require.NoError(t, src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeSession, Target: sess.Session, Name: "mouse", Value: "on"}))
	require.NoError(t, src.UnsetOption(ctx, opts.UnsetRequest{Scope: layering.ScopeSession, Target: sess.Session, Name: "mouse"}))
	_, ok := src.Lookup(layering.ScopeSession, false, sess.Session, "mouse")
	require.False(t, ok)

	// unsetting something never set is a no-op
	require.NoError(t, src.UnsetOption(ctx, opts.UnsetRequest{Scope: layering.ScopeSession, Target: sess.Session, Name: "mouse"}))
}

func TestFailNextAndReplyNext(t *testing.T) {
	src := MustNew()
	ctx := context.Background()
	boom := errors.New("boom")

	src.FailNext(boom)
	_, err := src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeServer})
	require.ErrorIs(t, err, boom)

	src.ReplyNext("broken \"line\n")
	out, err := src.ListOptions(ctx, opts.ListRequest{Scope: layering.ScopeServer})
	require.NoError(t, err)
	require.Equal(t, "broken \"line\n", out)

	require.Len(t, src.Requests(), 2)
	src.ResetRequests()
	require.Empty(t, src.Requests())
}

func TestTargetsResolveUpwards(t *testing.T) {
	src := MustNew()
	ctx := context.Background()
	sess := src.NewSession()
	win, err := src.NewWindow(sess.Session)
	require.NoError(t, err)
	p, err := src.SplitWindow(win)
	require.NoError(t, err)

	// a pane id addresses its window's table
	require.NoError(t, src.ApplyOption(ctx, opts.ApplyRequest{Scope: layering.ScopeWindow, Target: p.Pane, Name: "mode-keys", Value: "vi"}))
	value, ok := src.Lookup(layering.ScopeWindow, false, win.Window, "mode-keys")
	require.True(t, ok)
	require.Equal(t, "vi", value)

	_, err = src.GetOption(ctx, opts.GetRequest{Scope: layering.ScopePane, Target: "%99", Name: "remain-on-exit"})
	require.Error(t, err)
}
