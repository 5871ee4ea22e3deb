package tmux

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	opts "github.com/goliatone/go-tmux-options"
	"github.com/goliatone/go-tmux-options/layering"
)

type recordingRunner struct {
	calls  [][]string
	stdout string
	stderr string
	err    error
}

func (r *recordingRunner) Run(_ context.Context, _ string, args ...string) (string, string, error) {
	r.calls = append(r.calls, args)
	return r.stdout, r.stderr, r.err
}

func TestListArgs(t *testing.T) {
	cases := []struct {
		name string
		req  opts.ListRequest
		want []string
	}{
		{"server", opts.ListRequest{Scope: layering.ScopeServer}, []string{"show-options", "-s"}},
		{"session", opts.ListRequest{Scope: layering.ScopeSession, Target: "$1"}, []string{"show-options", "-t", "$1"}},
		{"global session", opts.ListRequest{Scope: layering.ScopeSession, Global: true, Target: "$1"}, []string{"show-options", "-g"}},
		{"window inherited", opts.ListRequest{Scope: layering.ScopeWindow, Target: "@2", Inherited: true}, []string{"show-options", "-A", "-w", "-t", "@2"}},
		{"pane hooks quiet", opts.ListRequest{Scope: layering.ScopePane, Target: "%3", Hooks: true, Quiet: true}, []string{"show-options", "-H", "-q", "-p", "-t", "%3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ListArgs(tc.req))
		})
	}
}

func TestMutationArgs(t *testing.T) {
	require.Equal(t,
		[]string{"set-option", "-s", "buffer-limit", "100"},
		ApplyArgs(opts.ApplyRequest{Scope: layering.ScopeServer, Target: "$0", Name: "buffer-limit", Value: "100"}),
	)
	require.Equal(t,
		[]string{"set-option", "-q", "-a", "-t", "$1", "status-left", "x"},
		ApplyArgs(opts.ApplyRequest{Scope: layering.ScopeSession, Target: "$1", Name: "status-left", Value: "x", Append: true, Quiet: true}),
	)
	require.Equal(t,
		[]string{"set-option", "-g", "-w", "mode-keys", "vi"},
		ApplyArgs(opts.ApplyRequest{Scope: layering.ScopeWindow, Global: true, Name: "mode-keys", Value: "vi"}),
	)
	require.Equal(t,
		[]string{"set-option", "-u", "-p", "-t", "%3", "remain-on-exit"},
		UnsetArgs(opts.UnsetRequest{Scope: layering.ScopePane, Target: "%3", Name: "remain-on-exit"}),
	)
	require.Equal(t,
		[]string{"show-options", "-g", "-w", "pane-base-index"},
		GetArgs(opts.GetRequest{Scope: layering.ScopeWindow, Global: true, Name: "pane-base-index"}),
	)
}

func TestCommandSelectsSocket(t *testing.T) {
	require.Equal(t, []string{"-V"}, New().Command("-V"))
	require.Equal(t, []string{"-L", "test", "-V"}, New(WithSocketName("test")).Command("-V"))
	require.Equal(t, []string{"-S", "/tmp/s", "-V"}, New(WithSocketName("test"), WithSocketPath("/tmp/s")).Command("-V"))
}

func TestRunClassifiesStderr(t *testing.T) {
	exitErr := errors.New("exit status 1")
	cases := []struct {
		stderr string
		err    error
		want   error
	}{
		{"unknown option: test", exitErr, opts.ErrUnknownOption},
		{"invalid option: test", exitErr, opts.ErrInvalidOption},
		{"ambiguous option: status", exitErr, opts.ErrAmbiguousOption},
		{"command show-options: unknown flag -A", exitErr, opts.ErrUnsupportedScope},
		{"usage: show-options [-gqsvw] [-t target-session|target-window] [option]", exitErr, opts.ErrUnsupportedScope},
		{"no server running on /tmp/tmux-1000/default", exitErr, ErrNoServer},
		{"invalid option: test", nil, opts.ErrInvalidOption},
	}
	for _, tc := range cases {
		t.Run(tc.stderr, func(t *testing.T) {
			runner := &recordingRunner{stderr: tc.stderr + "\n", err: tc.err}
			_, err := New(WithRunner(runner)).Run(context.Background(), "show-options", "test")
			require.ErrorIs(t, err, tc.want)

			var cmdErr *CommandError
			require.ErrorAs(t, err, &cmdErr)
			require.Equal(t, tc.stderr, cmdErr.Stderr)
			require.Equal(t, []string{"show-options", "test"}, cmdErr.Args)
		})
	}
}

func TestRunPassesUnknownFailuresThrough(t *testing.T) {
	boom := errors.New("exec: \"tmux\": executable file not found in $PATH")
	_, err := New(WithRunner(&recordingRunner{err: boom})).Run(context.Background(), "-V")
	require.ErrorIs(t, err, boom)
	require.False(t, opts.IsNotFound(err))
}

func TestRunAppliesTimeout(t *testing.T) {
	runner := RunnerFunc(func(ctx context.Context, _ string, _ ...string) (string, string, error) {
		<-ctx.Done()
		return "", "", ctx.Err()
	})
	_, err := New(WithRunner(runner), WithTimeout(10*time.Millisecond)).Run(context.Background(), "-V")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSourceRoundTrip(t *testing.T) {
	runner := &recordingRunner{stdout: "tmux 3.3a\n"}
	src := New(WithRunner(runner), WithSocketName("opts"))

	version, err := src.Version(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tmux 3.3a", version)

	runner.stdout = "buffer-limit 50\n"
	out, err := src.GetOption(context.Background(), opts.GetRequest{Scope: layering.ScopeServer, Name: "buffer-limit"})
	require.NoError(t, err)
	require.Equal(t, "buffer-limit 50\n", out)

	require.NoError(t, src.UnsetOption(context.Background(), opts.UnsetRequest{Scope: layering.ScopeServer, Name: "buffer-limit"}))
	require.Equal(t, [][]string{
		{"-L", "opts", "-V"},
		{"-L", "opts", "show-options", "-s", "buffer-limit"},
		{"-L", "opts", "set-option", "-u", "-s", "buffer-limit"},
	}, runner.calls)
}

// TestAgainstTmux drives a private tmux server when the binary is installed.
func TestAgainstTmux(t *testing.T) {
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not installed")
	}
	ctx := context.Background()
	src := New(WithSocketPath(filepath.Join(t.TempDir(), "tmux.sock")))
	_, err := src.Run(ctx, "-f", "/dev/null", "new-session", "-d", "-s", "opts")
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = src.Run(context.Background(), "kill-server") })

	engine := opts.MustNew(src)
	server := engine.Server()
	require.NoError(t, server.SetOption(ctx, "buffer-limit", 100))
	value, err := server.ShowOption(ctx, "buffer-limit")
	require.NoError(t, err)
	require.Equal(t, 100, value)

	session := engine.Session("opts")
	require.NoError(t, session.SetOption(ctx, "@custom-option", "test"))
	value, err = session.ShowOption(ctx, "@custom-option")
	require.NoError(t, err)
	require.Equal(t, "test", value)

	_, err = session.ShowOption(ctx, "test")
	require.True(t, opts.IsNotFound(err))
}
