package tmux

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"pkt.systems/pslog"

	opts "github.com/goliatone/go-tmux-options"
)

// DefaultTimeout bounds every tmux invocation unless the caller's context
// expires first.
const DefaultTimeout = 5 * time.Second

// Runner executes tmux with args and returns what it printed.
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) (stdout, stderr string, err error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, binary string, args ...string) (string, string, error)

func (f RunnerFunc) Run(ctx context.Context, binary string, args ...string) (string, string, error) {
	return f(ctx, binary, args...)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, binary string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Source talks to one tmux server.
type Source struct {
	binary     string
	socketName string
	socketPath string
	timeout    time.Duration
	runner     Runner
}

var _ opts.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithBinary overrides the tmux executable (default "tmux" from PATH).
func WithBinary(path string) Option {
	return func(s *Source) {
		if path != "" {
			s.binary = path
		}
	}
}

// WithSocketName selects a named server socket (tmux -L).
func WithSocketName(name string) Option {
	return func(s *Source) { s.socketName = name }
}

// WithSocketPath selects a server socket by path (tmux -S). It wins over
// WithSocketName.
func WithSocketPath(path string) Option {
	return func(s *Source) { s.socketPath = path }
}

// WithTimeout bounds each invocation. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) { s.timeout = d }
}

// WithRunner replaces process execution, mostly for tests.
func WithRunner(r Runner) Option {
	return func(s *Source) {
		if r != nil {
			s.runner = r
		}
	}
}

func New(options ...Option) *Source {
	s := &Source{
		binary:  "tmux",
		timeout: DefaultTimeout,
		runner:  execRunner{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Command returns the full argument vector for a tmux command, socket
// selection included.
func (s *Source) Command(args ...string) []string {
	var out []string
	switch {
	case s.socketPath != "":
		out = append(out, "-S", s.socketPath)
	case s.socketName != "":
		out = append(out, "-L", s.socketName)
	}
	return append(out, args...)
}

// Run executes one tmux command against the configured server and returns its
// stdout. Failures are classified from stderr.
func (s *Source) Run(ctx context.Context, args ...string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	full := s.Command(args...)
	log := pslog.Ctx(ctx).With("binary", s.binary, "args", strings.Join(full, " "))
	log.Debug("tmux run start")

	stdout, stderr, err := s.runner.Run(ctx, s.binary, full...)
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		log.Warn("tmux run timed out", "err", ctxErr)
		return "", &CommandError{Args: full, Stderr: strings.TrimSpace(stderr), Err: ctxErr}
	}
	// tmux reports some option errors on stderr with exit status 0
	if err != nil || strings.TrimSpace(stderr) != "" {
		if err == nil {
			err = errors.New("tmux wrote to stderr")
		}
		log.Debug("tmux run failed", "err", err, "stderr", strings.TrimSpace(stderr))
		return stdout, classify(full, stderr, err)
	}
	log.Debug("tmux run ok", "output_len", len(stdout))
	return stdout, nil
}

func (s *Source) ListOptions(ctx context.Context, req opts.ListRequest) (string, error) {
	return s.Run(ctx, ListArgs(req)...)
}

func (s *Source) GetOption(ctx context.Context, req opts.GetRequest) (string, error) {
	return s.Run(ctx, GetArgs(req)...)
}

func (s *Source) ApplyOption(ctx context.Context, req opts.ApplyRequest) error {
	_, err := s.Run(ctx, ApplyArgs(req)...)
	return err
}

func (s *Source) UnsetOption(ctx context.Context, req opts.UnsetRequest) error {
	_, err := s.Run(ctx, UnsetArgs(req)...)
	return err
}

// Version runs tmux -V.
func (s *Source) Version(ctx context.Context) (string, error) {
	out, err := s.Run(ctx, "-V")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
