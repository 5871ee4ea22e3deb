package tmux

import (
	"errors"
	"fmt"
	"strings"

	opts "github.com/goliatone/go-tmux-options"
)

// ErrNoServer reports that no tmux server is listening on the socket.
var ErrNoServer = errors.New("tmux: no server running")

// CommandError is a failed tmux invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "tmux " + strings.Join(e.Args, " ") + " failed"
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// classify maps tmux's stderr onto the engine's sentinels. The first line is
// the one tmux reports the command error on.
func classify(args []string, stderr string, err error) error {
	line, _, _ := strings.Cut(strings.TrimSpace(stderr), "\n")
	lower := strings.ToLower(line)

	var kind error
	switch {
	case strings.Contains(lower, "unknown option"):
		kind = opts.ErrUnknownOption
	case strings.Contains(lower, "invalid option"):
		kind = opts.ErrInvalidOption
	case strings.Contains(lower, "ambiguous option"):
		kind = opts.ErrAmbiguousOption
	case strings.Contains(lower, "unknown flag"), strings.HasPrefix(lower, "usage:"):
		kind = opts.ErrUnsupportedScope
	case strings.Contains(lower, "no server running"), strings.Contains(lower, "error connecting to"):
		kind = ErrNoServer
	}

	cmdErr := &CommandError{Args: args, Stderr: line, Err: err}
	if kind == nil {
		return cmdErr
	}
	return fmt.Errorf("%w: %w", kind, cmdErr)
}
