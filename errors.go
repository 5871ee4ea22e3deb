package opts

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-tmux-options/internal/coerce"
	"github.com/goliatone/go-tmux-options/internal/parse"
	"github.com/goliatone/go-tmux-options/layering"
)

var (
	// ErrNotFound is matched by every "no such value" failure, including
	// unknown, invalid and ambiguous option names.
	ErrNotFound         = errors.New("opts: option not found")
	ErrUnknownOption    = errors.New("opts: unknown option")
	ErrInvalidOption    = errors.New("opts: invalid option")
	ErrAmbiguousOption  = errors.New("opts: ambiguous option")
	ErrUnsupportedScope = errors.New("opts: scope not supported by this tmux version")
	ErrTypeMismatch     = errors.New("opts: value does not match option type")
	ErrNoSource         = errors.New("opts: option source not configured")
	ErrInvalidScope     = errors.New("opts: invalid scope")
)

// ParseError reports a malformed listing line.
type ParseError = parse.Error

// CoercionError reports raw text that does not fit an option's declared type.
type CoercionError = coerce.Error

// ErrorKind classifies an OptionError.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindUnknownOption
	KindInvalidOption
	KindAmbiguousOption
	KindUnsupportedScope
	KindTypeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnknownOption:
		return "unknown option"
	case KindInvalidOption:
		return "invalid option"
	case KindAmbiguousOption:
		return "ambiguous option"
	case KindUnsupportedScope:
		return "unsupported scope"
	case KindTypeMismatch:
		return "type mismatch"
	default:
		return "option error"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindUnknownOption:
		return ErrUnknownOption
	case KindInvalidOption:
		return ErrInvalidOption
	case KindAmbiguousOption:
		return ErrAmbiguousOption
	case KindUnsupportedScope:
		return ErrUnsupportedScope
	case KindTypeMismatch:
		return ErrTypeMismatch
	default:
		return nil
	}
}

func (k ErrorKind) notFoundClass() bool {
	switch k {
	case KindNotFound, KindUnknownOption, KindInvalidOption, KindAmbiguousOption:
		return true
	default:
		return false
	}
}

// OptionError carries the scope, target and option name of a failed request.
// Raw holds the offending text for type mismatches.
type OptionError struct {
	Kind    ErrorKind
	Scope   layering.OptionScope
	Target  string
	Name    string
	Raw     string
	Version string
	Err     error
}

func (e *OptionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("opts: %s: %s option %q", e.Kind, e.Scope, e.Name)
	if e.Target != "" {
		msg += fmt.Sprintf(" (target %s)", e.Target)
	}
	if e.Raw != "" {
		msg += fmt.Sprintf(" value %q", e.Raw)
	}
	if e.Version != "" {
		msg += " tmux " + e.Version
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OptionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel for the error's kind. Unknown, invalid and
// ambiguous options also match ErrNotFound.
func (e *OptionError) Is(target error) bool {
	if e == nil {
		return false
	}
	if target == e.Kind.sentinel() {
		return true
	}
	return target == ErrNotFound && e.Kind.notFoundClass()
}

// IsNotFound reports whether err is a NotFound-class failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnsupportedScope reports whether err is an unsupported scope failure.
func IsUnsupportedScope(err error) bool {
	return errors.Is(err, ErrUnsupportedScope)
}

// IsTypeMismatch reports whether err is a rejected write value.
func IsTypeMismatch(err error) bool {
	return errors.Is(err, ErrTypeMismatch)
}

// silenceable reports whether ignoreErrors may demote err to a no-op. Parse,
// coercion and type errors always surface.
func silenceable(err error) bool {
	var optErr *OptionError
	if !errors.As(err, &optErr) {
		return false
	}
	return optErr.Kind.notFoundClass() || optErr.Kind == KindUnsupportedScope
}

// classifySourceError maps a source failure onto an OptionError when it
// reports an option problem; anything else is returned unchanged.
func classifySourceError(err error, scope layering.OptionScope, target, name string) error {
	if err == nil {
		return nil
	}
	var optErr *OptionError
	if errors.As(err, &optErr) {
		return err
	}
	kind := ErrorKind(0)
	switch {
	case errors.Is(err, ErrUnknownOption):
		kind = KindUnknownOption
	case errors.Is(err, ErrInvalidOption):
		kind = KindInvalidOption
	case errors.Is(err, ErrAmbiguousOption):
		kind = KindAmbiguousOption
	case errors.Is(err, ErrUnsupportedScope):
		kind = KindUnsupportedScope
	case errors.Is(err, ErrNotFound):
		kind = KindNotFound
	default:
		return err
	}
	return &OptionError{Kind: kind, Scope: scope, Target: target, Name: name, Err: err}
}
