// Package parse turns the multiplexer's line-oriented option listings into raw
// entries. Values are unquoted but otherwise left untouched; typing happens in
// the coerce package.
package parse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/shlex"

	"github.com/goliatone/go-tmux-options/schema"
)

// InheritedMarker suffixes names reported from an ancestor scope.
const InheritedMarker = "*"

var (
	ErrEmptyLine       = errors.New("parse: empty line")
	ErrInvalidName     = errors.New("parse: invalid option name")
	ErrBadIndex        = errors.New("parse: malformed array index")
	ErrUnbalancedQuote = errors.New("parse: unbalanced quoting")
	ErrExtraTokens     = errors.New("parse: unexpected tokens after value")
)

// Error reports a malformed listing line.
type Error struct {
	Line   string
	LineNo int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.LineNo > 0 {
		return fmt.Sprintf("parse: line %d %q: %s", e.LineNo, e.Line, e.Reason)
	}
	return fmt.Sprintf("parse: %q: %s", e.Line, e.Reason)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Entry is one raw option line.
type Entry struct {
	// Name is the reported name without the inherited marker, including any
	// array index ("terminal-overrides[1]").
	Name string
	// Base is Name without the array index.
	Base string
	// Index is the array slot; meaningful only when Indexed.
	Index   int
	Indexed bool
	Value   string
	// Bare marks a line that carried a name only.
	Bare      bool
	Inherited bool
}

// Line parses a single "name value" line.
func Line(line string) (Entry, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Entry{}, lineError(line, "empty line", ErrEmptyLine)
	}

	name, rest := trimmed, ""
	if idx := strings.IndexFunc(trimmed, unicode.IsSpace); idx >= 0 {
		name, rest = trimmed[:idx], strings.TrimSpace(trimmed[idx+1:])
	}

	entry := Entry{}
	if strings.HasSuffix(name, InheritedMarker) {
		entry.Inherited = true
		name = strings.TrimSuffix(name, InheritedMarker)
	}
	if !validName(name) {
		return Entry{}, lineError(line, fmt.Sprintf("invalid name %q", name), ErrInvalidName)
	}
	entry.Name = name
	entry.Base = name
	if strings.ContainsRune(name, '[') {
		base, index, ok := schema.SplitIndex(name)
		if !ok {
			return Entry{}, lineError(line, fmt.Sprintf("malformed index in %q", name), ErrBadIndex)
		}
		entry.Base, entry.Index, entry.Indexed = base, index, true
	}

	if rest == "" {
		entry.Bare = true
		return entry, nil
	}
	value, err := unquote(rest)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) {
			perr.Line = line
			return Entry{}, perr
		}
		return Entry{}, err
	}
	entry.Value = value
	return entry, nil
}

// Listing parses newline-delimited output. Blank lines are skipped; the first
// malformed line aborts the whole listing.
func Listing(text string) ([]Entry, error) {
	lines := strings.Split(text, "\n")
	entries := make([]Entry, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := Line(line)
		if err != nil {
			var perr *Error
			if errors.As(err, &perr) {
				perr.LineNo = i + 1
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Quote renders value the way the multiplexer prints it in listings.
func Quote(value string) string {
	if value == "" {
		return `""`
	}
	if !strings.ContainsAny(value, " \t\"'\\;#$~{}") {
		return value
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"', '\\', '$':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func unquote(rest string) (string, error) {
	if rest == `""` || rest == `''` {
		return "", nil
	}
	if !strings.ContainsAny(rest, "\"'\\") {
		if strings.IndexFunc(rest, unicode.IsSpace) >= 0 {
			return "", lineError(rest, "value has more than one token", ErrExtraTokens)
		}
		// shlex would drop a leading '#' as a comment.
		return rest, nil
	}
	tokens, err := shlex.Split(rest)
	if err != nil {
		return "", lineError(rest, err.Error(), ErrUnbalancedQuote)
	}
	switch len(tokens) {
	case 0:
		return "", nil
	case 1:
		return tokens[0], nil
	default:
		return "", lineError(rest, fmt.Sprintf("value has %d tokens", len(tokens)), ErrExtraTokens)
	}
}

func validName(name string) bool {
	if name == "" || name == "@" {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
		switch r {
		case '"', '\'', '\\', '*':
			return false
		}
	}
	return true
}

func lineError(line, reason string, err error) *Error {
	return &Error{Line: line, Reason: reason, Err: err}
}
