// Package coerce converts raw option text into typed values and typed values
// back into the text a multiplexer accepts.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

var (
	// ErrInvalidValue marks raw text that does not fit the declared type.
	ErrInvalidValue = errors.New("coerce: invalid value")
	// ErrTypeMismatch marks a Go value that cannot be written to an option.
	ErrTypeMismatch = errors.New("coerce: type mismatch")
)

// Error names the field, the offending raw text and the expected type.
type Error struct {
	Scope    layering.OptionScope
	Name     string
	Raw      string
	Expected string
	Err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	subject := "option"
	if e.Scope.Valid() {
		subject = e.Scope.String() + " option"
	}
	if e.Name != "" {
		subject += fmt.Sprintf(" %q", e.Name)
	}
	return fmt.Sprintf("coerce: %s: cannot use %q as %s", subject, e.Raw, e.Expected)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Locate fills in the scope and name on a coercion error, if err is one.
func Locate(err error, scope layering.OptionScope, name string) error {
	var cerr *Error
	if errors.As(err, &cerr) {
		cerr.Scope = scope
		if cerr.Name == "" {
			cerr.Name = name
		}
	}
	return err
}

// Value converts raw text to the Go representation of typ: string, int, bool,
// schema.Style or, for arrays, a one-element slice.
func Value(raw string, typ schema.Type) (any, error) {
	switch typ.Kind {
	case schema.KindString, schema.KindUnknown:
		return raw, nil
	case schema.KindStyle:
		return schema.Style(raw), nil
	case schema.KindInteger:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, invalid(raw, typ)
		}
		return n, nil
	case schema.KindFlag:
		b, ok := parseFlag(raw)
		if !ok {
			return nil, invalid(raw, typ)
		}
		return b, nil
	case schema.KindEnum:
		if !typ.Accepts(raw) {
			return nil, invalid(raw, typ)
		}
		return raw, nil
	case schema.KindArray:
		elem, err := Value(raw, elemType(typ))
		if err != nil {
			return nil, err
		}
		return []any{elem}, nil
	default:
		return nil, invalid(raw, typ)
	}
}

// Bare converts a name-only listing line. Flags read as set, strings and
// arrays as empty.
func Bare(typ schema.Type) (any, error) {
	switch typ.Kind {
	case schema.KindFlag:
		return true, nil
	case schema.KindString, schema.KindUnknown:
		return "", nil
	case schema.KindStyle:
		return schema.Style(""), nil
	case schema.KindArray:
		return []any{}, nil
	default:
		return nil, invalid("", typ)
	}
}

// Array assembles indexed raw elements into a slice ordered by index. Missing
// indexes stay nil.
func Array(elements map[int]string, typ schema.Type) ([]any, error) {
	if len(elements) == 0 {
		return []any{}, nil
	}
	indexes := make([]int, 0, len(elements))
	for idx := range elements {
		if idx < 0 {
			return nil, invalid(strconv.Itoa(idx), typ)
		}
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)
	out := make([]any, indexes[len(indexes)-1]+1)
	elem := elemType(typ)
	for _, idx := range indexes {
		value, err := Value(elements[idx], elem)
		if err != nil {
			return nil, err
		}
		out[idx] = value
	}
	return out, nil
}

// Format renders a Go value as raw option text, checking it against typ.
// Custom options pass typ with KindString.
func Format(value any, typ schema.Type) (string, error) {
	switch typ.Kind {
	case schema.KindString, schema.KindUnknown:
		if s, ok := textOf(value); ok {
			return s, nil
		}
		if n, ok := integerOf(value); ok {
			return strconv.FormatInt(n, 10), nil
		}
	case schema.KindStyle:
		if s, ok := textOf(value); ok {
			return s, nil
		}
	case schema.KindInteger:
		if n, ok := integerOf(value); ok && optionNumber(n) {
			return strconv.FormatInt(n, 10), nil
		}
		if s, ok := value.(string); ok {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && optionNumber(n) {
				return strings.TrimSpace(s), nil
			}
		}
	case schema.KindFlag:
		switch v := value.(type) {
		case bool:
			return formatFlag(v), nil
		case string:
			if b, ok := parseFlag(v); ok {
				return formatFlag(b), nil
			}
		}
	case schema.KindEnum:
		var literal string
		switch v := value.(type) {
		case bool:
			literal = formatFlag(v)
		default:
			if s, ok := textOf(value); ok {
				literal = s
			} else if n, ok := integerOf(value); ok {
				literal = strconv.FormatInt(n, 10)
			}
		}
		if typ.Accepts(literal) {
			return literal, nil
		}
	case schema.KindArray:
		return formatArray(value, typ)
	}
	return "", mismatch(value, typ)
}

// FormatElement renders one array element for an indexed write.
func FormatElement(value any, typ schema.Type) (string, error) {
	if typ.Kind != schema.KindArray {
		return "", mismatch(value, typ)
	}
	return Format(value, elemType(typ))
}

func formatArray(value any, typ schema.Type) (string, error) {
	elem := elemType(typ)
	var parts []string
	switch v := value.(type) {
	case string:
		return v, nil
	case []string:
		for _, item := range v {
			s, err := Format(item, elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			s, err := Format(item, elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
	default:
		return "", mismatch(value, typ)
	}
	sep := typ.Separator
	if sep == "" {
		sep = ","
	}
	return strings.Join(parts, sep), nil
}

func parseFlag(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "1":
		return true, true
	case "off", "0":
		return false, true
	default:
		return false, false
	}
}

func formatFlag(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func textOf(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case schema.Style:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

func integerOf(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// optionNumber reports whether n fits the C int range tmux stores number
// options in.
func optionNumber(n int64) bool {
	return n >= math.MinInt32 && n <= math.MaxInt32
}

func elemType(typ schema.Type) schema.Type {
	if typ.Elem == nil {
		return schema.String()
	}
	return *typ.Elem
}

func invalid(raw string, typ schema.Type) *Error {
	return &Error{Raw: raw, Expected: typ.String(), Err: ErrInvalidValue}
}

func mismatch(value any, typ schema.Type) *Error {
	return &Error{Raw: fmt.Sprint(value), Expected: typ.String(), Err: ErrTypeMismatch}
}
