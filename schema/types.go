package schema

import "strings"

// Kind enumerates the declared value types an option may carry.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindInteger
	KindFlag
	KindEnum
	KindStyle
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFlag:
		return "flag"
	case KindEnum:
		return "enum"
	case KindStyle:
		return "style"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Style is a styled string (e.g. "fg=red,bg=default") passed through opaquely.
type Style string

func (s Style) String() string { return string(s) }

// Type is the declared type of an option value.
type Type struct {
	Kind Kind
	// Values lists the accepted literals for KindEnum.
	Values []string
	// Elem is the element type for KindArray.
	Elem *Type
	// Separator joins array elements when a whole array is written at once.
	Separator string
}

func String() Type  { return Type{Kind: KindString} }
func Integer() Type { return Type{Kind: KindInteger} }
func Flag() Type    { return Type{Kind: KindFlag} }
func StyleType() Type {
	return Type{Kind: KindStyle}
}

// Enum declares an enumeration over values.
func Enum(values ...string) Type {
	return Type{Kind: KindEnum, Values: append([]string(nil), values...)}
}

// Array declares an indexed array of elem, written with sep when set whole.
func Array(elem Type, sep string) Type {
	e := elem
	return Type{Kind: KindArray, Elem: &e, Separator: sep}
}

// Accepts reports whether literal is one of the enum values.
func (t Type) Accepts(literal string) bool {
	for _, v := range t.Values {
		if v == literal {
			return true
		}
	}
	return false
}

func (t Type) String() string {
	switch t.Kind {
	case KindEnum:
		return "enum[" + strings.Join(t.Values, "|") + "]"
	case KindArray:
		if t.Elem == nil {
			return "array[string]"
		}
		return "array[" + t.Elem.String() + "]"
	default:
		return t.Kind.String()
	}
}

// IsCustom reports whether name is a user-defined option. Custom options are
// always treated as opaque strings.
func IsCustom(name string) bool {
	return strings.HasPrefix(name, "@")
}

// SplitIndex separates an array-style name ("name[3]") into its base name and
// index. ok is false when name carries no index. A malformed index returns the
// name unchanged with index -1.
func SplitIndex(name string) (base string, index int, ok bool) {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return name, -1, false
	}
	digits := name[open+1 : len(name)-1]
	if digits == "" {
		return name, -1, false
	}
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return name, -1, false
		}
		n = n*10 + int(r-'0')
		if n > 1<<20 {
			return name, -1, false
		}
	}
	return name[:open], n, true
}
