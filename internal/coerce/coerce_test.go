package coerce

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		typ  schema.Type
		want any
	}{
		{"string", "screen-256color", schema.String(), "screen-256color"},
		{"integer", "50", schema.Integer(), 50},
		{"integer padded", " 7 ", schema.Integer(), 7},
		{"flag on", "on", schema.Flag(), true},
		{"flag off", "off", schema.Flag(), false},
		{"flag one", "1", schema.Flag(), true},
		{"flag zero", "0", schema.Flag(), false},
		{"enum", "vi", schema.Enum("vi", "emacs"), "vi"},
		{"style", "bg=red,fg=default", schema.StyleType(), schema.Style("bg=red,fg=default")},
		{"array element", "xterm*:Tc", schema.Array(schema.String(), ","), []any{"xterm*:Tc"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Value(tc.raw, tc.typ)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValueRejectsOutOfDomain(t *testing.T) {
	tests := []struct {
		raw string
		typ schema.Type
	}{
		{"fifty", schema.Integer()},
		{"maybe", schema.Flag()},
		{"nano", schema.Enum("vi", "emacs")},
	}
	for _, tc := range tests {
		_, err := Value(tc.raw, tc.typ)
		require.ErrorIs(t, err, ErrInvalidValue)

		var cerr *Error
		require.True(t, errors.As(err, &cerr))
		require.Equal(t, tc.raw, cerr.Raw)
		require.Equal(t, tc.typ.String(), cerr.Expected)
	}
}

func TestLocateFillsContext(t *testing.T) {
	_, err := Value("x", schema.Integer())
	err = Locate(err, layering.ScopeSession, "base-index")

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, layering.ScopeSession, cerr.Scope)
	require.Equal(t, "base-index", cerr.Name)
	require.Contains(t, err.Error(), `session option "base-index"`)
	require.Contains(t, err.Error(), `"x"`)
}

func TestBare(t *testing.T) {
	got, err := Bare(schema.Flag())
	require.NoError(t, err)
	require.Equal(t, true, got)

	got, err = Bare(schema.String())
	require.NoError(t, err)
	require.Equal(t, "", got)

	got, err = Bare(schema.Array(schema.String(), ","))
	require.NoError(t, err)
	require.Equal(t, []any{}, got)

	_, err = Bare(schema.Integer())
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestArrayPreservesGaps(t *testing.T) {
	got, err := Array(map[int]string{3: "c", 0: "a"}, schema.Array(schema.String(), ","))
	require.NoError(t, err)
	require.Equal(t, []any{"a", nil, nil, "c"}, got)

	got, err = Array(nil, schema.Array(schema.String(), ","))
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = Array(map[int]string{0: "x"}, schema.Array(schema.Integer(), ","))
	require.ErrorIs(t, err, ErrInvalidValue)
}

type label struct{ v string }

func (l label) String() string { return l.v }

func TestFormat(t *testing.T) {
	arr := schema.Array(schema.String(), ",")
	tests := []struct {
		name  string
		value any
		typ   schema.Type
		want  string
	}{
		{"string", "tmux-256color", schema.String(), "tmux-256color"},
		{"stringer", label{"x"}, schema.String(), "x"},
		{"int into string", 24, schema.String(), "24"},
		{"int", 100, schema.Integer(), "100"},
		{"int64", int64(7), schema.Integer(), "7"},
		{"uint", uint(42), schema.Integer(), "42"},
		{"int32 max", int64(math.MaxInt32), schema.Integer(), "2147483647"},
		{"numeric string", "12", schema.Integer(), "12"},
		{"bool on", true, schema.Flag(), "on"},
		{"bool off", false, schema.Flag(), "off"},
		{"flag literal", "1", schema.Flag(), "on"},
		{"enum", "vi", schema.Enum("vi", "emacs"), "vi"},
		{"enum numeric", 2, schema.Enum("off", "on", "2"), "2"},
		{"enum bool", true, schema.Enum("off", "on"), "on"},
		{"style", schema.Style("fg=red"), schema.StyleType(), "fg=red"},
		{"array slice", []string{"a", "b"}, arr, "a,b"},
		{"array any skips gaps", []any{"a", nil, "c"}, arr, "a,c"},
		{"array raw", "a,b", arr, "a,b"},
		{"space separated", []string{"DISPLAY", "SSH_AUTH_SOCK"}, schema.Array(schema.String(), " "), "DISPLAY SSH_AUTH_SOCK"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Format(tc.value, tc.typ)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFormatTypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   schema.Type
	}{
		{"word for integer", "lots", schema.Integer()},
		{"bool for integer", true, schema.Integer()},
		{"bool for string", true, schema.String()},
		{"int for flag", 3, schema.Flag()},
		{"enum outside domain", "nano", schema.Enum("vi", "emacs")},
		{"map for array", map[string]string{}, schema.Array(schema.String(), ",")},
		{"uint beyond int64", uint(math.MaxUint64), schema.Integer()},
		{"uint64 beyond int64", uint64(math.MaxInt64) + 1, schema.Integer()},
		{"uint beyond int64 for string", uint(math.MaxUint64), schema.String()},
		{"int64 beyond tmux range", int64(math.MaxInt32) + 1, schema.Integer()},
		{"negative beyond tmux range", int64(math.MinInt32) - 1, schema.Integer()},
		{"text beyond tmux range", "4294967296", schema.Integer()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Format(tc.value, tc.typ)
			require.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestFormatElement(t *testing.T) {
	got, err := FormatElement("xterm*:Tc", schema.Array(schema.String(), ","))
	require.NoError(t, err)
	require.Equal(t, "xterm*:Tc", got)

	_, err = FormatElement("x", schema.String())
	require.ErrorIs(t, err, ErrTypeMismatch)
}
