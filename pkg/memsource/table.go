package memsource

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-tmux-options/internal/parse"
	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

// table maps option names (array elements as name[i]) to raw values.
type table map[string]string

type tableRef struct {
	scope  layering.OptionScope
	global bool
	id     string
}

// Identifier is the deterministic key of a table.
func (r tableRef) Identifier() string {
	switch {
	case r.scope == layering.ScopeServer:
		return "server"
	case r.global:
		return r.scope.String() + ":global"
	default:
		return r.scope.String() + "/" + r.id
	}
}

func (t table) clone() table {
	out := make(table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// entries returns the lines for name: the exact key, or every element of an
// array when name is a base name.
func (t table) entries(name string) []string {
	if _, _, indexed := schema.SplitIndex(name); indexed {
		if _, ok := t[name]; ok {
			return []string{name}
		}
		return nil
	}
	var keys []string
	for key := range t {
		if key == name {
			keys = append(keys, key)
			continue
		}
		if base, _, indexed := schema.SplitIndex(key); indexed && base == name {
			keys = append(keys, key)
		}
	}
	sortKeys(keys)
	return keys
}

// remove drops name, or every element of name when it is an array base name.
func (t table) remove(name string) {
	for _, key := range t.entries(name) {
		delete(t, key)
	}
}

func (t table) nextIndex(base string) int {
	next := 0
	for key := range t {
		if b, idx, ok := schema.SplitIndex(key); ok && b == base && idx >= next {
			next = idx + 1
		}
	}
	return next
}

func (t table) keys() []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sortKeys(keys)
	return keys
}

// sortKeys orders names alphabetically by base and array elements by index.
func sortKeys(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		baseA, idxA, _ := schema.SplitIndex(a)
		baseB, idxB, _ := schema.SplitIndex(b)
		if c := cmp.Compare(baseA, baseB); c != 0 {
			return c
		}
		return cmp.Compare(idxA, idxB)
	})
}

func renderLine(name, value string, inherited bool) string {
	if inherited {
		name += parse.InheritedMarker
	}
	return name + " " + parse.Quote(value)
}

func hookLine(name string, index int, command string) string {
	return fmt.Sprintf("%s[%s] %s", name, strconv.Itoa(index), parse.Quote(command))
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
