package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-tmux-options/internal/appconfig"
)

// render writes v in format. Text output is handled by the caller's text
// function so each command controls its own layout.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case appconfig.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case appconfig.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// writeListing prints values the way show-options does: one option per
// line, arrays expanded to name[i].
func writeListing(w io.Writer, values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if arr, ok := values[name].([]any); ok {
			for i, elem := range arr {
				if elem == nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "%s[%d] %s\n", name, i, formatText(elem)); err != nil {
					return err
				}
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", name, formatText(values[name])); err != nil {
			return err
		}
	}
	return nil
}

func formatText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if val {
			return "on"
		}
		return "off"
	case int:
		return strconv.Itoa(val)
	case string:
		if val == "" || strings.ContainsAny(val, " \t\"#") {
			return strconv.Quote(val)
		}
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			if elem != nil {
				parts = append(parts, formatText(elem))
			}
		}
		return strings.Join(parts, ",")
	default:
		return formatText(fmt.Sprint(val))
	}
}
