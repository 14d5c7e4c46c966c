package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"viewprefs/internal/settings/codec"

	"gopkg.in/yaml.v3"
)

// parseValue interprets a command-line value as a YAML scalar or flow
// collection, so "800" becomes an int, "true" a bool and "[a, b]" a list.
// Anything that does not parse is kept as the literal string.
func parseValue(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	if v == nil && !nullLiterals[strings.TrimSpace(raw)] {
		return raw // e.g. "#ff8800" parses as a YAML comment
	}
	c, err := codec.Canonical(v)
	if err != nil {
		return raw
	}
	return c
}

var nullLiterals = map[string]bool{"~": true, "null": true, "Null": true, "NULL": true}

// parseAssignments turns command arguments into settings entries.
// It accepts either "<key> <value>" or one or more "key=value" pairs.
func parseAssignments(args []string) (map[string]any, []string, error) {
	entries := make(map[string]any, len(args))
	var order []string

	if len(args) == 2 && !strings.Contains(args[0], "=") {
		entries[args[0]] = parseValue(args[1])
		return entries, []string{args[0]}, nil
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid assignment %q (expected key=value)", arg)
		}
		if _, seen := entries[key]; !seen {
			order = append(order, key)
		}
		entries[key] = parseValue(value)
	}
	return entries, order, nil
}

// formatValue renders a stored value for plain-text output. Strings are
// printed bare; everything else as compact JSON.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(jsonValue(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// jsonValue returns a copy of v that encoding/json can always encode.
// Infinities and NaN, which YAML stores but JSON cannot, become their YAML
// spellings.
func jsonValue(v any) any {
	switch x := v.(type) {
	case float64:
		switch {
		case math.IsInf(x, 1):
			return ".inf"
		case math.IsInf(x, -1):
			return "-.inf"
		case math.IsNaN(x):
			return ".nan"
		}
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	}
	return v
}
