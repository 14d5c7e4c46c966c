// Package codec serializes a flat settings mapping to and from bytes.
//
// A codec is chosen once, when a store is constructed, and used for both
// reading and writing that store's backing file. Decoded values are
// normalized so that the round trip through any codec yields the same
// Go types: int for integers, float64 for floats, []any for sequences
// and map[string]any for nested mappings. Dates and timestamps have no
// portable form across the codecs and are kept as RFC 3339 strings.
package codec

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Codec encodes and decodes a top-level settings mapping.
type Codec interface {
	// Name returns the format name ("yaml", "toml", "json").
	Name() string

	// Encode serializes m. Values of unsupported types yield an
	// *UnsupportedTypeError.
	Encode(m map[string]any) ([]byte, error)

	// Decode parses data as a single top-level mapping.
	// Returns ErrEmpty if data holds no document.
	Decode(data []byte) (map[string]any, error)
}

// ErrEmpty is returned by Decode when the input contains no mapping.
var ErrEmpty = errors.New("empty settings document")

// UnsupportedTypeError reports a value that no codec can represent.
type UnsupportedTypeError struct {
	Key  string
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported settings value type %s at %q", e.Type, e.Key)
}

var (
	YAML Codec = yamlCodec{}
	TOML Codec = tomlCodec{}
	JSON Codec = jsonCodec{}
)

// Default is the codec used when none is configured.
var Default = YAML

// Names returns the registered format names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = map[string]Codec{
	"yaml": YAML,
	"yml":  YAML,
	"toml": TOML,
	"json": JSON,
}

// ByName returns the codec registered under name (case-insensitive).
func ByName(name string) (Codec, error) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown settings format %q (valid: yaml, toml, json)", name)
	}
	return c, nil
}

// ForPath picks a codec from the file extension of path.
// Unknown or missing extensions use Default.
func ForPath(path string) Codec {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if c, err := ByName(ext); err == nil {
		return c
	}
	return Default
}

// Canonical converts v into the normalized value set: nil, bool, string,
// int, float64, []any and map[string]any. Anything else (pointers,
// structs, channels, functions, complex numbers, maps with non-string
// keys) is rejected with an *UnsupportedTypeError.
func Canonical(v any) (any, error) {
	return canonical("", v)
}

// CanonicalMap applies Canonical to every value of m and returns a new map.
func CanonicalMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		c, err := canonical(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = c
	}
	return out, nil
}

func canonical(path string, v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string, bool, int, float64:
		return x, nil
	case time.Time:
		return formatTime(x), nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			c, err := canonical(joinKey(path, k), e)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			c, err := canonical(fmt.Sprintf("%s[%d]", path, i), e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		if n < math.MinInt || n > math.MaxInt {
			return nil, &UnsupportedTypeError{Key: path, Type: rv.Type().String() + " (overflows int)"}
		}
		return int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		if n > math.MaxInt {
			return nil, &UnsupportedTypeError{Key: path, Type: rv.Type().String() + " (overflows int)"}
		}
		return int(n), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			c, err := canonical(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Key: path, Type: rv.Type().String()}
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			c, err := canonical(joinKey(path, k), iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	}
	return nil, &UnsupportedTypeError{Key: path, Type: rv.Type().String()}
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// normalize rewrites decoder output in place into the canonical value set.
// Decoders only produce scalar, time, slice and map values, so nothing is
// rejected.
func normalize(v any) any {
	switch x := v.(type) {
	case time.Time:
		return formatTime(x)
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case int64:
		if x >= math.MinInt && x <= math.MaxInt {
			return int(x)
		}
		return float64(x)
	case uint64:
		if x <= math.MaxInt {
			return int(x)
		}
		return float64(x)
	case float32:
		return float64(x)
	}
	return v
}

// formatTime renders t as RFC 3339. Values decoded from a TOML local
// date or a YAML date with no clock time keep just the date.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		if name, offset := t.Zone(); offset == 0 || name == "date-local" {
			return t.Format(time.DateOnly)
		}
	}
	return t.Format(time.RFC3339Nano)
}

// formatFloat renders f so that it always reads back as a float,
// appending ".0" to whole numbers.
func formatFloat(f float64) string {
	s := fmt.Sprintf("%v", f)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
