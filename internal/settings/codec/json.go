package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// jsonCodec stores settings as an indented JSON object.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(m map[string]any) ([]byte, error) {
	c, err := CanonicalMap(m)
	if err != nil {
		return nil, err
	}
	out, err := jsonFloats("", c)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Decode(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing json: trailing data after settings object")
	}
	if m == nil {
		return nil, ErrEmpty
	}
	return jsonNumbers(m).(map[string]any), nil
}

// jsonFloats replaces floats with json.Number literals that keep a
// decimal point, so whole floats decode as floats again.
func jsonFloats(path string, v any) (any, error) {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, &UnsupportedTypeError{Key: path, Type: "float64 (not representable in json)"}
		}
		return json.Number(formatFloat(x)), nil
	case map[string]any:
		for k, e := range x {
			c, err := jsonFloats(joinKey(path, k), e)
			if err != nil {
				return nil, err
			}
			x[k] = c
		}
	case []any:
		for i, e := range x {
			c, err := jsonFloats(fmt.Sprintf("%s[%d]", path, i), e)
			if err != nil {
				return nil, err
			}
			x[i] = c
		}
	}
	return v, nil
}

// jsonNumbers converts json.Number values produced by UseNumber into int
// or float64.
func jsonNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return normalize(n)
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = jsonNumbers(e)
		}
	case []any:
		for i, e := range x {
			x[i] = jsonNumbers(e)
		}
	}
	return v
}
