package codec

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// tomlCodec stores settings as a TOML document. TOML has no null, so
// Encode rejects nil anywhere in the mapping.
type tomlCodec struct{}

func (tomlCodec) Name() string { return "toml" }

func (tomlCodec) Encode(m map[string]any) ([]byte, error) {
	c, err := CanonicalMap(m)
	if err != nil {
		return nil, err
	}
	if err := tomlNoNil("", c); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encoding toml: %w", err)
	}
	return buf.Bytes(), nil
}

func (tomlCodec) Decode(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}
	m := make(map[string]any)
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing toml: %w", err)
	}
	return normalize(m).(map[string]any), nil
}

func tomlNoNil(path string, v any) error {
	switch x := v.(type) {
	case nil:
		return &UnsupportedTypeError{Key: path, Type: "nil (toml has no null)"}
	case map[string]any:
		for k, e := range x {
			if err := tomlNoNil(joinKey(path, k), e); err != nil {
				return err
			}
		}
	case []any:
		for i, e := range x {
			if err := tomlNoNil(fmt.Sprintf("%s[%d]", path, i), e); err != nil {
				return err
			}
		}
	}
	return nil
}
