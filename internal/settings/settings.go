// Package settings implements a small persisted key-value store for viewer
// preferences.
//
// A Settings value holds a flat mapping in memory and synchronizes it with
// a single backing file on explicit Load and Save calls. Failures never
// have to abort the host: every I/O operation accepts an ignoreErrors flag
// that turns a failure into a false result with the in-memory state left
// unchanged.
//
// A store constructed in ephemeral mode never touches the filesystem. Hosts
// use it when they cannot prepare a settings directory.
//
// Settings is not safe for concurrent use. Two processes sharing a backing
// file race and the last writer wins.
package settings

import (
	"io"
	"log/slog"
	"maps"
	"os"
	"sort"

	"viewprefs/internal/settings/codec"
)

// Settings is a flat key-value mapping backed by a single file.
type Settings struct {
	filename  string
	ephemeral bool
	codec     codec.Codec
	logger    *slog.Logger
	values    map[string]any
}

// Option configures a Settings at construction.
type Option func(*options)

type options struct {
	values    map[string]any
	ephemeral bool
	codec     codec.Codec
	logger    *slog.Logger
}

// WithValues sets the initial contents of the store. The map is copied.
// Initial contents are dropped when the store is ephemeral.
func WithValues(values map[string]any) Option {
	return func(o *options) { o.values = values }
}

// Ephemeral makes the store memory-only.
func Ephemeral() Option {
	return WithEphemeral(true)
}

// WithEphemeral sets whether the store is memory-only.
func WithEphemeral(ephemeral bool) Option {
	return func(o *options) { o.ephemeral = ephemeral }
}

// WithCodec sets the serialization format of the backing file.
// The default is YAML.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger sets the logger used for debug output about loads and saves.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a store for filename. No I/O is performed; call Load to
// read previously saved entries.
func New(filename string, opts ...Option) *Settings {
	o := options{
		codec:  codec.Default,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Settings{
		filename:  filename,
		ephemeral: o.ephemeral,
		codec:     o.codec,
		logger:    o.logger.With("settings", filename),
		values:    make(map[string]any),
	}
	if s.ephemeral {
		return s
	}
	maps.Copy(s.values, o.values)
	return s
}

// Filename returns the path of the backing file.
func (s *Settings) Filename() string { return s.filename }

// IsEphemeral reports whether the store is memory-only.
func (s *Settings) IsEphemeral() bool { return s.ephemeral }

// Format returns the name of the codec used for the backing file.
func (s *Settings) Format() string { return s.codec.Name() }

// Load reads the backing file and merges its entries into the store,
// overwriting existing keys.
//
// It returns true on success. On failure the store is unchanged; if
// ignoreErrors is set Load returns false and a nil error, otherwise it
// returns the failure as an *Error. In ephemeral mode Load does nothing
// and returns false.
func (s *Settings) Load(ignoreErrors bool) (bool, error) {
	if s.ephemeral {
		return false, nil
	}

	loaded, err := s.read()
	if err != nil {
		s.logger.Debug("settings load failed", "error", err)
		if ignoreErrors {
			return false, nil
		}
		return false, err
	}

	maps.Copy(s.values, loaded)
	s.logger.Debug("settings loaded", "keys", len(loaded))
	return true, nil
}

func (s *Settings) read() (map[string]any, error) {
	f, err := os.Open(s.filename)
	if err != nil {
		return nil, newError("load", s.filename, classify(err), err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, newError("load", s.filename, classify(err), err)
	}

	loaded, err := s.codec.Decode(data)
	if err != nil {
		return nil, newError("load", s.filename, KindCorrupt, err)
	}
	return loaded, nil
}

// Save writes the whole store to the backing file, replacing its
// contents. The write is not atomic: a failure part way through can leave
// a truncated file.
//
// Error handling follows Load. In ephemeral mode Save does nothing and
// returns false.
func (s *Settings) Save(ignoreErrors bool) (bool, error) {
	if s.ephemeral {
		return false, nil
	}

	if err := s.write(); err != nil {
		s.logger.Debug("settings save failed", "error", err)
		if ignoreErrors {
			return false, nil
		}
		return false, err
	}

	s.logger.Debug("settings saved", "keys", len(s.values))
	return true, nil
}

func (s *Settings) write() error {
	data, err := s.codec.Encode(s.values)
	if err != nil {
		return newError("save", s.filename, KindEncode, err)
	}

	f, err := os.OpenFile(s.filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return newError("save", s.filename, classify(err), err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return newError("save", s.filename, classify(err), err)
	}
	if err := f.Close(); err != nil {
		return newError("save", s.filename, classify(err), err)
	}
	return nil
}

// SetAndSave merges entries into the store and saves it, ignoring any
// save failure. The entries are applied in memory either way. In
// ephemeral mode it does nothing.
func (s *Settings) SetAndSave(entries map[string]any) {
	if s.ephemeral {
		return
	}
	s.Update(entries)
	s.Save(true)
}

// Get returns the value stored under key.
func (s *Settings) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key in memory.
func (s *Settings) Set(key string, value any) {
	s.values[key] = value
}

// Update merges entries into the store in memory, overwriting existing keys.
func (s *Settings) Update(entries map[string]any) {
	maps.Copy(s.values, entries)
}

// Delete removes key from the store in memory.
func (s *Settings) Delete(key string) {
	delete(s.values, key)
}

// Has reports whether key is present.
func (s *Settings) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Len returns the number of entries.
func (s *Settings) Len() int { return len(s.values) }

// Keys returns all keys in sorted order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for each entry in key order until fn returns false.
func (s *Settings) Range(fn func(key string, value any) bool) {
	for _, k := range s.Keys() {
		if !fn(k, s.values[k]) {
			return
		}
	}
}

// All returns a shallow copy of the entries.
func (s *Settings) All() map[string]any {
	return maps.Clone(s.values)
}

// Value returns the value under key as a T, or def if the key is missing
// or holds a value of another type.
func Value[T any](s *Settings, key string, def T) T {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}
