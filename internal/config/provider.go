// Package config resolves where the host keeps its settings file.
//
// The settings store itself never creates directories or validates paths.
// Resolve does that work for the host and decides whether the store must
// run in ephemeral mode because no usable directory could be prepared.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"viewprefs/internal/settings/codec"
)

// Default locations, relative to the user's home directory.
const (
	DefaultDirName  = ".vprefs"
	DefaultFileBase = "settings"
)

// Options are the caller's explicit choices. Empty fields fall back to
// the environment and then to defaults.
type Options struct {
	Dir       string
	File      string
	Format    string
	Ephemeral bool
}

// Paths captures the resolved settings location.
type Paths struct {
	Dir       string // directory holding the settings file
	File      string // path to the settings file
	Format    string // codec name used for File
	Ephemeral bool   // true if the store must not touch the filesystem
	Err       error  // why ephemeral mode was forced, if it was
}

// Codec returns the codec for p.Format.
func (p Paths) Codec() codec.Codec {
	c, err := codec.ByName(p.Format)
	if err != nil {
		return codec.Default
	}
	return c
}

// Resolve computes the settings location and creates its directory.
//
// The only error returned is for an unknown format name. Failure to find
// the home directory or to create the settings directory is not an error:
// the returned Paths is marked Ephemeral with Err set, so the host can
// warn and continue without persistence.
func Resolve(opts Options) (Paths, error) {
	format := firstNonEmpty(opts.Format, os.Getenv(EnvFormat))
	if format != "" {
		c, err := codec.ByName(format)
		if err != nil {
			return Paths{}, err
		}
		format = c.Name()
	}

	file := firstNonEmpty(opts.File, os.Getenv(EnvFile))
	if file == "" {
		ext := format
		if ext == "" {
			ext = codec.Default.Name()
		}
		file = DefaultFileBase + "." + ext
	}
	if format == "" {
		format = codec.ForPath(file).Name()
	}

	p := Paths{
		Format:    format,
		Ephemeral: opts.Ephemeral || EnvEnabled(EnvEphemeral),
	}

	if filepath.IsAbs(file) || strings.ContainsRune(file, filepath.Separator) {
		p.File = file
		p.Dir = filepath.Dir(file)
	} else {
		dir := firstNonEmpty(opts.Dir, os.Getenv(EnvDir))
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				p.File = file
				p.Ephemeral = true
				p.Err = fmt.Errorf("locating home directory: %w", err)
				return p, nil
			}
			dir = filepath.Join(home, DefaultDirName)
		}
		p.Dir = dir
		p.File = filepath.Join(dir, file)
	}

	if p.Ephemeral {
		return p, nil
	}

	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		p.Ephemeral = true
		p.Err = fmt.Errorf("creating settings directory: %w", err)
	}
	return p, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v := strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
