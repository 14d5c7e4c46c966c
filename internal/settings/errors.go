package settings

import (
	"errors"
	"fmt"
	"io/fs"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies why a load or save failed.
type Kind int

const (
	// KindIO is any I/O failure not covered by a more specific kind.
	KindIO Kind = iota
	// KindNotFound means the backing file does not exist.
	KindNotFound
	// KindPermission means the backing file could not be opened for lack of permission.
	KindPermission
	// KindCorrupt means the file was read but its contents are not a valid settings mapping.
	KindCorrupt
	// KindEncode means a value in the store cannot be serialized.
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindCorrupt:
		return "corrupt data"
	case KindEncode:
		return "unsupported value"
	default:
		return "i/o error"
	}
}

var (
	// ErrNotFound matches errors of KindNotFound.
	ErrNotFound = errors.New("settings file not found")

	// ErrPermission matches errors of KindPermission.
	ErrPermission = errors.New("settings file permission denied")

	// ErrCorrupt matches errors of KindCorrupt.
	ErrCorrupt = errors.New("settings file is corrupt")

	// ErrEncode matches errors of KindEncode.
	ErrEncode = errors.New("settings value cannot be serialized")

	// ErrIO matches errors of KindIO.
	ErrIO = errors.New("settings i/o error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindPermission:
		return ErrPermission
	case KindCorrupt:
		return ErrCorrupt
	case KindEncode:
		return ErrEncode
	default:
		return ErrIO
	}
}

// Error is returned by Load and Save when errors are not ignored.
// It unwraps to the underlying filesystem or codec error, and matches the
// sentinel for its Kind under errors.Is.
type Error struct {
	Op   string // "load" or "save"
	Path string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s settings %s (%s): %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf reports the Kind of err if it is, or wraps, an *Error.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return KindIO, false
}

// newError builds an *Error and records the current stack so that
// EmitWarning can show where the failure happened.
func newError(op, path string, kind Kind, err error) error {
	return pkgerrors.WithStack(&Error{Op: op, Path: path, Kind: kind, Err: err})
}

// classify maps a filesystem error to a Kind.
func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	default:
		return KindIO
	}
}
