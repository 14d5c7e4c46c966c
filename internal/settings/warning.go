package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	pkgerrors "github.com/pkg/errors"
)

const warningRule = "------------------------------------------------------------"

// EmitWarning reports on stderr that the settings file at filePath could
// not be read, including err and the stack where it occurred. It is meant
// for a host that caught a Load failure and decided to carry on.
func EmitWarning(filePath string, err error) {
	FprintWarning(os.Stderr, filePath, err)
}

// FprintWarning writes the EmitWarning banner to w. When err carries no
// stack trace of its own, the caller's stack is printed instead.
func FprintWarning(w io.Writer, filePath string, err error) {
	fmt.Fprintln(w, warningRule)
	fmt.Fprintln(w, "WARNING: Unknown problem while trying to access settings:")
	fmt.Fprintln(w, warningRule)
	fmt.Fprintf(w, "This message is being sent because the settings file (%s) could not be read\n", filePath)
	fmt.Fprintln(w, "--")
	if err != nil {
		fmt.Fprintln(w, err)
	}
	var st stackTracer
	if errors.As(err, &st) {
		fmt.Fprintf(w, "%+v\n", st.StackTrace())
	} else {
		w.Write(debug.Stack())
	}
	fmt.Fprintln(w, "--")
	fmt.Fprintln(w, "Please file a bug if this warning persists")
	fmt.Fprintln(w, "Attempting to continue... ")
	fmt.Fprintln(w, warningRule)
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}
