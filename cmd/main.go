// vprefs inspects and edits the persisted settings file kept by the viewer.
package main

import (
	"fmt"
	"os"

	"viewprefs/internal/cmd"
)

var (
	run    = func() error { return cmd.Execute() }
	osExit = os.Exit
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}
