package config

import (
	"os"
	"strings"
)

// Environment variable names for vprefs configuration.
const (
	EnvDir       = "VPREFS_DIR"       // Settings directory
	EnvFile      = "VPREFS_FILE"      // Settings file name or path
	EnvFormat    = "VPREFS_FORMAT"    // Backing file format: yaml, toml or json
	EnvEphemeral = "VPREFS_EPHEMERAL" // Run without disk I/O ("1" or "true")
	EnvJSON      = "VPREFS_JSON"      // Enable JSON output ("1" or "true")
)

// EnvEnabled reports whether the boolean environment variable name is set
// to "1" or "true".
func EnvEnabled(name string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	return v == "1" || v == "true"
}
