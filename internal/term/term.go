// Package term provides ANSI color state and terminal detection.
//
// Colors are package-level variables because logging and display both use
// them. [Configure] sets them once during startup; when colors are disabled
// the variables are empty strings, so concatenation is a no-op.
package term

import (
	"os"
	"strings"

	"github.com/mlderes/dstoolkit/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	Dim     = ""
	NC      = "" // Reset sequence.
)

// Configure resolves mode against stdout and sets the ANSI variables.
// It returns whether colors ended up enabled.
func Configure(mode config.ColorMode) bool {
	on := Resolve(mode, os.Stdout, os.Getenv)
	if on {
		Red = "\033[1;91m"
		Green = "\033[1;92m"
		Yellow = "\033[1;93m"
		Blue = "\033[1;94m"
		Cyan = "\033[1;96m"
		Magenta = "\033[1;95m"
		Dim = "\033[2m"
		NC = "\033[0m"
	} else {
		Red, Green, Yellow, Blue, Cyan, Magenta, Dim, NC = "", "", "", "", "", "", "", ""
	}
	return on
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// Resolve reports whether colors should be used for out under mode.
// Auto mode requires a TTY, an unset NO_COLOR (https://no-color.org) and a
// TERM other than "dumb".
func Resolve(mode config.ColorMode, out *os.File, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(out) &&
			getenv("NO_COLOR") == "" &&
			strings.ToLower(getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
