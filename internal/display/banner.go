package display

import (
	"fmt"
	"io"

	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/term"
)

// PrintBanner writes the tool name and version, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `     _     _              _ _    _ _
  __| |___| |_ ___  ___ | | | _(_) |_
 / _`+"`"+` (_-<  _/ _ \/ _ \| | |/ / |  _|
 \__,_/__/\__\___/\___/|_|_|\_\_|\__|
`)
	fmt.Fprint(w, term.NC)
	fmt.Fprintf(w, "%sv%s%s\n\n", term.Dim, config.Version, term.NC)
}
