// Command dstoolkit is the CLI entrypoint for the data folder toolkit.
//
// It resolves the newest version of a table in a directory, builds versioned
// output names, shows the data root layout, runs cleaning recipes, and
// checks a data root for problems.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mlderes/dstoolkit/internal/config"
	"github.com/mlderes/dstoolkit/internal/logging"
)

// errReported marks failures that were already logged in detail.
var errReported = errors.New("failed")

// app carries state shared by the commands of one invocation.
type app struct {
	cfg       config.Config
	log       *logging.Logger
	stdout    io.Writer
	stderr    io.Writer
	newLogger func(*config.Config) (*logging.Logger, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		cfg:       config.DefaultConfig(),
		stdout:    stdout,
		stderr:    stderr,
		newLogger: logging.NewLogger,
	}
}

func main() {
	os.Exit(run(newApp(os.Stdout, os.Stderr), os.Args[1:]))
}

// run executes one command line and returns the process exit code.
func run(a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	if a.log != nil {
		defer a.log.Close()
	}
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		// Bootstrap errors happen before the logger exists.
		if a.log != nil {
			a.log.Error("%v", err)
		} else {
			fmt.Fprintf(a.stderr, "dstoolkit: %v\n", err)
		}
	}
	return 1
}
