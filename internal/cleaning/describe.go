package cleaning

import (
	"github.com/mlderes/dstoolkit/internal/frame"
)

// Logger is the subset of logging.Logger the cleaning helpers need.
type Logger interface {
	Info(string, ...interface{})
	Debug(string, ...interface{})
}

// Step is one table transform in a cleaning sequence.
type Step func(*frame.Frame) (*frame.Frame, error)

// Describe wraps step so that each call logs description at info level and
// the shape before and after, plus any dropped columns, at debug level.
func Describe(log Logger, description, name string, step Step) Step {
	return func(f *frame.Frame) (*frame.Frame, error) {
		if description != "" {
			log.Info("%s", description)
		}
		rows, cols := f.Shape()
		log.Debug("Shape prior to %s: (%d, %d)", name, rows, cols)
		before := f.Columns()

		out, err := step(f)
		if err != nil {
			return nil, err
		}

		rows, cols = out.Shape()
		log.Debug("Shape after running %s: (%d, %d)", name, rows, cols)
		dropped := Columns(before...).Missing(out.Columns())
		if len(dropped) == 0 {
			log.Debug("No columns dropped.")
		} else {
			log.Debug("Columns dropped: %v", dropped)
		}
		return out, nil
	}
}
