package cleaning

import (
	"fmt"
	"strings"

	"github.com/mlderes/dstoolkit/internal/frame"
)

// ReplaceInColumnNames replaces find with replace inside the names of the
// selected columns, e.g. spaces removed or turned into "_", or post-merge
// suffixes stripped.
func ReplaceInColumnNames(f *frame.Frame, sel Selector, find, replace string) *frame.Frame {
	mapping := make(map[string]string)
	for _, c := range sel.Resolve(f.Columns()) {
		mapping[c] = strings.ReplaceAll(c, find, replace)
	}
	return f.Rename(mapping)
}

// ReplaceValues replaces cells equal to a key of replacements with the
// mapped value, in every column.
func ReplaceValues(f *frame.Frame, replacements map[any]any) *frame.Frame {
	out := f.Clone()
	if len(replacements) == 0 {
		return out
	}
	for _, name := range out.Columns() {
		col, _ := out.Column(name)
		for i, v := range col {
			for from, to := range replacements {
				if frame.Equal(v, from) {
					col[i] = to
					break
				}
			}
		}
	}
	return out
}

// RemoveColumns drops the selected columns. Under Raise, requesting a
// column the frame does not have is an error; otherwise absent names are
// skipped.
func RemoveColumns(f *frame.Frame, sel Selector, p Policy) (*frame.Frame, error) {
	if p == Raise {
		if missing := sel.Missing(f.Columns()); len(missing) > 0 {
			return nil, fmt.Errorf("columns not found: %v", missing)
		}
	}
	return f.Drop(sel.Resolve(f.Columns())...), nil
}
