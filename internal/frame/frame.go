// Package frame holds a small in-memory table: ordered named columns of
// loosely typed cells plus a row index, with CSV read and write.
//
// Cells are nil (missing), string, int64, float64, bool, time.Time or
// map[string]any. A float NaN counts as missing.
package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Sentinel errors for structural misuse.
var (
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrLength          = errors.New("length mismatch")
)

// Frame is a column-oriented table. The zero value is not usable; call New.
type Frame struct {
	names []string
	cols  map[string][]any
	index []any
}

// New returns an empty frame with no columns and no rows.
func New() *Frame {
	return &Frame{cols: make(map[string][]any)}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.index)
}

// Shape returns (rows, columns).
func (f *Frame) Shape() (int, int) {
	return len(f.index), len(f.names)
}

// Columns returns a copy of the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Has reports whether the frame has a column called name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the cells of a column. The slice is shared with the frame.
func (f *Frame) Column(name string) ([]any, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Index returns the row labels. The slice is shared with the frame.
func (f *Frame) Index() []any {
	return f.index
}

// Value returns the cell at (row, column), or nil when the column is absent.
func (f *Frame) Value(row int, name string) any {
	c, ok := f.cols[name]
	if !ok {
		return nil
	}
	return c[row]
}

// AddColumn appends a column. The first column fixes the row count and
// creates a 0..n-1 index unless one was already set.
func (f *Frame) AddColumn(name string, values []any) error {
	if _, ok := f.cols[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(f.names) == 0 && f.index == nil {
		f.index = rangeIndex(len(values))
	}
	if len(values) != len(f.index) {
		return fmt.Errorf("%w: column %q has %d rows, frame has %d", ErrLength, name, len(values), len(f.index))
	}
	f.names = append(f.names, name)
	f.cols[name] = values
	return nil
}

// SetIndex replaces the row labels.
func (f *Frame) SetIndex(labels []any) error {
	if len(f.names) > 0 && len(labels) != len(f.index) {
		return fmt.Errorf("%w: index has %d labels, frame has %d rows", ErrLength, len(labels), len(f.index))
	}
	f.index = labels
	return nil
}

// Clone returns a deep copy of the column slices and index. Cell values
// themselves are shared.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		names: append([]string(nil), f.names...),
		cols:  make(map[string][]any, len(f.cols)),
		index: append([]any(nil), f.index...),
	}
	for name, c := range f.cols {
		out.cols[name] = append([]any(nil), c...)
	}
	return out
}

// Drop returns a copy without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &Frame{cols: make(map[string][]any), index: append([]any(nil), f.index...)}
	for _, n := range f.names {
		if skip[n] {
			continue
		}
		out.names = append(out.names, n)
		out.cols[n] = append([]any(nil), f.cols[n]...)
	}
	return out
}

// Rename returns a copy with columns renamed per mapping. Names absent from
// mapping are kept. When two columns end up with the same name the later
// one gets a numeric suffix.
func (f *Frame) Rename(mapping map[string]string) *Frame {
	out := &Frame{cols: make(map[string][]any), index: append([]any(nil), f.index...)}
	for _, n := range f.names {
		newName, ok := mapping[n]
		if !ok {
			newName = n
		}
		final := newName
		for i := 1; ; i++ {
			if _, taken := out.cols[final]; !taken {
				break
			}
			final = newName + "." + strconv.Itoa(i)
		}
		out.names = append(out.names, final)
		out.cols[final] = append([]any(nil), f.cols[n]...)
	}
	return out
}

// Take returns a copy holding only the given rows, in the given order.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{
		names: append([]string(nil), f.names...),
		cols:  make(map[string][]any, len(f.cols)),
		index: make([]any, len(rows)),
	}
	for i, r := range rows {
		out.index[i] = f.index[r]
	}
	for _, n := range f.names {
		src := f.cols[n]
		dst := make([]any, len(rows))
		for i, r := range rows {
			dst[i] = src[r]
		}
		out.cols[n] = dst
	}
	return out
}

// WithColumn returns a copy where name holds values. An existing column
// keeps its position; a new one is appended.
func (f *Frame) WithColumn(name string, values []any) (*Frame, error) {
	if len(f.names) > 0 && len(values) != len(f.index) {
		return nil, fmt.Errorf("%w: column %q has %d rows, frame has %d", ErrLength, name, len(values), len(f.index))
	}
	out := f.Clone()
	if _, ok := out.cols[name]; ok {
		out.cols[name] = values
		return out, nil
	}
	if err := out.AddColumn(name, values); err != nil {
		return nil, err
	}
	return out, nil
}

// IsNA reports whether v is a missing cell.
func IsNA(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

func rangeIndex(n int) []any {
	idx := make([]any, n)
	for i := range idx {
		idx[i] = int64(i)
	}
	return idx
}
