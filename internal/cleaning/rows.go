package cleaning

import (
	"fmt"
	"sort"

	"github.com/mlderes/dstoolkit/internal/frame"
)

// How selects the missing-value rule of RemoveNARows.
type How int

const (
	// Any drops a row when any subset cell is missing.
	Any How = iota
	// AllMissing drops a row only when every subset cell is missing.
	AllMissing
)

// ParseHow maps "any" (or "") and "all" to a How.
func ParseHow(s string) (How, error) {
	switch s {
	case "", "any":
		return Any, nil
	case "all":
		return AllMissing, nil
	}
	return Any, fmt.Errorf("invalid how %q (use 'any' or 'all')", s)
}

// NAOptions configures RemoveNARows.
type NAOptions struct {
	How How
	// Threshold, when positive, keeps rows with at least this many
	// non-missing subset cells and overrides How.
	Threshold int
	// Subset restricts which columns are inspected. The zero value inspects all.
	Subset Selector
}

// RemoveNARows drops rows that do not have enough data in the subset columns.
func RemoveNARows(f *frame.Frame, opts NAOptions) *frame.Frame {
	cols := opts.Subset.Resolve(f.Columns())
	keep := make([]int, 0, f.Len())
	for r := 0; r < f.Len(); r++ {
		present := 0
		for _, c := range cols {
			if !frame.IsNA(f.Value(r, c)) {
				present++
			}
		}
		var ok bool
		switch {
		case opts.Threshold > 0:
			ok = present >= opts.Threshold
		case opts.How == AllMissing:
			ok = len(cols) == 0 || present > 0
		default:
			ok = present == len(cols)
		}
		if ok {
			keep = append(keep, r)
		}
	}
	return f.Take(keep)
}

// RemoveDuplicates collapses rows sharing an index label into one row that
// holds, per column, the first non-missing value of the group. Groups are
// ordered by label. Rows whose label is missing are dropped.
func RemoveDuplicates(f *frame.Frame) *frame.Frame {
	type group struct {
		label any
		rows  []int
	}
	var groups []*group
	byKey := make(map[any]*group)
	for r, label := range f.Index() {
		if frame.IsNA(label) {
			continue
		}
		k := frame.Key(label)
		g, ok := byKey[k]
		if !ok {
			g = &group{label: label}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return frame.Less(groups[i].label, groups[j].label)
	})

	out := frame.New()
	labels := make([]any, len(groups))
	for i, g := range groups {
		labels[i] = g.label
	}
	_ = out.SetIndex(labels)
	for _, name := range f.Columns() {
		src, _ := f.Column(name)
		dst := make([]any, len(groups))
		for i, g := range groups {
			for _, r := range g.rows {
				if !frame.IsNA(src[r]) {
					dst[i] = src[r]
					break
				}
			}
		}
		_ = out.AddColumn(name, dst)
	}
	return out
}

// CountEmptyRows counts the cells of column that are missing or zero.
func CountEmptyRows(f *frame.Frame, column string) int {
	col, ok := f.Column(column)
	if !ok {
		return 0
	}
	n := 0
	for _, v := range col {
		if frame.IsNA(v) {
			n++
			continue
		}
		if x, ok := frame.ToFloat(v); ok && x == 0 {
			n++
		}
	}
	return n
}

// MergeAndFillGaps sets left to the row-wise maximum of left and right,
// filling holes in left from right. log may be nil.
func MergeAndFillGaps(f *frame.Frame, left, right string, log Logger) (*frame.Frame, error) {
	l, ok := f.Column(left)
	if !ok {
		return nil, fmt.Errorf("column %q not found", left)
	}
	r, ok := f.Column(right)
	if !ok {
		return nil, fmt.Errorf("column %q not found", right)
	}
	if log != nil {
		log.Info("filling holes")
	}
	debugf(log, "Rows with 0 or NaN prior to merge %d", CountEmptyRows(f, left))

	merged := make([]any, len(l))
	for i := range l {
		merged[i] = maxValue(l[i], r[i])
	}
	out, err := f.WithColumn(left, merged)
	if err != nil {
		return nil, err
	}
	debugf(log, "Rows with 0 or NaN post to merge %d", CountEmptyRows(out, left))
	return out, nil
}

func maxValue(a, b any) any {
	switch {
	case frame.IsNA(a):
		return b
	case frame.IsNA(b):
		return a
	}
	if frame.Less(a, b) {
		return b
	}
	return a
}

// MergeIndicator is the column SplitMerged partitions on.
const MergeIndicator = "_merge"

// SplitMerged splits a merged table into the rows whose merge indicator is
// "both" and the rest. The indicator column is dropped from both parts.
func SplitMerged(f *frame.Frame) (matched, missing *frame.Frame) {
	col, _ := f.Column(MergeIndicator)
	var in, out []int
	for r := 0; r < f.Len(); r++ {
		if col != nil && col[r] == "both" {
			in = append(in, r)
		} else {
			out = append(out, r)
		}
	}
	matched = f.Take(in).Drop(MergeIndicator)
	missing = f.Take(out).Drop(MergeIndicator)
	return matched, missing
}
