package cleaning

import (
	"errors"
	"fmt"
)

// AllColumns is the sentinel config value selecting every column.
const AllColumns = "all"

// ErrNoSelection is returned by SelectorFromValue for a nil value under Raise.
var ErrNoSelection = errors.New("expected a column name or a list of column names")

// Selector names the columns an operation applies to. The zero value
// selects every column.
type Selector struct {
	names    []string
	explicit bool
}

// All selects every column.
func All() Selector { return Selector{} }

// Column selects a single column by name.
func Column(name string) Selector { return Selector{names: []string{name}, explicit: true} }

// Columns selects the named columns. An empty list selects nothing.
func Columns(names ...string) Selector {
	return Selector{names: append([]string{}, names...), explicit: true}
}

// IsAll reports whether s selects every column.
func (s Selector) IsAll() bool { return !s.explicit }

// Names returns the requested names (nil for All).
func (s Selector) Names() []string { return append([]string(nil), s.names...) }

// Resolve returns the selected columns that exist in tableColumns, in table
// order. Requested names that are absent are dropped without error.
func (s Selector) Resolve(tableColumns []string) []string {
	if !s.explicit {
		return append([]string{}, tableColumns...)
	}
	want := make(map[string]bool, len(s.names))
	for _, n := range s.names {
		want[n] = true
	}
	out := []string{}
	for _, c := range tableColumns {
		if want[c] {
			out = append(out, c)
		}
	}
	return out
}

// Missing returns the requested names absent from tableColumns.
func (s Selector) Missing(tableColumns []string) []string {
	if !s.explicit {
		return nil
	}
	have := make(map[string]bool, len(tableColumns))
	for _, c := range tableColumns {
		have[c] = true
	}
	var out []string
	for _, n := range s.names {
		if !have[n] {
			out = append(out, n)
		}
	}
	return out
}

func (s Selector) String() string {
	if !s.explicit {
		return AllColumns
	}
	return fmt.Sprint(s.names)
}

// SelectorFromValue converts a decoded config value into a Selector:
// "all" selects everything, a string selects one column, a list selects
// several. For nil, Ignore selects everything, Coerce selects nothing and
// Raise returns ErrNoSelection.
func SelectorFromValue(v any, p Policy) (Selector, error) {
	switch x := v.(type) {
	case nil:
		switch p {
		case Coerce:
			return Columns(), nil
		case Raise:
			return Selector{}, ErrNoSelection
		}
		return All(), nil
	case Selector:
		return x, nil
	case string:
		if x == AllColumns {
			return All(), nil
		}
		return Column(x), nil
	case []string:
		return Columns(x...), nil
	case []any:
		names := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprint(item)
			}
			names = append(names, s)
		}
		return Columns(names...), nil
	}
	return Column(fmt.Sprint(v)), nil
}
