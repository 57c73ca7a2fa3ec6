package cleaning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mlderes/dstoolkit/internal/frame"
)

// ErrUnknownType is returned by ForceDataTypes for an unsupported type name.
var ErrUnknownType = errors.New("unknown data type (use int, float, bool, string, date or datetime)")

// dateLayouts are tried in order by ConvertToDate and the date casts.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"2006/01/02",
}

// ConvertToBool maps 1 to true and 0 to false in the selected columns.
// Booleans are kept, missing cells stay missing and any other value
// becomes missing. Columns that are already entirely boolean are untouched.
func ConvertToBool(f *frame.Frame, sel Selector) *frame.Frame {
	out := f.Clone()
	for _, name := range sel.Resolve(out.Columns()) {
		col, _ := out.Column(name)
		if frame.KindOf(col) == frame.KindBool && frame.CountNA(col) == 0 {
			continue
		}
		for i, v := range col {
			col[i] = toBoolFromFlag(v)
		}
	}
	return out
}

func toBoolFromFlag(v any) any {
	if b, ok := v.(bool); ok {
		return b
	}
	n, ok := frame.ToFloat(v)
	switch {
	case ok && n == 1:
		return true
	case ok && n == 0:
		return false
	}
	return nil
}

// ConvertFromBool turns selected columns that are entirely boolean (no
// missing cells) into 1/0 integers. Other columns are left alone.
func ConvertFromBool(f *frame.Frame, sel Selector) *frame.Frame {
	out := f.Clone()
	for _, name := range sel.Resolve(out.Columns()) {
		col, _ := out.Column(name)
		if len(col) == 0 || frame.KindOf(col) != frame.KindBool || frame.CountNA(col) > 0 {
			continue
		}
		for i, v := range col {
			if v.(bool) {
				col[i] = int64(1)
			} else {
				col[i] = int64(0)
			}
		}
	}
	return out
}

// ConvertToDate parses the selected columns into time.Time. Under Ignore a
// column with any unparsable cell is left exactly as it was; under Coerce
// unparsable cells become missing; under Raise the first failure is
// returned.
func ConvertToDate(f *frame.Frame, sel Selector, p Policy) (*frame.Frame, error) {
	out := f.Clone()
	for _, name := range sel.Resolve(out.Columns()) {
		col, _ := out.Column(name)
		converted := make([]any, len(col))
		failed := false
		for i, v := range col {
			if frame.IsNA(v) {
				continue
			}
			t, ok := parseTime(v)
			if ok {
				converted[i] = t
				continue
			}
			if p == Raise {
				return nil, fmt.Errorf("column %q row %d: cannot parse %v as a date", name, i, v)
			}
			failed = true
		}
		if failed && p == Ignore {
			continue
		}
		copy(col, converted)
	}
	return out, nil
}

func parseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ForceDataTypes casts the selected columns according to types (column
// name → int, float, bool, string, date or datetime). Selected columns with
// no entry are skipped. Cells that cannot be cast follow p: Ignore keeps
// them, Coerce makes them missing, Raise fails. log may be nil.
func ForceDataTypes(f *frame.Frame, types map[string]string, sel Selector, p Policy, log Logger) (*frame.Frame, error) {
	out := f.Clone()
	for _, name := range sel.Resolve(out.Columns()) {
		typ, ok := types[name]
		if !ok {
			debugf(log, "No conversion available for column %s.", name)
			continue
		}
		cast, err := caster(typ)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		col, _ := out.Column(name)
		for i, v := range col {
			if frame.IsNA(v) {
				col[i] = nil
				continue
			}
			c, ok := cast(v)
			switch {
			case ok:
				col[i] = c
			case p == Coerce:
				col[i] = nil
			case p == Raise:
				return nil, fmt.Errorf("column %q row %d: cannot convert %v to %s", name, i, v, typ)
			}
		}
	}
	return out, nil
}

func caster(typ string) (func(any) (any, bool), error) {
	switch strings.ToLower(typ) {
	case "int", "int64", "integer":
		return castInt, nil
	case "float", "float64", "number":
		return castFloat, nil
	case "bool", "boolean":
		return castBool, nil
	case "str", "string":
		return castString, nil
	case "date":
		return castDate, nil
	case "datetime", "timestamp":
		return func(v any) (any, bool) {
			t, ok := parseTime(v)
			return t, ok
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
}

func castInt(v any) (any, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return floatToInt(x)
	case bool:
		if x {
			return int64(1), true
		}
		return int64(0), true
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if fl, err := strconv.ParseFloat(s, 64); err == nil {
			return floatToInt(fl)
		}
	}
	return nil, false
}

// floatToInt truncates x, failing for NaN and values outside int64.
func floatToInt(x float64) (any, bool) {
	if math.IsNaN(x) || x < math.MinInt64 || x >= math.MaxInt64 {
		return nil, false
	}
	return int64(x), true
}

func castFloat(v any) (any, bool) {
	if n, ok := frame.ToFloat(v); ok {
		return n, true
	}
	switch x := v.(type) {
	case bool:
		if x {
			return 1.0, true
		}
		return 0.0, true
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return n, true
		}
	}
	return nil, false
}

func castBool(v any) (any, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if n, ok := frame.ToFloat(v); ok {
		return n != 0, true
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "t", "yes", "y", "1":
			return true, true
		case "false", "f", "no", "n", "0":
			return false, true
		}
	}
	return nil, false
}

func castString(v any) (any, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	return frame.FormatValue(v, frame.WriteOptions{FloatFormat: "%g"}), true
}

func castDate(v any) (any, bool) {
	t, ok := parseTime(v)
	if !ok {
		return nil, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), true
}

func debugf(log Logger, format string, args ...interface{}) {
	if log != nil {
		log.Debug(format, args...)
	}
}
