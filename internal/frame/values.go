package frame

import (
	"fmt"
	"math"
	"time"
)

// Kind classifies the non-missing cells of a column.
type Kind int

const (
	KindEmpty Kind = iota // no non-missing cells
	KindBool
	KindInt
	KindFloat // float64, or a mix of int64 and float64
	KindTime
	KindString
	KindMap
	KindMixed
)

var kindNames = [...]string{"empty", "bool", "int", "float", "time", "string", "map", "mixed"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf reports the kind shared by all non-missing cells of values.
func KindOf(values []any) Kind {
	kind := KindEmpty
	for _, v := range values {
		if IsNA(v) {
			continue
		}
		k := kindOfValue(v)
		switch {
		case kind == KindEmpty:
			kind = k
		case kind == k:
		case (kind == KindInt && k == KindFloat) || (kind == KindFloat && k == KindInt):
			kind = KindFloat
		default:
			return KindMixed
		}
	}
	return kind
}

func kindOfValue(v any) Kind {
	switch v.(type) {
	case bool:
		return KindBool
	case int64, int:
		return KindInt
	case float64:
		return KindFloat
	case time.Time:
		return KindTime
	case string:
		return KindString
	case map[string]any:
		return KindMap
	}
	return KindMixed
}

// CountNA returns the number of missing cells in values.
func CountNA(values []any) int {
	n := 0
	for _, v := range values {
		if IsNA(v) {
			n++
		}
	}
	return n
}

// ToFloat converts numeric cells to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	}
	return 0, false
}

// Equal compares two cells. Numbers compare by value across int and float,
// maps never compare equal, and two missing cells are equal.
func Equal(a, b any) bool {
	if IsNA(a) || IsNA(b) {
		return IsNA(a) && IsNA(b)
	}
	if fa, ok := ToFloat(a); ok {
		fb, ok := ToFloat(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return false
}

// Less orders cells for sorting: missing first, then numbers, times, bools
// and strings, with other values compared by their printed form.
func Less(a, b any) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	switch ra {
	case 0:
		return false
	case 1:
		fa, _ := ToFloat(a)
		fb, _ := ToFloat(b)
		return fa < fb
	case 2:
		return a.(time.Time).Before(b.(time.Time))
	case 3:
		return !a.(bool) && b.(bool)
	case 4:
		return a.(string) < b.(string)
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func rank(v any) int {
	if IsNA(v) {
		return 0
	}
	switch v.(type) {
	case int64, int, float64:
		return 1
	case time.Time:
		return 2
	case bool:
		return 3
	case string:
		return 4
	}
	return 5
}

// Key returns a comparable grouping key for a cell. Numerically equal int
// and float cells share a key.
func Key(v any) any {
	if IsNA(v) {
		return nil
	}
	if f, ok := ToFloat(v); ok {
		return f
	}
	switch x := v.(type) {
	case string, bool:
		return x
	case time.Time:
		return x.UnixNano()
	}
	return fmt.Sprint(v)
}
