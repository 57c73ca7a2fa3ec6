package cleaning

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlderes/dstoolkit/internal/frame"
)

// recLogger records formatted messages for assertions.
type recLogger struct {
	info  []string
	debug []string
}

func (l *recLogger) Info(format string, args ...interface{}) {
	l.info = append(l.info, fmt.Sprintf(format, args...))
}

func (l *recLogger) Debug(format string, args ...interface{}) {
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

func build(t *testing.T, cols ...any) *frame.Frame {
	t.Helper()
	f := frame.New()
	for i := 0; i < len(cols); i += 2 {
		require.NoError(t, f.AddColumn(cols[i].(string), cols[i+1].([]any)))
	}
	return f
}

func ints(vs ...int64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// generated mirrors a frame with plain and spaced column names.
func generated(t *testing.T) *frame.Frame {
	return build(t,
		"A", ints(1, 2), "B", ints(3, 4), "C", ints(5, 6), "D", ints(7, 8), "E", ints(9, 10),
		"A Banana", ints(11, 12), "B Orange", ints(13, 14),
	)
}

func column(t *testing.T, f *frame.Frame, name string) []any {
	t.Helper()
	c, ok := f.Column(name)
	require.True(t, ok, "column %q missing", name)
	return c
}

// --- Policy and Selector ---

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", Ignore, false},
		{"ignore", Ignore, false},
		{"RAISE", Raise, false},
		{" coerce ", Coerce, false},
		{"strict", Ignore, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidPolicy, "ParsePolicy(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ParsePolicy(%q)", tt.in)
	}
}

func TestSelectorResolve(t *testing.T) {
	cols := []string{"A", "B", "C"}
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{"all sentinel", "all", []string{"A", "B", "C"}},
		{"none means all", nil, []string{"A", "B", "C"}},
		{"single present", "B", []string{"B"}},
		{"single absent", "Z", []string{}},
		{"list intersects", []any{"A", "Z"}, []string{"A"}},
		{"list keeps table order", []string{"C", "A"}, []string{"A", "C"}},
		{"empty list", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := SelectorFromValue(tt.value, Ignore)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Resolve(cols))
		})
	}
}

func TestSelectorFromValue_NilPolicies(t *testing.T) {
	sel, err := SelectorFromValue(nil, Coerce)
	require.NoError(t, err)
	assert.Empty(t, sel.Resolve([]string{"A"}))

	_, err = SelectorFromValue(nil, Raise)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSelectorMissing(t *testing.T) {
	assert.Equal(t, []string{"Z"}, Columns("A", "Z").Missing([]string{"A", "B"}))
	assert.Nil(t, All().Missing([]string{"A"}))
}

// --- Column names and values ---

func TestReplaceInColumnNames(t *testing.T) {
	f := generated(t)

	got := ReplaceInColumnNames(f, All(), " ", "")
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "ABanana", "BOrange"}, got.Columns())

	got = ReplaceInColumnNames(f, All(), " ", "_")
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "A_Banana", "B_Orange"}, got.Columns())

	got = ReplaceInColumnNames(f, Column("A Banana"), " ", "_")
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "A_Banana", "B Orange"}, got.Columns())
}

func TestRemoveColumns(t *testing.T) {
	f := generated(t)

	got, err := RemoveColumns(f, Columns("A", "C"), Ignore)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "D", "E", "A Banana", "B Orange"}, got.Columns())

	got, err = RemoveColumns(f, Column("A"), Ignore)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D", "E", "A Banana", "B Orange"}, got.Columns())

	got, err = RemoveColumns(f, Columns("A", "Z"), Ignore)
	require.NoError(t, err)
	assert.NotContains(t, got.Columns(), "A")

	_, err = RemoveColumns(f, Columns("A", "Z"), Raise)
	assert.Error(t, err)
}

func TestReplaceValues(t *testing.T) {
	f := build(t, "s", []any{"n/a", "ok", nil}, "n", []any{int64(1), 2.0, int64(3)})
	got := ReplaceValues(f, map[any]any{"n/a": nil, 1.0: "one"})

	assert.Equal(t, []any{nil, "ok", nil}, column(t, got, "s"))
	assert.Equal(t, []any{"one", 2.0, int64(3)}, column(t, got, "n"))
	assert.Equal(t, "n/a", f.Value(0, "s"), "input must not change")
}

// --- Conversions ---

func booleanFrame(t *testing.T) *frame.Frame {
	return build(t,
		"A", ints(1, 0, 0, 1),
		"B", ints(1, 1, 1, 1),
		"C", ints(0, 0, 0, 0),
		"D", []any{true, false, true, false},
	)
}

func TestConvertToBool(t *testing.T) {
	got := ConvertToBool(booleanFrame(t), Column("A"))
	assert.Equal(t, []any{true, false, false, true}, column(t, got, "A"))
	assert.Equal(t, ints(1, 1, 1, 1), column(t, got, "B"), "unselected column unchanged")

	got = ConvertToBool(booleanFrame(t), Columns("C", "B"))
	assert.Equal(t, []any{true, true, true, true}, column(t, got, "B"))
	assert.Equal(t, []any{false, false, false, false}, column(t, got, "C"))
}

func TestConvertToBool_MissingAndOther(t *testing.T) {
	f := build(t, "x", []any{int64(1), nil, int64(7), "yes", 0.0})
	got := ConvertToBool(f, All())
	assert.Equal(t, []any{true, nil, nil, nil, false}, column(t, got, "x"))
}

func TestConvertFromBool(t *testing.T) {
	got := ConvertFromBool(booleanFrame(t), Column("D"))
	assert.Equal(t, ints(1, 0, 1, 0), column(t, got, "D"))

	withNA := build(t, "D", []any{true, nil})
	got = ConvertFromBool(withNA, All())
	assert.Equal(t, []any{true, nil}, column(t, got, "D"), "columns with missing cells are not boolean")
}

func TestConvertToDate(t *testing.T) {
	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	f := build(t,
		"good", []any{"2024-03-07", "03/07/2024", nil},
		"bad", []any{"2024-03-07", "not a date", nil},
	)

	got, err := ConvertToDate(f, All(), Ignore)
	require.NoError(t, err)
	assert.Equal(t, []any{day, day, nil}, column(t, got, "good"))
	assert.Equal(t, []any{"2024-03-07", "not a date", nil}, column(t, got, "bad"), "ignore leaves the column as it was")

	got, err = ConvertToDate(f, Column("bad"), Coerce)
	require.NoError(t, err)
	assert.Equal(t, []any{day, nil, nil}, column(t, got, "bad"))

	_, err = ConvertToDate(f, Column("bad"), Raise)
	assert.Error(t, err)
}

func TestForceDataTypes(t *testing.T) {
	f := build(t,
		"i", []any{"1", "2.9", "x"},
		"fl", []any{int64(1), "2.5", nil},
		"b", []any{"yes", int64(0), "maybe"},
		"s", []any{int64(5), 1.5, true},
		"d", []any{"2024-03-07 10:11:12", "bad", nil},
		"untyped", []any{"keep", "me", "."},
	)
	types := map[string]string{"i": "int", "fl": "float", "b": "bool", "s": "string", "d": "date"}
	log := &recLogger{}

	got, err := ForceDataTypes(f, types, All(), Coerce, log)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), nil}, column(t, got, "i"))
	assert.Equal(t, []any{1.0, 2.5, nil}, column(t, got, "fl"))
	assert.Equal(t, []any{true, false, nil}, column(t, got, "b"))
	assert.Equal(t, []any{"5", "1.5", "True"}, column(t, got, "s"))
	assert.Equal(t, []any{time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), nil, nil}, column(t, got, "d"))
	assert.Equal(t, []any{"keep", "me", "."}, column(t, got, "untyped"))
	assert.Contains(t, log.debug, "No conversion available for column untyped.")

	got, err = ForceDataTypes(f, types, Column("i"), Ignore, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), "x"}, column(t, got, "i"))

	_, err = ForceDataTypes(f, types, Column("i"), Raise, nil)
	assert.Error(t, err)

	_, err = ForceDataTypes(f, map[string]string{"i": "decimal"}, All(), Ignore, nil)
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestForceDataTypes_IntOutOfRange(t *testing.T) {
	f := build(t, "n", []any{1e20, -1e30, "9e18", "1e19", 42.7})
	types := map[string]string{"n": "int"}

	_, err := ForceDataTypes(f, types, All(), Raise, nil)
	assert.Error(t, err)

	got, err := ForceDataTypes(f, types, All(), Coerce, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil, int64(9e18), nil, int64(42)}, column(t, got, "n"))
}

// --- Rows ---

func TestRemoveNARows(t *testing.T) {
	f := build(t,
		"A", []any{int64(1), nil, nil, int64(4)},
		"B", []any{"x", "y", nil, nil},
		"C", []any{1.0, 2.0, nil, 4.0},
	)
	tests := []struct {
		name string
		opts NAOptions
		want []any // remaining index labels
	}{
		{"any", NAOptions{}, ints(0)},
		{"all", NAOptions{How: AllMissing}, ints(0, 1, 3)},
		{"threshold", NAOptions{Threshold: 2}, ints(0, 1, 3)},
		{"threshold three", NAOptions{Threshold: 3}, ints(0)},
		{"subset", NAOptions{Subset: Columns("A", "C")}, ints(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemoveNARows(f, tt.opts)
			assert.Equal(t, tt.want, got.Index())
		})
	}
}

func TestParseHow(t *testing.T) {
	h, err := ParseHow("all")
	require.NoError(t, err)
	assert.Equal(t, AllMissing, h)
	_, err = ParseHow("some")
	assert.Error(t, err)
}

func TestRemoveDuplicates(t *testing.T) {
	f := build(t, "A", ints(0, 1, 2, 3, 4))
	require.NoError(t, f.SetIndex(ints(1, 1, 2, 2, 3)))

	got := RemoveDuplicates(f)
	assert.Equal(t, ints(1, 2, 3), got.Index())
	assert.Equal(t, ints(0, 2, 4), column(t, got, "A"))
}

func TestRemoveDuplicates_FirstNonMissing(t *testing.T) {
	f := build(t, "A", []any{nil, "b", "c"})
	require.NoError(t, f.SetIndex([]any{"k2", "k2", "k1"}))

	got := RemoveDuplicates(f)
	assert.Equal(t, []any{"k1", "k2"}, got.Index())
	assert.Equal(t, []any{"c", "b"}, column(t, got, "A"))
}

func TestRemoveDuplicates_DropsMissingLabels(t *testing.T) {
	f := build(t, "A", ints(0, 1, 2, 3))
	require.NoError(t, f.SetIndex([]any{int64(1), nil, int64(1), nil}))

	got := RemoveDuplicates(f)
	assert.Equal(t, ints(1), got.Index())
	assert.Equal(t, ints(0), column(t, got, "A"))

	require.NoError(t, f.SetIndex([]any{nil, nil, nil, nil}))
	rows, cols := RemoveDuplicates(f).Shape()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 1, cols)
}

func TestMergeAndFillGaps(t *testing.T) {
	f := build(t, "L", []any{int64(0), nil, int64(5), 2.0}, "R", []any{int64(3), int64(4), int64(1), nil})
	log := &recLogger{}

	got, err := MergeAndFillGaps(f, "L", "R", log)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3), int64(4), int64(5), 2.0}, column(t, got, "L"))
	assert.Equal(t, 2, CountEmptyRows(f, "L"))
	assert.Equal(t, 0, CountEmptyRows(got, "L"))
	assert.Contains(t, log.debug, "Rows with 0 or NaN prior to merge 2")

	_, err = MergeAndFillGaps(f, "L", "nope", nil)
	assert.Error(t, err)
}

func TestSplitMerged(t *testing.T) {
	f := build(t, "k", ints(1, 2, 3), MergeIndicator, []any{"both", "left_only", "both"})
	matched, missing := SplitMerged(f)

	assert.Equal(t, []string{"k"}, matched.Columns())
	assert.Equal(t, ints(1, 3), column(t, matched, "k"))
	assert.Equal(t, ints(2), column(t, missing, "k"))
	assert.NotContains(t, missing.Columns(), MergeIndicator)
}

// --- Dictionaries ---

func TestDictFromString(t *testing.T) {
	got := DictFromString(`{'a': 1, "b": 'two', 'c': [1, 2], 'd': None, 'e': True}`)
	assert.Equal(t, map[string]any{
		"a": int64(1), "b": "two", "c": []any{int64(1), int64(2)}, "d": nil, "e": true,
	}, got)

	assert.Equal(t, map[string]any{"1": "x"}, DictFromString(`{1: 'x'}`))
	assert.Equal(t, map[string]any{}, DictFromString("not a dict"))
	assert.Equal(t, map[string]any{}, DictFromString("{unclosed"))
}

func TestDictFromString_QuotedNoneAndRepeatedKeys(t *testing.T) {
	got := DictFromString(`{'a': 'None', "b": "None", 'c': None, 'n': {'x': None}}`)
	assert.Equal(t, map[string]any{
		"a": "None", "b": "None", "c": nil, "n": map[string]any{"x": nil},
	}, got)

	assert.Equal(t, map[string]any{"k": int64(2), "j": "z"}, DictFromString(`{"k": 1, 'j': 'z', "k": 2}`))
}

func TestTextToDict(t *testing.T) {
	f := build(t, "m", []any{`{'a': 1}`, nil, "junk"})

	got, err := TextToDict(f, All(), Ignore)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"a": int64(1)}, map[string]any{}, "junk"}, column(t, got, "m"))

	got, err = TextToDict(f, All(), Coerce)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got.Value(2, "m"))

	_, err = TextToDict(f, All(), Raise)
	assert.Error(t, err)
}

// --- Describe ---

func TestDescribe_LogsShapesAndDroppedColumns(t *testing.T) {
	log := &recLogger{}
	step := Describe(log, "Removing columns", "remove_columns", func(f *frame.Frame) (*frame.Frame, error) {
		return RemoveColumns(f, Column("A"), Ignore)
	})

	out, err := step(build(t, "A", ints(1, 2), "B", ints(3, 4)))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, out.Columns())
	assert.Equal(t, []string{"Removing columns"}, log.info)
	assert.Equal(t, []string{
		"Shape prior to remove_columns: (2, 2)",
		"Shape after running remove_columns: (2, 1)",
		"Columns dropped: [A]",
	}, log.debug)
}

func TestDescribe_PropagatesError(t *testing.T) {
	log := &recLogger{}
	boom := errors.New("boom")
	step := Describe(log, "", "fail", func(*frame.Frame) (*frame.Frame, error) { return nil, boom })

	_, err := step(frame.New())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, log.info)
}
