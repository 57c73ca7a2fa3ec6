package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultFloatFormat is applied when WriteOptions.FloatFormat is empty.
const DefaultFloatFormat = "%.3f"

// ReadOptions controls ReadCSV.
type ReadOptions struct {
	// IndexCol is the 0-based column holding row labels; -1 means none.
	IndexCol int
	// Delimiter defaults to ','.
	Delimiter rune
	// NAValues are cell texts read as missing, in addition to "".
	NAValues []string
}

// DefaultReadOptions reads without an index column.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{IndexCol: -1}
}

// WriteOptions controls WriteCSV. The zero value writes the index with an
// empty header and floats with three decimals.
type WriteOptions struct {
	FloatFormat string // fmt verb for float64 cells; "" means DefaultFloatFormat
	SkipIndex   bool
	IndexLabel  string
	NAValue     string
	DateFormat  string // time layout; "" means RFC3339, or 2006-01-02 for midnight values
	Delimiter   rune
}

// ReadCSV reads a header row and data rows. Each column is typed as a
// whole: int64 when every non-empty cell parses as an integer, else float64
// when every cell parses as a number, else bool for True/False text, else
// string.
func ReadCSV(r io.Reader, opts ReadOptions) (*Frame, error) {
	rdr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		rdr.Comma = opts.Delimiter
	}
	rdr.FieldsPerRecord = -1

	header, err := rdr.Read()
	if errors.Is(err, io.EOF) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	na := map[string]bool{"": true}
	for _, s := range opts.NAValues {
		na[s] = true
	}

	raw := make([][]string, len(header))
	rows := 0
	for {
		rec, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		for i := range header {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			raw[i] = append(raw[i], cell)
		}
		rows++
	}

	f := New()
	if opts.IndexCol >= 0 {
		if opts.IndexCol >= len(header) {
			return nil, fmt.Errorf("index column %d out of range (%d columns)", opts.IndexCol, len(header))
		}
		if err := f.SetIndex(inferColumn(raw[opts.IndexCol], na, rows)); err != nil {
			return nil, err
		}
	} else {
		f.index = rangeIndex(rows)
	}

	for i, name := range header {
		if i == opts.IndexCol {
			continue
		}
		// Repeated header names become name.1, name.2, ... like Rename.
		final := name
		for n := 1; f.Has(final); n++ {
			final = name + "." + strconv.Itoa(n)
		}
		if err := f.AddColumn(final, inferColumn(raw[i], na, rows)); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func inferColumn(cells []string, na map[string]bool, rows int) []any {
	out := make([]any, rows)
	isInt, isFloat, isBool := true, true, true
	for _, c := range cells {
		if na[c] {
			continue
		}
		if isInt {
			if _, err := strconv.ParseInt(c, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(c, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBoolText(c); !ok {
				isBool = false
			}
		}
	}

	for i, c := range cells {
		if na[c] {
			continue
		}
		switch {
		case isInt:
			out[i], _ = strconv.ParseInt(c, 10, 64)
		case isFloat:
			out[i], _ = strconv.ParseFloat(c, 64)
		case isBool:
			out[i], _ = parseBoolText(c)
		default:
			out[i] = c
		}
	}
	return out
}

func parseBoolText(s string) (bool, bool) {
	switch s {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// WriteCSV writes f with a header row.
func WriteCSV(w io.Writer, f *Frame, opts WriteOptions) error {
	if opts.FloatFormat == "" {
		opts.FloatFormat = DefaultFloatFormat
	}
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	header := make([]string, 0, len(f.names)+1)
	if !opts.SkipIndex {
		header = append(header, opts.IndexLabel)
	}
	header = append(header, f.names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, len(header))
	for r := 0; r < f.Len(); r++ {
		rec = rec[:0]
		if !opts.SkipIndex {
			rec = append(rec, FormatValue(f.index[r], opts))
		}
		for _, n := range f.names {
			rec = append(rec, FormatValue(f.cols[n][r], opts))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatValue renders one cell as CSV text.
func FormatValue(v any, opts WriteOptions) string {
	if IsNA(v) {
		return opts.NAValue
	}
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		format := opts.FloatFormat
		if format == "" {
			format = DefaultFloatFormat
		}
		return fmt.Sprintf(format, x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		if opts.DateFormat != "" {
			return x.Format(opts.DateFormat)
		}
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case map[string]any:
		return formatMap(x)
	}
	return fmt.Sprint(v)
}

// formatMap renders a map as a dict literal with sorted keys.
func formatMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(k))
		b.WriteString(": ")
		switch v := m[k].(type) {
		case string:
			b.WriteString(strconv.Quote(v))
		case map[string]any:
			b.WriteString(formatMap(v))
		default:
			b.WriteString(FormatValue(v, WriteOptions{NAValue: "null", FloatFormat: "%g"}))
		}
	}
	b.WriteByte('}')
	return b.String()
}
