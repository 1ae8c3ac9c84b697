package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMissingKey is wrapped by MalformedRowError when a row lacks a column.
var ErrMissingKey = errors.New("missing key")

// MalformedRowError reports a metadata row that cannot be decoded into
// the named record.
type MalformedRowError struct {
	Record string
	Key    string
	Err    error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed %s row: %s: %v", e.Record, e.Key, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// Row is one metadata-store row keyed by column name. Values hold
// whatever the driver produced: integers of any width, strings, byte
// slices, floats, time.Time or nil.
type Row map[string]any

// TimeLayout is the scheduler's datetime layout for rows and forms.
const TimeLayout = "2006-01-02 15:04:05"

// Reader decodes the columns of one row for a named record type. The
// first failure is kept; subsequent reads return zero values so decoders
// can read every field and check Err once.
type Reader struct {
	record string
	row    Row
	err    error
}

// NewReader returns a Reader decoding row as record.
func (r Row) NewReader(record string) *Reader {
	return &Reader{record: record, row: r}
}

// Err returns the first decode failure.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(key string, err error) {
	if r.err == nil {
		r.err = &MalformedRowError{Record: r.record, Key: key, Err: err}
	}
}

// Raw returns the value stored under key.
func (r *Reader) Raw(key string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.row[key]
	if !ok {
		r.fail(key, ErrMissingKey)
		return nil, false
	}
	return v, true
}

// Int64 reads an integer column. NULL reads as zero.
func (r *Reader) Int64(key string) int64 {
	v, _ := r.NullInt64(key)
	return v
}

// Int reads an integer column. NULL reads as zero.
func (r *Reader) Int(key string) int {
	return int(r.Int64(key))
}

// NullInt64 reads an integer column and reports whether it was non-NULL.
func (r *Reader) NullInt64(key string) (int64, bool) {
	v, ok := r.Raw(key)
	if !ok || v == nil {
		return 0, false
	}
	n, err := toInt64(v)
	if err != nil {
		r.fail(key, err)
		return 0, false
	}
	return n, true
}

// Float64 reads a numeric column. NULL reads as zero.
func (r *Reader) Float64(key string) float64 {
	v, ok := r.Raw(key)
	if !ok || v == nil {
		return 0
	}
	f, err := toFloat64(v)
	if err != nil {
		r.fail(key, err)
		return 0
	}
	return f
}

// String reads a text column. NULL reads as the empty string.
func (r *Reader) String(key string) string {
	v, _ := r.NullString(key)
	return v
}

// NullString reads a text column and reports whether it was non-NULL.
func (r *Reader) NullString(key string) (string, bool) {
	v, ok := r.Raw(key)
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	default:
		r.fail(key, errors.Errorf("unexpected %T for text column", v))
		return "", false
	}
}

// Time reads a datetime column. NULL reads as the zero time.
func (r *Reader) Time(key string) time.Time {
	v, ok := r.Raw(key)
	if !ok || v == nil {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return r.parseTime(key, t)
	case []byte:
		return r.parseTime(key, string(t))
	default:
		r.fail(key, errors.Errorf("unexpected %T for datetime column", v))
		return time.Time{}
	}
}

func (r *Reader) parseTime(key, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{TimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	r.fail(key, errors.Errorf("unparseable datetime %q", s))
	return time.Time{}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, errors.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, errors.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return parseInt(string(n))
	case string:
		return parseInt(n)
	default:
		return 0, errors.Errorf("unexpected %T for integer column", v)
	}
}

func floatToInt64(f float64) (int64, error) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.Errorf("%v is not an int64", f)
	}
	return int64(f), nil
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse integer %q", s)
	}
	return n, nil
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	default:
		i, err := toInt64(v)
		return float64(i), err
	}
}

// Text reads a column as text. Numeric values are formatted in base 10;
// NULL reads as the empty string.
func (r *Reader) Text(key string) string {
	v, ok := r.Raw(key)
	if !ok || v == nil {
		return ""
	}
	switch v.(type) {
	case string, []byte, fmt.Stringer:
		return r.String(key)
	}
	n, err := toInt64(v)
	if err != nil {
		r.fail(key, err)
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// Enum reads an integer column and maps it through from. A NULL column
// is passed to from as -1.
func Enum[T any](r *Reader, key string, from func(int) (T, error)) T {
	var zero T
	v, ok := r.NullInt64(key)
	if r.err != nil {
		return zero
	}
	if !ok {
		v = -1
	}
	m, err := from(int(v))
	if err != nil {
		r.fail(key, err)
		return zero
	}
	return m
}
