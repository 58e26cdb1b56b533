// Package dataframe holds the raw tabular form that provider feeds arrive
// in: a column list plus rows keyed by column name. Providers hand these
// frames to the ETL layer untouched; all column-name normalization happens
// downstream.
package dataframe

import (
	"math"
	"strconv"
	"strings"
)

// Row is a single record keyed by column name. Values are either strings
// (CSV-sourced) or native numeric types.
type Row map[string]any

// Frame is an ordered collection of rows sharing a column set.
type Frame struct {
	columns []string
	index   map[string]struct{}
	rows    []Row
}

// New creates an empty frame with the given columns.
func New(columns ...string) *Frame {
	f := &Frame{index: make(map[string]struct{}, len(columns))}
	for _, c := range columns {
		f.addColumn(c)
	}
	return f
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return f.columns
}

// HasColumn reports whether the frame carries the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Len returns the row count.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Rows returns the backing row slice.
func (f *Frame) Rows() []Row {
	return f.rows
}

// Append adds a row. Keys not already present become new columns.
func (f *Frame) Append(row Row) {
	for key := range row {
		if !f.HasColumn(key) {
			f.addColumn(key)
		}
	}
	f.rows = append(f.rows, row)
}

// SetAll assigns value to the named column on every row, creating the
// column if needed. Used to synthesize a season column when a provider
// omits it.
func (f *Frame) SetAll(name string, value any) {
	if !f.HasColumn(name) {
		f.addColumn(name)
	}
	for _, row := range f.rows {
		row[name] = value
	}
}

// Extend appends all rows of other, merging column sets.
func (f *Frame) Extend(other *Frame) {
	for _, c := range other.columns {
		if !f.HasColumn(c) {
			f.addColumn(c)
		}
	}
	f.rows = append(f.rows, other.rows...)
}

func (f *Frame) addColumn(name string) {
	if f.index == nil {
		f.index = make(map[string]struct{})
	}
	f.columns = append(f.columns, name)
	f.index[name] = struct{}{}
}

// String returns the value as a string, or "" when absent.
func (r Row) String(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Float returns the value as a float64. The second result is false when
// the cell is missing, empty, NaN, or unparsable -- callers treat that as
// SQL NULL, never as zero.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r[col]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "nan") {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		if math.IsNaN(parsed) {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

// Int returns the value rounded to the nearest integer.
func (r Row) Int(col string) (int, bool) {
	f, ok := r.Float(col)
	if !ok {
		return 0, false
	}
	return int(math.Round(f)), true
}
