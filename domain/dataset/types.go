package dataset

import (
	"time"
)

// Kind tags the classified type of a single cell value.
type Kind string

const (
	KindNull    Kind = "null"
	KindBoolean Kind = "boolean"
	KindInteger Kind = "integer"
	KindReal    Kind = "real"
	KindDate    Kind = "date"
	KindString  Kind = "string"
)

// IsNumeric reports whether the kind carries a numeric payload.
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindReal
}

// Value is a tagged variant for one classified cell. Exactly the field
// matching Kind is meaningful; the rest are zero.
type Value struct {
	Kind Kind
	Bool bool
	Int  int64
	Real float64
	Time time.Time
	Str  string
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// Boolean wraps a bool cell.
func Boolean(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

// Integer wraps an integer cell.
func Integer(i int64) Value {
	return Value{Kind: KindInteger, Int: i}
}

// Real wraps a real-number cell.
func Real(f float64) Value {
	return Value{Kind: KindReal, Real: f}
}

// Date wraps a date/time cell.
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Time: t}
}

// String wraps a string cell.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Float returns the numeric payload as float64. ok is false for
// non-numeric kinds.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindReal:
		return v.Real, true
	}
	return 0, false
}

// Row maps a field name to its raw (unclassified) cell value. A missing
// key and an explicit nil both mean null; an empty string does not.
type Row map[string]interface{}

// Table is a rectangular in-memory dataset with a uniform schema. The
// profiler never mutates it.
type Table struct {
	Fields []string `json:"fields"`
	Rows   []Row    `json:"rows"`
}

// NewTable creates a table from a field list and rows.
func NewTable(fields []string, rows []Row) *Table {
	return &Table{Fields: fields, Rows: rows}
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasField reports whether the schema contains the named field.
func (t *Table) HasField(name string) bool {
	for _, f := range t.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Column extracts the raw values of one field across all rows, in row
// order. Absent cells come back as nil.
func (t *Table) Column(name string) []interface{} {
	values := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values
}
